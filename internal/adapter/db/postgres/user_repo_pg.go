package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"exercise-tracker/internal/domain/user"
	pkgerrors "exercise-tracker/pkg/errors"
)

// UserRepoPG implements the user Repository on top of GORM. It is used with
// PostgreSQL in deployments and with SQLite locally and in tests.
type UserRepoPG struct {
	db  *gorm.DB    // GORM database connection
	log *zap.Logger // Structured logger for database operations
}

// NewUserRepoPG creates a new instance of UserRepoPG.
func NewUserRepoPG(db *gorm.DB, log *zap.Logger) *UserRepoPG {
	return &UserRepoPG{db: db, log: log}
}

// UserSchema represents the database schema for the users table.
type UserSchema struct {
	ID        string           `gorm:"primaryKey;type:varchar(36)"` // Opaque identifier assigned on create
	Username  string           `gorm:"not null"`                    // Not unique
	CreatedAt time.Time        `gorm:"index"`                       // Drives list order
	Exercises []ExerciseSchema `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}

// BeforeCreate assigns a UUID when the caller did not provide an ID.
func (u *UserSchema) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// ExerciseSchema represents one row of the exercises table.
// The auto-increment ID preserves insertion order within a user.
type ExerciseSchema struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	UserID      string `gorm:"not null;index;type:varchar(36)"`
	Description string `gorm:"not null"`
	Duration    int    `gorm:"not null"`
	Date        string `gorm:"not null"` // "Mon Jan 02 2006"
}

// TableName specifies the table name for the ExerciseSchema model.
func (ExerciseSchema) TableName() string {
	return "exercises"
}

// Migrate creates the users and exercises tables when they do not exist.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&UserSchema{}, &ExerciseSchema{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Create inserts a new user, including any exercises it already carries.
func (r *UserRepoPG) Create(ctx context.Context, u *user.User) (string, error) {
	if u == nil {
		return "", errors.New("user cannot be nil")
	}

	model := UserSchema{
		Username:  u.Username,
		Exercises: toExerciseSchemas("", u.Exercises),
	}

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		r.log.Error("failed to create user in db", zap.Error(err), zap.String("username", u.Username))
		return "", fmt.Errorf("failed to create user: %w", err)
	}

	u.ID = model.ID
	r.log.Info("user created in db", zap.String("id", model.ID))
	return model.ID, nil
}

// List retrieves every user with their exercises in creation order.
func (r *UserRepoPG) List(ctx context.Context) ([]user.User, error) {
	var models []UserSchema
	if err := r.db.WithContext(ctx).
		Preload("Exercises", orderByID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&models).Error; err != nil {
		r.log.Error("failed to list users from db", zap.Error(err))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]user.User, len(models))
	for i := range models {
		u, err := toDomain(&models[i])
		if err != nil {
			r.log.Error("failed to decode user", zap.String("id", models[i].ID), zap.Error(err))
			return nil, err
		}
		users[i] = *u
	}

	return users, nil
}

// GetByID retrieves a user and their exercises by ID.
func (r *UserRepoPG) GetByID(ctx context.Context, id string) (*user.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).Preload("Exercises", orderByID).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Warn("user not found", zap.String("id", id))
			return nil, pkgerrors.ErrUserNotFound
		}
		r.log.Error("failed to get user from db", zap.Error(err), zap.String("id", id))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return toDomain(&model)
}

// AppendExercise inserts one exercise row for the user. Existing rows are
// never rewritten, so concurrent appends for one user are all kept.
func (r *UserRepoPG) AppendExercise(ctx context.Context, id string, e user.Exercise) error {
	db := r.db.WithContext(ctx)

	var count int64
	if err := db.Model(&UserSchema{}).Where("id = ?", id).Count(&count).Error; err != nil {
		r.log.Error("failed to look up user for append", zap.Error(err), zap.String("id", id))
		return fmt.Errorf("failed to append exercise: %w", err)
	}
	if count == 0 {
		r.log.Warn("user not found on append", zap.String("id", id))
		return pkgerrors.ErrUserNotFound
	}

	row := toExerciseSchemas(id, []user.Exercise{e})[0]
	if err := db.Create(&row).Error; err != nil {
		r.log.Error("failed to insert exercise", zap.Error(err), zap.String("id", id))
		return fmt.Errorf("failed to append exercise: %w", err)
	}

	r.log.Info("exercise appended in db", zap.String("id", id), zap.Uint("exercise_id", row.ID))
	return nil
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

func toExerciseSchemas(userID string, exercises []user.Exercise) []ExerciseSchema {
	models := make([]ExerciseSchema, len(exercises))
	for i, e := range exercises {
		models[i] = ExerciseSchema{
			UserID:      userID,
			Description: e.Description,
			Duration:    e.Duration,
			Date:        e.Date.String(),
		}
	}
	return models
}

func toDomain(model *UserSchema) (*user.User, error) {
	exercises := make([]user.Exercise, len(model.Exercises))
	for i, e := range model.Exercises {
		date, err := user.ParseDate(e.Date)
		if err != nil {
			return nil, fmt.Errorf("exercise %d of user %s: %w", e.ID, model.ID, err)
		}
		exercises[i] = user.Exercise{
			Description: e.Description,
			Duration:    e.Duration,
			Date:        date,
		}
	}

	return &user.User{
		ID:        model.ID,
		Username:  model.Username,
		Exercises: exercises,
	}, nil
}
