package user

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	domain "exercise-tracker/internal/domain/user"
	pkgerrors "exercise-tracker/pkg/errors"

	"github.com/go-playground/validator/v10"
)

// Repository defines the interface for user data access operations.
// It abstracts the document store, allowing different implementations
// (e.g., MongoDB, PostgreSQL) to be used interchangeably.
type Repository interface {
	Create(ctx context.Context, u *domain.User) (string, error)             // Create a new user and return its ID
	List(ctx context.Context) ([]domain.User, error)                        // List all users with their exercises
	GetByID(ctx context.Context, id string) (*domain.User, error)           // Retrieve user by ID, NotFoundError if absent
	AppendExercise(ctx context.Context, id string, e domain.Exercise) error // Atomically append to the user's log, NotFoundError if absent
}

// Option configures a Usecase.
type Option func(*UserUsecase)

// WithClock overrides the clock used to date exercises logged without a date.
func WithClock(now func() time.Time) Option {
	return func(uc *UserUsecase) {
		uc.now = now
	}
}

// UserUsecase implements the business logic for users and their exercise logs.
// It provides a clean separation between the transport layer and data layer.
type UserUsecase struct {
	repo     Repository          // Repository for data access
	log      *zap.Logger         // Logger for structured logging
	validate *validator.Validate // Validator for request validation
	now      func() time.Time
}

var _ Usecase = (*UserUsecase)(nil)

// New creates a new instance of UserUsecase with the provided repository and logger.
func New(r Repository, log *zap.Logger, opts ...Option) *UserUsecase {
	uc := &UserUsecase{repo: r, log: log, validate: validator.New(), now: time.Now}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// formatValidationError converts validator.ValidationErrors into a ValidationError
// with a human-readable message.
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return pkgerrors.NewValidationError("", err.Error())
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		switch e.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", e.Field()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", e.Field()))
		}
	}
	return pkgerrors.NewValidationError(validationErrors[0].Field(), strings.Join(messages, ", "))
}

// storageError keeps NotFoundError as is and turns anything else into a StorageError.
func storageError(message string, err error) error {
	if pkgerrors.IsNotFound(err) {
		return err
	}
	return pkgerrors.NewStorageError(message, err)
}

// CreateUser validates the username and persists a user with an empty log.
func (uc *UserUsecase) CreateUser(ctx context.Context, in CreateUserRequest) (*CreateUserResponse, error) {
	in.Username = strings.TrimSpace(in.Username)
	uc.log.Info("creating user", zap.String("username", in.Username))

	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("validate failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	u := &domain.User{
		Username:  in.Username,
		Exercises: []domain.Exercise{},
	}
	id, err := uc.repo.Create(ctx, u)
	if err != nil {
		uc.log.Error("failed to create user", zap.String("username", in.Username), zap.Error(err))
		return nil, pkgerrors.NewStorageError("Failed to create user", err)
	}

	return &CreateUserResponse{ID: id, Username: u.Username}, nil
}

// ListUsers returns every user with their exercises.
func (uc *UserUsecase) ListUsers(ctx context.Context) (*ListUsersResponse, error) {
	domainUsers, err := uc.repo.List(ctx)
	if err != nil {
		uc.log.Error("failed to list users", zap.Error(err))
		return nil, pkgerrors.NewStorageError("Failed to retrieve users", err)
	}

	users := make([]User, len(domainUsers))
	for i := range domainUsers {
		users[i] = toUserDTO(&domainUsers[i])
	}

	return &ListUsersResponse{Users: users}, nil
}

// AddExercise appends an exercise to the user's log. The append is a single
// store operation so concurrent calls for one user never drop an entry.
func (uc *UserUsecase) AddExercise(ctx context.Context, in AddExerciseRequest) (*AddExerciseResponse, error) {
	in.Description = strings.TrimSpace(in.Description)
	in.Duration = strings.TrimSpace(in.Duration)
	uc.log.Info("adding exercise",
		zap.String("user_id", in.UserID),
		zap.String("description", in.Description),
		zap.String("duration", in.Duration),
		zap.String("date", in.Date),
	)

	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("validate failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	exercise, err := uc.buildExercise(in)
	if err != nil {
		uc.log.Warn("invalid exercise", zap.String("user_id", in.UserID), zap.Error(err))
		return nil, err
	}

	u, err := uc.repo.GetByID(ctx, in.UserID)
	if err != nil {
		uc.log.Error("failed to get user", zap.String("user_id", in.UserID), zap.Error(err))
		return nil, storageError("Failed to add exercise", err)
	}

	if err := uc.repo.AppendExercise(ctx, u.ID, exercise); err != nil {
		uc.log.Error("failed to append exercise", zap.String("user_id", in.UserID), zap.Error(err))
		return nil, storageError("Failed to add exercise", err)
	}

	return &AddExerciseResponse{
		ID:          u.ID,
		Username:    u.Username,
		Description: exercise.Description,
		Duration:    exercise.Duration,
		Date:        exercise.Date.String(),
	}, nil
}

func (uc *UserUsecase) buildExercise(in AddExerciseRequest) (domain.Exercise, error) {
	duration, err := strconv.Atoi(in.Duration)
	if err != nil || duration <= 0 {
		return domain.Exercise{}, pkgerrors.NewValidationError("duration", "Duration must be a positive whole number of minutes")
	}

	date := domain.DateOf(uc.now())
	if strings.TrimSpace(in.Date) != "" {
		date, err = domain.ParseDate(in.Date)
		if err != nil {
			return domain.Exercise{}, pkgerrors.NewValidationError("date", "Date must be a valid date (yyyy-mm-dd)")
		}
	}

	return domain.Exercise{
		Description: in.Description,
		Duration:    duration,
		Date:        date,
	}, nil
}

// GetExerciseLog returns the user's exercises filtered by date range and limit.
func (uc *UserUsecase) GetExerciseLog(ctx context.Context, in GetExerciseLogRequest) (*GetExerciseLogResponse, error) {
	uc.log.Info("getting exercise log",
		zap.String("user_id", in.UserID),
		zap.String("from", in.From),
		zap.String("to", in.To),
		zap.String("limit", in.Limit),
	)

	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("validate failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	filter, err := parseLogFilter(in)
	if err != nil {
		uc.log.Warn("invalid log filter", zap.String("user_id", in.UserID), zap.Error(err))
		return nil, err
	}

	u, err := uc.repo.GetByID(ctx, in.UserID)
	if err != nil {
		uc.log.Error("failed to get user", zap.String("user_id", in.UserID), zap.Error(err))
		return nil, storageError("Failed to retrieve logs", err)
	}

	entries := u.Log(filter)
	log := make([]Exercise, len(entries))
	for i, e := range entries {
		log[i] = toExerciseDTO(e)
	}

	return &GetExerciseLogResponse{
		ID:       u.ID,
		Username: u.Username,
		Count:    len(log),
		Log:      log,
	}, nil
}

func parseLogFilter(in GetExerciseLogRequest) (domain.LogFilter, error) {
	var filter domain.LogFilter

	if s := strings.TrimSpace(in.From); s != "" {
		from, err := domain.ParseDate(s)
		if err != nil {
			return filter, pkgerrors.NewValidationError("from", "From must be a valid date (yyyy-mm-dd)")
		}
		filter.From = &from
	}

	if s := strings.TrimSpace(in.To); s != "" {
		to, err := domain.ParseDate(s)
		if err != nil {
			return filter, pkgerrors.NewValidationError("to", "To must be a valid date (yyyy-mm-dd)")
		}
		filter.To = &to
	}

	if s := strings.TrimSpace(in.Limit); s != "" {
		limit, err := strconv.Atoi(s)
		if err != nil || limit < 0 {
			return filter, pkgerrors.NewValidationError("limit", "Limit must be a non-negative integer")
		}
		filter.Limit = &limit
	}

	return filter, nil
}

func toUserDTO(u *domain.User) User {
	exercises := make([]Exercise, len(u.Exercises))
	for i, e := range u.Exercises {
		exercises[i] = toExerciseDTO(e)
	}
	return User{
		ID:        u.ID,
		Username:  u.Username,
		Exercises: exercises,
	}
}

func toExerciseDTO(e domain.Exercise) Exercise {
	return Exercise{
		Description: e.Description,
		Duration:    e.Duration,
		Date:        e.Date.String(),
	}
}
