package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"exercise-tracker/internal/domain/user"
	pkgerrors "exercise-tracker/pkg/errors"
)

// CollectionName is the collection holding user documents.
const CollectionName = "users"

// UserRepoMongo implements the user Repository on a MongoDB collection.
// Exercises are embedded in their user's document.
type UserRepoMongo struct {
	coll *mongo.Collection
	log  *zap.Logger
}

// NewUserRepoMongo creates a repository over db's users collection.
func NewUserRepoMongo(db *mongo.Database, log *zap.Logger) *UserRepoMongo {
	return &UserRepoMongo{coll: db.Collection(CollectionName), log: log}
}

type userDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Username  string             `bson:"username"`
	Exercises []exerciseDocument `bson:"exercises"`
}

type exerciseDocument struct {
	Description string `bson:"description"`
	Duration    int    `bson:"duration"`
	Date        string `bson:"date"`
}

// Create inserts a new user document and returns the generated ObjectID in hex.
func (r *UserRepoMongo) Create(ctx context.Context, u *user.User) (string, error) {
	if u == nil {
		return "", errors.New("user cannot be nil")
	}

	doc := toDocument(u)
	doc.ID = primitive.NilObjectID

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		r.log.Error("failed to insert user document", zap.Error(err), zap.String("username", u.Username))
		return "", fmt.Errorf("failed to create user: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}

	u.ID = oid.Hex()
	r.log.Info("user document created", zap.String("id", u.ID))
	return u.ID, nil
}

// List returns every user document in insertion order.
func (r *UserRepoMongo) List(ctx context.Context) ([]user.User, error) {
	cur, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		r.log.Error("failed to query user documents", zap.Error(err))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	var docs []userDocument
	if err := cur.All(ctx, &docs); err != nil {
		r.log.Error("failed to decode user documents", zap.Error(err))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]user.User, len(docs))
	for i := range docs {
		u, err := toDomain(&docs[i])
		if err != nil {
			return nil, err
		}
		users[i] = *u
	}
	return users, nil
}

// GetByID looks a user up by its hex ObjectID. Identifiers that are not valid
// ObjectIDs cannot name a user and yield NotFoundError.
func (r *UserRepoMongo) GetByID(ctx context.Context, id string) (*user.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		r.log.Warn("malformed user id", zap.String("id", id))
		return nil, pkgerrors.ErrUserNotFound
	}

	var doc userDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			r.log.Warn("user not found", zap.String("id", id))
			return nil, pkgerrors.ErrUserNotFound
		}
		r.log.Error("failed to get user document", zap.Error(err), zap.String("id", id))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return toDomain(&doc)
}

// AppendExercise pushes e onto the user's embedded exercises with a single
// $push, so concurrent appends for one user are all kept.
func (r *UserRepoMongo) AppendExercise(ctx context.Context, id string, e user.Exercise) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return pkgerrors.ErrUserNotFound
	}

	update := bson.M{"$push": bson.M{"exercises": toExerciseDocument(e)}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		r.log.Error("failed to append exercise", zap.Error(err), zap.String("id", id))
		return fmt.Errorf("failed to append exercise: %w", err)
	}
	if res.MatchedCount == 0 {
		r.log.Warn("user not found on append", zap.String("id", id))
		return pkgerrors.ErrUserNotFound
	}

	r.log.Info("exercise appended", zap.String("id", id))
	return nil
}

func toDocument(u *user.User) userDocument {
	exercises := make([]exerciseDocument, len(u.Exercises))
	for i, e := range u.Exercises {
		exercises[i] = toExerciseDocument(e)
	}
	return userDocument{
		Username:  u.Username,
		Exercises: exercises,
	}
}

func toExerciseDocument(e user.Exercise) exerciseDocument {
	return exerciseDocument{
		Description: e.Description,
		Duration:    e.Duration,
		Date:        e.Date.String(),
	}
}

func toDomain(doc *userDocument) (*user.User, error) {
	exercises := make([]user.Exercise, len(doc.Exercises))
	for i, e := range doc.Exercises {
		date, err := user.ParseDate(e.Date)
		if err != nil {
			return nil, fmt.Errorf("exercise %d of user %s: %w", i, doc.ID.Hex(), err)
		}
		exercises[i] = user.Exercise{
			Description: e.Description,
			Duration:    e.Duration,
			Date:        date,
		}
	}

	return &user.User{
		ID:        doc.ID.Hex(),
		Username:  doc.Username,
		Exercises: exercises,
	}, nil
}
