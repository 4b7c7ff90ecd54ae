package cached

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"exercise-tracker/internal/adapter/cache"
	domain "exercise-tracker/internal/domain/user"
	pkgerrors "exercise-tracker/pkg/errors"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, u *domain.User) (string, error) {
	args := m.Called(ctx, u)
	return args.String(0), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) AppendExercise(ctx context.Context, id string, e domain.Exercise) error {
	return m.Called(ctx, id, e).Error(0)
}

func setup(t *testing.T) (*MockRepository, *miniredis.Miniredis, *CachedUserRepository) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	logger := zaptest.NewLogger(t)
	dbRepo := new(MockRepository)
	repo := NewCachedUserRepository(dbRepo, cache.NewRedisUserCache(client, time.Minute, logger), logger)
	return dbRepo, mr, repo.(*CachedUserRepository)
}

func storedUser() *domain.User {
	return &domain.User{ID: "u1", Username: "bob", Exercises: []domain.Exercise{
		{Description: "run", Duration: 30, Date: domain.NewDate(2024, time.January, 1)},
	}}
}

func TestCachedUserRepository_GetByID_CachesAfterFirstRead(t *testing.T) {
	dbRepo, mr, repo := setup(t)
	ctx := context.Background()

	dbRepo.On("GetByID", ctx, "u1").Return(storedUser(), nil).Once()

	first, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, mr.Exists("user:u1"))

	second, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	dbRepo.AssertNumberOfCalls(t, "GetByID", 1)
}

func TestCachedUserRepository_GetByID_NotFoundIsNotCached(t *testing.T) {
	dbRepo, mr, repo := setup(t)
	ctx := context.Background()

	dbRepo.On("GetByID", ctx, "ghost").Return(nil, pkgerrors.ErrUserNotFound)

	got, err := repo.GetByID(ctx, "ghost")

	assert.Nil(t, got)
	assert.True(t, pkgerrors.IsNotFound(err))
	assert.False(t, mr.Exists("user:ghost"))
}

func TestCachedUserRepository_AppendExercise_InvalidatesCache(t *testing.T) {
	dbRepo, mr, repo := setup(t)
	ctx := context.Background()

	swim := domain.Exercise{Description: "swim", Duration: 20, Date: domain.NewDate(2024, time.January, 2)}
	dbRepo.On("GetByID", ctx, "u1").Return(storedUser(), nil)
	dbRepo.On("AppendExercise", ctx, "u1", swim).Return(nil)

	_, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	require.True(t, mr.Exists("user:u1"))

	require.NoError(t, repo.AppendExercise(ctx, "u1", swim))

	assert.False(t, mr.Exists("user:u1"))
	dbRepo.AssertExpectations(t)
}

func TestCachedUserRepository_AppendExercise_ErrorKeepsCache(t *testing.T) {
	dbRepo, mr, repo := setup(t)
	ctx := context.Background()

	dbRepo.On("GetByID", ctx, "u1").Return(storedUser(), nil)
	dbRepo.On("AppendExercise", ctx, "u1", mock.Anything).Return(assert.AnError)

	_, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)

	assert.ErrorIs(t, repo.AppendExercise(ctx, "u1", domain.Exercise{Description: "swim", Duration: 20}), assert.AnError)
	assert.True(t, mr.Exists("user:u1"))
}

func TestCachedUserRepository_GetByID_CacheUnavailable(t *testing.T) {
	dbRepo, mr, repo := setup(t)
	ctx := context.Background()
	mr.SetError("LOADING")

	dbRepo.On("GetByID", ctx, "u1").Return(storedUser(), nil)

	got, err := repo.GetByID(ctx, "u1")

	require.NoError(t, err)
	assert.Equal(t, "bob", got.Username)
}

func TestCachedUserRepository_NilCache(t *testing.T) {
	dbRepo := new(MockRepository)
	repo := NewCachedUserRepository(dbRepo, nil, zaptest.NewLogger(t))
	ctx := context.Background()

	dbRepo.On("GetByID", ctx, "u1").Return(storedUser(), nil)
	dbRepo.On("Create", ctx, mock.Anything).Return("u2", nil)
	dbRepo.On("List", ctx).Return([]domain.User{*storedUser()}, nil)

	_, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	_, err = repo.GetByID(ctx, "u1")
	require.NoError(t, err)

	id, err := repo.Create(ctx, &domain.User{Username: "alice"})
	require.NoError(t, err)
	assert.Equal(t, "u2", id)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	dbRepo.AssertNumberOfCalls(t, "GetByID", 2)
}
