package postgres

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"exercise-tracker/internal/domain/user"
	pkgerrors "exercise-tracker/pkg/errors"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)

	// Migrate the schema
	require.NoError(t, Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func setupTestRepo(t *testing.T) *UserRepoPG {
	return NewUserRepoPG(setupTestDB(t), zaptest.NewLogger(t))
}

func TestUserRepoPG_Create(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	u := &user.User{Username: "bob"}
	id, err := repo.Create(ctx, u)

	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, u.ID)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "bob", got.Username)
	assert.Empty(t, got.Exercises)
}

func TestUserRepoPG_Create_DuplicateUsernamesAllowed(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	id1, err := repo.Create(ctx, &user.User{Username: "bob"})
	require.NoError(t, err)
	id2, err := repo.Create(ctx, &user.User{Username: "bob"})
	require.NoError(t, err)

	assert.NotEqual(t, id1, id2)
}

func TestUserRepoPG_Create_NilUser(t *testing.T) {
	repo := setupTestRepo(t)

	_, err := repo.Create(context.Background(), nil)
	assert.Error(t, err)
}

func TestUserRepoPG_GetByID_NotFound(t *testing.T) {
	repo := setupTestRepo(t)

	got, err := repo.GetByID(context.Background(), "does-not-exist")

	assert.Nil(t, got)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestUserRepoPG_AppendExercise_KeepsInsertionOrder(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	id, err := repo.Create(ctx, &user.User{Username: "bob"})
	require.NoError(t, err)

	dates := []user.Date{
		user.NewDate(2024, time.February, 1),
		user.NewDate(2024, time.January, 1),
		user.NewDate(2024, time.January, 15),
	}
	for i, d := range dates {
		require.NoError(t, repo.AppendExercise(ctx, id, user.Exercise{Description: "ex", Duration: 10 * (i + 1), Date: d}))
	}

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	require.Len(t, got.Exercises, 3)
	for i, d := range dates {
		assert.Equal(t, d, got.Exercises[i].Date)
		assert.Equal(t, 10*(i+1), got.Exercises[i].Duration)
	}
}

func TestUserRepoPG_AppendExercise_InterleavedRequestsKeepBoth(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	id, err := repo.Create(ctx, &user.User{Username: "bob"})
	require.NoError(t, err)

	// Two requests read the user before either one writes.
	a, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	b, err := repo.GetByID(ctx, id)
	require.NoError(t, err)

	run := user.Exercise{Description: "run", Duration: 30, Date: user.NewDate(2024, time.January, 1)}
	swim := user.Exercise{Description: "swim", Duration: 45, Date: user.NewDate(2024, time.January, 2)}
	require.NoError(t, repo.AppendExercise(ctx, a.ID, run))
	require.NoError(t, repo.AppendExercise(ctx, b.ID, swim))

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []user.Exercise{run, swim}, got.Exercises)
}

func TestUserRepoPG_AppendExercise_UnknownUser(t *testing.T) {
	repo := setupTestRepo(t)

	err := repo.AppendExercise(context.Background(), "ghost", user.Exercise{Description: "run", Duration: 30})

	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestUserRepoPG_List(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	ids := make([]string, 0, 3)
	for _, name := range []string{"alice", "bob", "carol"} {
		id, err := repo.Create(ctx, &user.User{Username: name})
		require.NoError(t, err)
		ids = append(ids, id)
	}

	require.NoError(t, repo.AppendExercise(ctx, ids[1], user.Exercise{Description: "run", Duration: 30, Date: user.NewDate(2024, time.January, 1)}))

	users, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)

	listed := make(map[string]user.User, len(users))
	for _, lu := range users {
		listed[lu.ID] = lu
	}
	for _, id := range ids {
		assert.Contains(t, listed, id)
	}
	assert.Len(t, listed[ids[1]].Exercises, 1)
	assert.Equal(t, "run", listed[ids[1]].Exercises[0].Description)
}
