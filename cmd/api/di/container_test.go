package di

import (
	"context"
	"path/filepath"
	"testing"

	"exercise-tracker/internal/config"
	usecase "exercise-tracker/internal/usecase/user"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func testConfig(t *testing.T) *config.Config {
	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)

	cfg.Store.Driver = config.DriverSQLite
	cfg.DB.SQLitePath = filepath.Join(t.TempDir(), "tracker.db")
	return cfg
}

func TestNewContainer_SQLite(t *testing.T) {
	c, err := NewContainer(context.Background(), testConfig(t), zaptest.NewLogger(t))
	require.NoError(t, err)
	defer func() { assert.NoError(t, c.Close(context.Background())) }()

	assert.NotNil(t, c.DB)
	assert.Nil(t, c.Mongo)
	assert.Nil(t, c.RedisClient)
	require.NotNil(t, c.GinHandler)

	created, err := c.UserUC.CreateUser(context.Background(), usecase.CreateUserRequest{Username: "bob"})
	require.NoError(t, err)
	assert.Equal(t, "bob", created.Username)
}

func TestNewContainer_WithRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := testConfig(t)
	cfg.Redis.Enabled = true
	cfg.Redis.Host = mr.Host()
	cfg.Redis.Port = mr.Port()

	c, err := NewContainer(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer func() { assert.NoError(t, c.Close(context.Background())) }()

	require.NotNil(t, c.RedisClient)

	created, err := c.UserUC.CreateUser(context.Background(), usecase.CreateUserRequest{Username: "alice"})
	require.NoError(t, err)

	_, err = c.UserUC.GetExerciseLog(context.Background(), usecase.GetExerciseLogRequest{UserID: created.ID})
	require.NoError(t, err)
	assert.True(t, mr.Exists("user:"+created.ID))
}

func TestNewContainer_InvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Store.Driver = "cassandra"

	c, err := NewContainer(context.Background(), cfg, zaptest.NewLogger(t))
	assert.Error(t, err)
	assert.Nil(t, c)
}
