package di

import (
	"context"
	"errors"
	"fmt"
	"time"

	"exercise-tracker/cmd/api/infrastructure"
	"exercise-tracker/internal/adapter/cache"
	"exercise-tracker/internal/adapter/db/mongodb"
	"exercise-tracker/internal/adapter/db/postgres"
	ginhandler "exercise-tracker/internal/adapter/gin/handler"
	"exercise-tracker/internal/adapter/repository/cached"
	"exercise-tracker/internal/config"
	"exercise-tracker/internal/usecase/user"
	redisclient "exercise-tracker/pkg/redis"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	Mongo       *mongo.Client
	DB          *gorm.DB
	RedisClient *redisclient.Client
	UserUC      user.Usecase
	GinHandler  *ginhandler.UserHandler
}

// NewContainer creates and initializes all application dependencies
func NewContainer(ctx context.Context, cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	c := &Container{Config: cfg, Logger: l}

	repo, err := c.newStore(ctx)
	if err != nil {
		return nil, err
	}

	if cfg.Redis.Enabled {
		rdb, err := infrastructure.NewRedisClient(ctx, cfg, l)
		if err != nil {
			_ = c.Close(context.Background())
			return nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}
		c.RedisClient = rdb

		userCache := cache.NewRedisUserCache(
			rdb.Client,
			time.Duration(cfg.Redis.CacheTTL)*time.Second,
			l,
		)
		repo = cached.NewCachedUserRepository(repo, userCache, l)
	}

	c.UserUC = user.New(repo, l)
	c.GinHandler = ginhandler.NewUserHandler(c.UserUC, l)

	return c, nil
}

// newStore opens the document store named by STORE_DRIVER.
func (c *Container) newStore(ctx context.Context) (user.Repository, error) {
	switch c.Config.Store.Driver {
	case config.DriverMongo:
		client, err := infrastructure.NewMongoClient(ctx, c.Config, c.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize MongoDB: %w", err)
		}
		c.Mongo = client
		return mongodb.NewUserRepoMongo(client.Database(c.Config.Mongo.DatabaseName()), c.Logger), nil
	default:
		db, err := infrastructure.NewDatabase(c.Config, c.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		c.DB = db
		return postgres.NewUserRepoPG(db, c.Logger), nil
	}
}

// Close closes all resources held by the container
func (c *Container) Close(ctx context.Context) error {
	var errs []error

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	if c.Mongo != nil {
		if err := infrastructure.CloseMongo(ctx, c.Mongo); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
