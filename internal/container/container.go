package container

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"autoparts/content/internal/cache"
	"autoparts/content/internal/client"
	"autoparts/content/internal/config"
	"autoparts/content/internal/queue"
	"autoparts/content/internal/repository"
	"autoparts/content/internal/server"
	"autoparts/content/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Container holds all initialized components
type Container struct {
	Config     *config.Config
	Repository repository.ContentRepository
	Audit      repository.AuditRepository
	Cache      cache.OverrideCache
	Queue      queue.Queue
	Storefront client.StorefrontClient

	Service *service.Service
	Server  *server.Server

	db    *pgxpool.Pool
	redis *redis.Client
}

// New creates a new container with all dependencies initialized
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	container := &Container{
		Config: cfg,
	}

	poolConfig, err := pgxpool.ParseConfig(
		fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			cfg.Database.Host,
			cfg.Database.Port,
			cfg.Database.User,
			cfg.Database.Password,
			cfg.Database.Name,
		))
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	if cfg.Database.MaxConns > 0 {
		poolConfig.MaxConns = int32(cfg.Database.MaxConns)
	}

	db, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	container.db = db

	if err := db.Ping(ctx); err != nil {
		container.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	log.Info("✅ Connected to PostgreSQL successfully")

	container.Repository = repository.NewContentRepository(db)
	container.Audit = repository.NewAuditRepository(db)

	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.Database,
	})
	container.redis = rdb

	// Test connection
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		container.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	log.Info("✅ Connected to Redis successfully")

	if cfg.Cache.Enabled {
		container.Cache = cache.NewRedisOverrideCache(rdb, time.Duration(cfg.Cache.TTL)*time.Second)
	} else {
		log.Info("Override cache disabled")
		container.Cache = cache.NewNoopOverrideCache()
	}

	redisQueue, err := queue.NewRedisQueue(ctx, rdb, cfg.Audit.ConsumerGroup, cfg.Audit.StreamMaxLen)
	if err != nil {
		container.Close()
		return nil, err
	}
	container.Queue = redisQueue

	container.Storefront = client.NewStorefrontClient(cfg.Storefront)

	container.Service = service.NewService(
		container.Repository,
		container.Audit,
		container.Cache,
		redisQueue,
		container.Storefront,
		cfg.Audit.ConsumerGroup,
		cfg.Audit.MinIdleTime,
	)
	container.Server = server.NewServer(cfg.Server, container.Service)

	return container, nil
}

// Run serves HTTP and consumes the audit stream until ctx is cancelled.
func (c *Container) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return c.Server.Start()
	})

	g.Go(func() error {
		return c.Service.RunAuditWorkers(ctx, c.Config.Audit.Workers)
	})

	// Stop the HTTP server once the context is done
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(c.Config.Server.ShutdownTimeout)*time.Second)
		defer cancel()
		return c.Server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	log.Info("Shutting down container...")

	if c.Storefront != nil {
		if err := c.Storefront.Close(); err != nil {
			log.Warnf("⚠️ Failed to close storefront client: %v", err)
		}
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			log.Warnf("⚠️ Failed to close Redis client: %v", err)
		}
	}
	if c.db != nil {
		c.db.Close()
	}

	log.Info("Container shut down successfully")
	return nil
}
