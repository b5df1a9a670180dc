package repositories

import (
	"fmt"
	"strings"

	"github.com/desertthunder/flicklog/internal/models"
	"github.com/desertthunder/flicklog/internal/shared"
	"github.com/redis/go-redis/v9"
)

var (
	_ models.WatchlistStore = (*SQLStore)(nil)
	_ models.WatchlistStore = (*RedisStore)(nil)
	_ models.WatchlistStore = (*FileStore)(nil)
)

// Open builds the [models.WatchlistStore] selected by config.Storage.Backend.
//
// SQL backends are migrated before they are returned.
func Open(config *shared.Config) (models.WatchlistStore, error) {
	switch config.Storage.Backend {
	case shared.BackendSQLite, shared.BackendPostgres:
		return openSQL(config)
	case shared.BackendRedis:
		opts, err := redisOptions(config.Redis)
		if err != nil {
			return nil, err
		}
		return NewRedisStore(redis.NewClient(opts), config.Redis.Prefix), nil
	case shared.BackendFile:
		return NewFileStore(config.File.Path)
	default:
		return nil, fmt.Errorf("%w: unknown storage backend %q", shared.ErrInvalidConfig, config.Storage.Backend)
	}
}

func openSQL(config *shared.Config) (*SQLStore, error) {
	driver, dsn := shared.DriverSQLite, config.Database.Path
	if config.Storage.Backend == shared.BackendPostgres {
		driver, dsn = shared.DriverPostgres, config.Database.URL
	}

	db, err := shared.OpenDatabase(driver, dsn)
	if err != nil {
		return nil, err
	}
	if dsn == ":memory:" {
		db.SetMaxOpenConns(1)
	} else {
		shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return NewSQLStore(db), nil
}

// redisOptions accepts either a bare "host:port" address or a redis:// URL.
func redisOptions(cfg shared.RedisConfig) (*redis.Options, error) {
	if strings.HasPrefix(cfg.Addr, "redis://") || strings.HasPrefix(cfg.Addr, "rediss://") {
		opts, err := redis.ParseURL(cfg.Addr)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid redis url: %v", shared.ErrInvalidConfig, err)
		}
		return opts, nil
	}
	return &redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}, nil
}
