package backend

import (
	"context"
	"fmt"

	"despesas/internal/log"
	"despesas/internal/storage/file"
	"despesas/internal/storage/memory"
	"despesas/internal/storage/postgres"
	"despesas/internal/storage/redis"
	"despesas/internal/storage/sqlite"
)

// redisNamespace prefixes every key written to Redis.
const redisNamespace = "despesas"

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger        *log.Logger
	storageLogger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Default(log.ComponentBackend)
	}
	return &DefaultFactory{
		logger:        logger.WithComponent(log.ComponentBackend),
		storageLogger: logger.WithComponent(log.ComponentStorage),
	}
}

// closer wraps a backend's Close so the release is logged under the storage component.
func (f *DefaultFactory) closer(backend BackendType, closeFn func() error) CleanupFunc {
	return func() error {
		if err := closeFn(); err != nil {
			f.storageLogger.Error("Failed to close storage", log.FieldBackend, backend, log.FieldError, err)
			return err
		}
		f.storageLogger.Info("Storage closed", log.FieldBackend, backend)
		return nil
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case MemoryBackend:
		f.logger.Info("Initialized memory backend", log.FieldBackend, config.Type)
		return &BackendResult{Store: memory.New()}, nil
	case FileBackend:
		return f.createFileBackend(config)
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	case RedisBackend:
		return f.createRedisBackend(config)
	case PostgresBackend:
		return f.createPostgresBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createFileBackend(config Config) (*BackendResult, error) {
	store, err := file.New(config.DataDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file store: %w", err)
	}
	f.logger.Info("Initialized file backend", log.FieldBackend, config.Type, "data_directory", config.DataDirectory)
	return &BackendResult{Store: store}, nil
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*BackendResult, error) {
	repo, err := sqlite.NewRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}
	f.logger.Info("Initialized SQLite backend", log.FieldBackend, config.Type, "db_path", config.SQLiteDBPath)
	return &BackendResult{Store: repo, Cleanup: f.closer(config.Type, repo.Close)}, nil
}

func (f *DefaultFactory) createRedisBackend(config Config) (*BackendResult, error) {
	store, err := redis.New(redis.Options{
		Addr:      config.RedisAddr,
		Password:  config.RedisPassword,
		DB:        config.RedisDB,
		Namespace: redisNamespace,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Redis store: %w", err)
	}
	f.logger.Info("Initialized Redis backend", log.FieldBackend, config.Type, "addr", config.RedisAddr, "db", config.RedisDB)
	return &BackendResult{Store: store, Cleanup: f.closer(config.Type, store.Close)}, nil
}

func (f *DefaultFactory) createPostgresBackend(config Config) (*BackendResult, error) {
	store, err := postgres.New(config.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Postgres store: %w", err)
	}
	f.logger.Info("Initialized Postgres backend", log.FieldBackend, config.Type)
	return &BackendResult{Store: store, Cleanup: f.closer(config.Type, store.Close)}, nil
}
