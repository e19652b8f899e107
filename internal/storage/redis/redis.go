package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-redis/redis"

	"despesas/internal/storage"
)

// Store keeps each record under "<namespace>:<key>".
type Store struct {
	client    *redis.Client
	namespace string
}

var (
	_ storage.Store       = (*Store)(nil)
	_ storage.BatchSetter = (*Store)(nil)
)

type Options struct {
	Addr      string
	Password  string
	DB        int
	Namespace string
}

func New(opts Options) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping().Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", opts.Addr, err)
	}

	ns := opts.Namespace
	if ns == "" {
		ns = "despesas"
	}
	return &Store{client: client, namespace: ns}, nil
}

func keyRecord(namespace, key string) string {
	return fmt.Sprintf("%s:%s", namespace, key)
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.WithContext(ctx).Get(keyRecord(s.namespace, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return value, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	k := keyRecord(s.namespace, key)
	if err := s.client.WithContext(ctx).Set(k, value, 0).Err(); err != nil {
		slog.ErrorContext(ctx, "Unable to set redis key", "key", k, "error", err)
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// SetMany wraps the writes in MULTI/EXEC.
func (s *Store) SetMany(ctx context.Context, values map[string][]byte) error {
	_, err := s.client.WithContext(ctx).TxPipelined(func(pipe redis.Pipeliner) error {
		for key, value := range values {
			pipe.Set(keyRecord(s.namespace, key), value, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("set %d keys: %w", len(values), err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.WithContext(ctx).Del(keyRecord(s.namespace, key)).Err(); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}
