// Package storage defines the key-value persistence port the expense store
// writes its records through, and hosts the backends implementing it.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("key not found")

type (
	// Store reads and writes opaque values by key.
	Store interface {
		Get(ctx context.Context, key string) ([]byte, error)
		Set(ctx context.Context, key string, value []byte) error
		// Delete removes key. Deleting an absent key is not an error.
		Delete(ctx context.Context, key string) error
	}

	// BatchSetter is implemented by stores that can write several keys
	// all-or-nothing.
	BatchSetter interface {
		SetMany(ctx context.Context, values map[string][]byte) error
	}
)

// SetAll writes values through SetMany when s supports it and one key at a
// time otherwise.
func SetAll(ctx context.Context, s Store, values map[string][]byte) error {
	if b, ok := s.(BatchSetter); ok {
		return b.SetMany(ctx, values)
	}
	for key, value := range values {
		if err := s.Set(ctx, key, value); err != nil {
			return err
		}
	}
	return nil
}
