// Package file stores each key as a JSON document in a directory, which is
// the closest thing to browser local storage on a single machine.
package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"despesas/internal/storage"
)

type Store struct {
	mu  sync.Mutex
	dir string
}

var (
	_ storage.Store       = (*Store)(nil)
	_ storage.BatchSetter = (*Store)(nil)
)

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.HasPrefix(key, ".") {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

// Set writes to a temporary file first so readers never see a torn value.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	return s.SetMany(ctx, map[string][]byte{key: value})
}

// SetMany stages every value in a temporary file before renaming any of
// them, so a failed write leaves all keys untouched. A failure during the
// renames themselves can still leave earlier keys replaced.
func (s *Store) SetMany(_ context.Context, values map[string][]byte) error {
	keys := make([]string, 0, len(values))
	paths := make(map[string]string, len(values))
	for key := range values {
		p, err := s.path(key)
		if err != nil {
			return err
		}
		keys = append(keys, key)
		paths[key] = p
	}
	sort.Strings(keys)

	s.mu.Lock()
	defer s.mu.Unlock()

	staged := make(map[string]string, len(keys))
	defer func() {
		for _, tmp := range staged {
			os.Remove(tmp)
		}
	}()

	for _, key := range keys {
		tmp, err := s.stage(key, values[key])
		if err != nil {
			return err
		}
		staged[key] = tmp
	}

	for _, key := range keys {
		if err := os.Rename(staged[key], paths[key]); err != nil {
			return fmt.Errorf("replace %s: %w", key, err)
		}
		delete(staged, key)
	}
	return nil
}

func (s *Store) stage(key string, value []byte) (string, error) {
	tmp, err := os.CreateTemp(s.dir, "."+key+"-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("close %s: %w", key, err)
	}
	return tmp.Name(), nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
