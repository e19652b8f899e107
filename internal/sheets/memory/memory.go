package memory

import (
	"context"
	"sync"

	ports "despesas/internal/sheets"
)

// Sheet is an in-process RowWriter that keeps the last written values.
type Sheet struct {
	mu     sync.Mutex
	values [][]interface{}
	writes int
	err    error
}

var _ ports.RowWriter = (*Sheet)(nil)

func New() *Sheet {
	return &Sheet{}
}

func (s *Sheet) ReplaceRows(_ context.Context, values [][]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.values = make([][]interface{}, len(values))
	for i, row := range values {
		s.values[i] = append([]interface{}(nil), row...)
	}
	s.writes++
	return nil
}

// Values returns a copy of the current content.
func (s *Sheet) Values() [][]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]interface{}, len(s.values))
	for i, row := range s.values {
		out[i] = append([]interface{}(nil), row...)
	}
	return out
}

// Writes counts successful ReplaceRows calls.
func (s *Sheet) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// FailWith makes subsequent writes return err until cleared with nil.
func (s *Sheet) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}
