// Package memory is an in-process row writer for tests and runs
// without Google credentials.
package memory

import (
	"context"
	"fmt"
	"sync"

	"clases/internal/sheets"
)

type Store struct {
	mu   sync.Mutex
	rows []sheets.Row
}

func New() *Store { return &Store{} }

// Append stores the row and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, row sheets.Row) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, row)
	return fmt.Sprintf("mem:%d", len(s.rows)), nil
}

// Rows returns a copy of everything appended so far.
func (s *Store) Rows() []sheets.Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sheets.Row(nil), s.rows...)
}
