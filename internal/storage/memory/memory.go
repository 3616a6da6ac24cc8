// Package memory provides an in-memory snapshot store for tests and
// storage-less runs. It honors the same full-overwrite contract as the
// SQLite store.
package memory

import (
	"context"
	"sync"

	"clases/internal/core"
)

type Store struct {
	mu    sync.Mutex
	snap  core.Snapshot
	saves int
}

func New() *Store {
	return &Store{}
}

// Seed replaces the held snapshot without counting as a save.
func (s *Store) Seed(snap core.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = copySnapshot(snap)
}

func (s *Store) Load(_ context.Context) (core.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copySnapshot(s.snap), nil
}

func (s *Store) Save(_ context.Context, snap core.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = copySnapshot(snap)
	s.saves++
	return nil
}

// Saves reports how many times Save ran.
func (s *Store) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

func copySnapshot(snap core.Snapshot) core.Snapshot {
	return core.Snapshot{
		Transactions: append([]core.Transaction(nil), snap.Transactions...),
		Students:     append([]core.Student(nil), snap.Students...),
		Invoices:     append([]core.Invoice(nil), snap.Invoices...),
	}
}
