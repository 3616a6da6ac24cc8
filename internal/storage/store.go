package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"clases/internal/core"

	_ "modernc.org/sqlite"
)

// Snapshot slots. Each holds one JSON-encoded collection; a save is a
// full overwrite of all three, mirroring the original flat key-value
// contract.
const (
	slotTransactions = "transactions"
	slotStudents     = "students"
	slotInvoices     = "invoices"
)

type SQLiteStore struct {
	db *sql.DB
}

func Open(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load reads all three slots. Missing slots yield empty collections;
// invoices saved by older versions without a status or paid date are
// normalized to pending.
func (s *SQLiteStore) Load(ctx context.Context) (core.Snapshot, error) {
	var snap core.Snapshot

	rows, err := s.db.QueryContext(ctx, `SELECT slot, payload FROM snapshots`)
	if err != nil {
		return snap, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var slot, payload string
		if err := rows.Scan(&slot, &payload); err != nil {
			return snap, fmt.Errorf("scan snapshot row: %w", err)
		}
		switch slot {
		case slotTransactions:
			if err := json.Unmarshal([]byte(payload), &snap.Transactions); err != nil {
				return snap, fmt.Errorf("decode transactions: %w", err)
			}
		case slotStudents:
			if err := json.Unmarshal([]byte(payload), &snap.Students); err != nil {
				return snap, fmt.Errorf("decode students: %w", err)
			}
		case slotInvoices:
			if err := json.Unmarshal([]byte(payload), &snap.Invoices); err != nil {
				return snap, fmt.Errorf("decode invoices: %w", err)
			}
		default:
			slog.WarnContext(ctx, "Unknown snapshot slot", "slot", slot)
		}
	}
	if err := rows.Err(); err != nil {
		return snap, fmt.Errorf("iterate snapshots: %w", err)
	}

	normalizeInvoices(snap.Invoices)
	return snap, nil
}

// Save overwrites all three slots inside one transaction.
func (s *SQLiteStore) Save(ctx context.Context, snap core.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	for slot, collection := range map[string]any{
		slotTransactions: emptySlice(snap.Transactions),
		slotStudents:     emptySlice(snap.Students),
		slotInvoices:     emptySlice(snap.Invoices),
	} {
		payload, err := json.Marshal(collection)
		if err != nil {
			return fmt.Errorf("encode %s: %w", slot, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO snapshots (slot, payload, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT(slot) DO UPDATE SET payload = excluded.payload, updated_at = CURRENT_TIMESTAMP`,
			slot, string(payload))
		if err != nil {
			return fmt.Errorf("write %s slot: %w", slot, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

// emptySlice keeps empty collections encoded as [] rather than null.
func emptySlice[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}

func normalizeInvoices(invoices []core.Invoice) {
	for i := range invoices {
		if invoices[i].Status == "" {
			invoices[i].Status = core.StatusPending
		}
		if invoices[i].Status != core.StatusPaid {
			invoices[i].PaidDate = nil
		}
	}
}
