// Package ledger implements the bookkeeping engine: it owns the
// transaction, student and invoice collections, applies mutations, and
// persists a full snapshot through the storage port after every change.
//
// Failure policy is the tool's silent tolerance: operations on missing
// ids are no-ops, and change-event publishing is best effort. Only a
// failed snapshot save surfaces as an error.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"clases/internal/core"
)

// Store persists the full collection snapshot. A save is a complete
// overwrite; a load on an empty store yields empty collections.
type Store interface {
	Load(ctx context.Context) (core.Snapshot, error)
	Save(ctx context.Context, snap core.Snapshot) error
}

// Publisher emits change events after mutations. Optional: a nil
// publisher degrades to local-only operation.
type Publisher interface {
	PublishChange(ctx context.Context, entity, action string, id int64) error
}

// Change event vocabulary.
const (
	EntityTransaction = "transaction"
	EntityStudent     = "student"
	EntityInvoice     = "invoice"

	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Ledger is the engine state: three collections behind one handle. The
// logical actor is a single user, but the HTTP adapter serves requests
// concurrently, so access is serialized with a mutex.
type Ledger struct {
	mu     sync.Mutex
	store  Store
	events Publisher

	transactions []core.Transaction
	students     []core.Student
	invoices     []core.Invoice

	lastID int64
}

// Open loads the persisted snapshot and returns a ready engine.
func Open(ctx context.Context, store Store, events Publisher) (*Ledger, error) {
	snap, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	l := &Ledger{
		store:        store,
		events:       events,
		transactions: snap.Transactions,
		students:     snap.Students,
		invoices:     snap.Invoices,
	}

	slog.InfoContext(ctx, "Ledger loaded",
		"transactions", len(l.transactions),
		"students", len(l.students),
		"invoices", len(l.invoices))

	return l, nil
}

// nextID issues timestamp ids like the original tool, bumped past the
// previous id so same-millisecond inserts stay unique.
func (l *Ledger) nextID() int64 {
	id := time.Now().UnixMilli()
	if id <= l.lastID {
		id = l.lastID + 1
	}
	l.lastID = id
	return id
}

// persist writes the full snapshot. Caller holds the mutex.
func (l *Ledger) persist(ctx context.Context) error {
	if err := l.store.Save(ctx, l.snapshotLocked()); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// notify publishes a change event. Best effort: a missing publisher or
// a publish failure never fails the mutation.
func (l *Ledger) notify(ctx context.Context, entity, action string, id int64) {
	if l.events == nil {
		return
	}
	if err := l.events.PublishChange(ctx, entity, action, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish change event",
			"entity", entity, "action", action, "id", id, "error", err)
	}
}

func (l *Ledger) snapshotLocked() core.Snapshot {
	return core.Snapshot{
		Transactions: append([]core.Transaction(nil), l.transactions...),
		Students:     append([]core.Student(nil), l.students...),
		Invoices:     append([]core.Invoice(nil), l.invoices...),
	}
}

// Snapshot returns a copy of the full state, e.g. for backup export.
func (l *Ledger) Snapshot() core.Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

// RecordIncome appends an income transaction. Commission and net amount
// are derived from the gross and the commission percentage.
func (l *Ledger) RecordIncome(ctx context.Context, gross, commissionRatePct float64, platform, studentName string, date core.Date) (core.Transaction, error) {
	commission, net := core.IncomeSplit(gross, commissionRatePct)

	l.mu.Lock()
	defer l.mu.Unlock()

	tx := core.Transaction{
		ID:             l.nextID(),
		Type:           core.TypeIncome,
		Date:           date,
		GrossAmount:    gross,
		Commission:     commission,
		NetAmount:      net,
		CommissionRate: commissionRatePct,
		Platform:       platform,
		StudentName:    studentName,
	}
	l.transactions = append(l.transactions, tx)

	if err := l.persist(ctx); err != nil {
		return core.Transaction{}, err
	}

	slog.InfoContext(ctx, "Income recorded",
		"id", tx.ID, "platform", platform, "gross", gross, "net", net)
	l.notify(ctx, EntityTransaction, ActionCreated, tx.ID)
	return tx, nil
}

// RecordExpense appends an expense transaction.
func (l *Ledger) RecordExpense(ctx context.Context, amount float64, category, description string, date core.Date) (core.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	tx := core.Transaction{
		ID:          l.nextID(),
		Type:        core.TypeExpense,
		Date:        date,
		Amount:      amount,
		Category:    category,
		Description: description,
	}
	l.transactions = append(l.transactions, tx)

	if err := l.persist(ctx); err != nil {
		return core.Transaction{}, err
	}

	slog.InfoContext(ctx, "Expense recorded",
		"id", tx.ID, "category", category, "amount", amount)
	l.notify(ctx, EntityTransaction, ActionCreated, tx.ID)
	return tx, nil
}

// DeleteTransaction removes the matching entry. Silent no-op when the
// id is unknown.
func (l *Ledger) DeleteTransaction(ctx context.Context, id int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.transactions[:0]
	removed := false
	for _, tx := range l.transactions {
		if tx.ID == id {
			removed = true
			continue
		}
		kept = append(kept, tx)
	}
	l.transactions = kept
	if !removed {
		return nil
	}

	if err := l.persist(ctx); err != nil {
		return err
	}
	l.notify(ctx, EntityTransaction, ActionDeleted, id)
	return nil
}

// Transactions returns a copy of all transactions in insertion order.
func (l *Ledger) Transactions() []core.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]core.Transaction(nil), l.transactions...)
}

// StudentInput carries the full field set for add and edit. Edits are a
// whole-record replace, not a partial patch.
type StudentInput struct {
	Name      string
	Phone     string
	Email     string
	Address   string
	Rate      float64
	ClassType string
	Notes     string
}

// AddStudent appends a new student record.
func (l *Ledger) AddStudent(ctx context.Context, in StudentInput) (core.Student, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s := core.Student{
		ID:        l.nextID(),
		Name:      in.Name,
		Phone:     in.Phone,
		Email:     in.Email,
		Address:   in.Address,
		Rate:      in.Rate,
		ClassType: in.ClassType,
		Notes:     in.Notes,
	}
	l.students = append(l.students, s)

	if err := l.persist(ctx); err != nil {
		return core.Student{}, err
	}

	slog.InfoContext(ctx, "Student added", "id", s.ID, "name", s.Name)
	l.notify(ctx, EntityStudent, ActionCreated, s.ID)
	return s, nil
}

// UpdateStudent replaces the whole record. No-op when the id is unknown.
func (l *Ledger) UpdateStudent(ctx context.Context, id int64, in StudentInput) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.students {
		if l.students[i].ID != id {
			continue
		}
		l.students[i] = core.Student{
			ID:        id,
			Name:      in.Name,
			Phone:     in.Phone,
			Email:     in.Email,
			Address:   in.Address,
			Rate:      in.Rate,
			ClassType: in.ClassType,
			Notes:     in.Notes,
		}
		if err := l.persist(ctx); err != nil {
			return err
		}
		l.notify(ctx, EntityStudent, ActionUpdated, id)
		return nil
	}
	return nil
}

// DeleteStudent removes the record. Historical transactions and
// invoices keep their denormalized copies; nothing cascades.
func (l *Ledger) DeleteStudent(ctx context.Context, id int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.students[:0]
	removed := false
	for _, s := range l.students {
		if s.ID == id {
			removed = true
			continue
		}
		kept = append(kept, s)
	}
	l.students = kept
	if !removed {
		return nil
	}

	if err := l.persist(ctx); err != nil {
		return err
	}
	l.notify(ctx, EntityStudent, ActionDeleted, id)
	return nil
}

// Students returns a copy of the roster in insertion order.
func (l *Ledger) Students() []core.Student {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]core.Student(nil), l.students...)
}

// Student looks up a roster entry by id.
func (l *Ledger) Student(id int64) (core.Student, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, s := range l.students {
		if s.ID == id {
			return s, true
		}
	}
	return core.Student{}, false
}
