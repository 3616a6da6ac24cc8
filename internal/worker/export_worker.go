// Package worker mirrors ledger changes to an external spreadsheet.
// The sheet is an append-only audit copy; the worker never edits or
// removes rows it wrote earlier.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"clases/internal/amqp"
	"clases/internal/core"
	"clases/internal/ledger"
	"clases/internal/sheets"
)

// SnapshotReader is the slice of the store the worker needs: the
// current full state, re-read per message so stale payloads cannot
// mislead it.
type SnapshotReader interface {
	Load(ctx context.Context) (core.Snapshot, error)
}

type ExportWorker struct {
	store  SnapshotReader
	writer sheets.RowWriter
}

func NewExportWorker(store SnapshotReader, writer sheets.RowWriter) *ExportWorker {
	return &ExportWorker{store: store, writer: writer}
}

// HandleChange appends one row for a created transaction or invoice.
// Everything else — deletes, updates, student changes — is skipped:
// an audit mirror only grows.
func (w *ExportWorker) HandleChange(ctx context.Context, msg *amqp.ChangeMessage) error {
	if msg.Action != ledger.ActionCreated {
		slog.DebugContext(ctx, "Skipping non-create change", "entity", msg.Entity, "action", msg.Action)
		return nil
	}

	switch msg.Entity {
	case ledger.EntityTransaction, ledger.EntityInvoice:
	default:
		slog.DebugContext(ctx, "Skipping entity without mirror row", "entity", msg.Entity)
		return nil
	}

	snap, err := w.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	row, ok := mirrorRow(snap, msg.Entity, msg.ID)
	if !ok {
		// Deleted between publish and delivery. Nothing to mirror.
		slog.InfoContext(ctx, "Changed record no longer present", "entity", msg.Entity, "id", msg.ID)
		return nil
	}

	ref, err := w.writer.Append(ctx, row)
	if err != nil {
		return fmt.Errorf("append row: %w", err)
	}

	slog.InfoContext(ctx, "Mirrored ledger row",
		"entity", msg.Entity,
		"id", msg.ID,
		"sheets_ref", ref)
	return nil
}

func mirrorRow(snap core.Snapshot, entity string, id int64) (sheets.Row, bool) {
	switch entity {
	case ledger.EntityTransaction:
		for _, tx := range snap.Transactions {
			if tx.ID == id {
				return transactionRow(tx), true
			}
		}
	case ledger.EntityInvoice:
		for _, inv := range snap.Invoices {
			if inv.ID == id {
				return invoiceRow(inv), true
			}
		}
	}
	return sheets.Row{}, false
}

func transactionRow(tx core.Transaction) sheets.Row {
	if tx.IsIncome() {
		description := tx.StudentName
		if description == "" {
			description = "Teaching"
		}
		return sheets.Row{
			Date:        tx.Date.String(),
			Kind:        "Income",
			Label:       tx.Platform,
			Description: description,
			Gross:       tx.GrossAmount,
			Commission:  tx.Commission,
			Net:         tx.NetAmount,
			Status:      "Received",
		}
	}
	return sheets.Row{
		Date:        tx.Date.String(),
		Kind:        "Expense",
		Label:       tx.Category,
		Description: tx.Description,
		Net:         -tx.Amount,
		Status:      "Paid",
	}
}

func invoiceRow(inv core.Invoice) sheets.Row {
	status := string(inv.EffectiveStatus())
	if status != "" {
		status = strings.ToUpper(status[:1]) + status[1:]
	}
	return sheets.Row{
		Date:        inv.Date.String(),
		Kind:        "Invoice",
		Label:       inv.Student.Name,
		Description: inv.Number,
		Gross:       inv.Total,
		Net:         inv.Total,
		Status:      status,
	}
}
