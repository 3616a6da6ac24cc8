package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"clases/internal/core"
)

// InvoiceInput carries everything needed to issue an invoice.
type InvoiceInput struct {
	StudentID int64
	Lines     []core.ServiceLineInput
	Date      core.Date
	DueDate   core.Date
	Number    string
	Business  core.BusinessInfo
	Notes     string
}

// CreateInvoice prices the service lines and issues a pending invoice.
// The student's contact fields are copied into the invoice at creation
// time, so later roster edits never change an issued invoice. An
// unknown student id yields an empty snapshot rather than an error.
func (l *Ledger) CreateInvoice(ctx context.Context, in InvoiceInput) (core.Invoice, error) {
	lines, subtotal, vat, total := core.PriceLines(in.Lines)

	l.mu.Lock()
	defer l.mu.Unlock()

	snapshot := core.StudentSnapshot{ID: in.StudentID}
	for _, s := range l.students {
		if s.ID == in.StudentID {
			snapshot.Name = s.Name
			snapshot.Email = s.Email
			snapshot.Phone = s.Phone
			snapshot.Address = s.Address
			break
		}
	}

	inv := core.Invoice{
		ID:       l.nextID(),
		Number:   in.Number,
		Date:     in.Date,
		DueDate:  in.DueDate,
		Student:  snapshot,
		Business: in.Business,
		Services: lines,
		Subtotal: subtotal,
		TotalVAT: vat,
		Total:    total,
		Notes:    in.Notes,
		Status:   core.StatusPending,
		PaidDate: nil,
	}
	l.invoices = append(l.invoices, inv)

	if err := l.persist(ctx); err != nil {
		return core.Invoice{}, err
	}

	slog.InfoContext(ctx, "Invoice created",
		"id", inv.ID, "number", inv.Number, "student", snapshot.Name, "total", total)
	l.notify(ctx, EntityInvoice, ActionCreated, inv.ID)
	return inv, nil
}

// InvoiceStatus derives the effective status without mutating anything.
// Paid wins; otherwise a past due date means overdue regardless of the
// stored field. This is the authority for every read path.
func InvoiceStatus(inv core.Invoice) core.Status {
	return inv.EffectiveStatus()
}

// MarkInvoicePaid sets the stored status to paid and stamps today as
// the payment date. No-op when the id is unknown.
func (l *Ledger) MarkInvoicePaid(ctx context.Context, id int64) error {
	return l.setPaid(ctx, id, true)
}

// MarkInvoiceUnpaid reverts to pending and clears the payment date.
func (l *Ledger) MarkInvoiceUnpaid(ctx context.Context, id int64) error {
	return l.setPaid(ctx, id, false)
}

func (l *Ledger) setPaid(ctx context.Context, id int64, paid bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.invoices {
		if l.invoices[i].ID != id {
			continue
		}
		if paid {
			today := core.Today()
			l.invoices[i].Status = core.StatusPaid
			l.invoices[i].PaidDate = &today
		} else {
			l.invoices[i].Status = core.StatusPending
			l.invoices[i].PaidDate = nil
		}
		if err := l.persist(ctx); err != nil {
			return err
		}
		l.notify(ctx, EntityInvoice, ActionUpdated, id)
		return nil
	}
	return nil
}

// MarkAllOverdue persists overdue onto every stored-pending invoice
// whose due date is past, and returns how many changed. Invoices the
// sweep already marked are not recounted, so a second sweep converges
// to zero.
func (l *Ledger) MarkAllOverdue(ctx context.Context) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	today := core.Today()
	updated := 0
	for i := range l.invoices {
		inv := &l.invoices[i]
		if inv.Status != core.StatusPending {
			continue
		}
		if inv.DueDate.IsZero() || !inv.DueDate.Before(today) {
			continue
		}
		inv.Status = core.StatusOverdue
		updated++
	}
	if updated == 0 {
		return 0, nil
	}

	if err := l.persist(ctx); err != nil {
		return 0, err
	}
	slog.InfoContext(ctx, "Overdue sweep completed", "updated", updated)
	return updated, nil
}

// DeleteInvoice removes the invoice. Silent no-op on unknown id.
func (l *Ledger) DeleteInvoice(ctx context.Context, id int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.invoices[:0]
	removed := false
	for _, inv := range l.invoices {
		if inv.ID == id {
			removed = true
			continue
		}
		kept = append(kept, inv)
	}
	l.invoices = kept
	if !removed {
		return nil
	}

	if err := l.persist(ctx); err != nil {
		return err
	}
	l.notify(ctx, EntityInvoice, ActionDeleted, id)
	return nil
}

// Invoices returns a copy of all invoices in insertion order.
func (l *Ledger) Invoices() []core.Invoice {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]core.Invoice(nil), l.invoices...)
}

// Invoice looks up an invoice by id.
func (l *Ledger) Invoice(id int64) (core.Invoice, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, inv := range l.invoices {
		if inv.ID == id {
			return inv, true
		}
	}
	return core.Invoice{}, false
}

// NextInvoiceNumber suggests the next human-assigned number in the
// INV-<year>-NNN convention the tool pre-fills.
func (l *Ledger) NextInvoiceNumber(year int) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return fmt.Sprintf("INV-%d-%03d", year, len(l.invoices)+1)
}
