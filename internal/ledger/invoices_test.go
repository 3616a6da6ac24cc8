package ledger

import (
	"context"
	"math"
	"testing"
	"time"

	"clases/internal/core"
)

func pastDate(days int) core.Date {
	t := time.Now().UTC().AddDate(0, 0, -days)
	return core.NewDate(t.Year(), int(t.Month()), t.Day())
}

func futureDate(days int) core.Date {
	t := time.Now().UTC().AddDate(0, 0, days)
	return core.NewDate(t.Year(), int(t.Month()), t.Day())
}

func TestCreateInvoiceTotals(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	s, _ := l.AddStudent(ctx, StudentInput{
		Name: "Ana", Email: "ana@example.com", Phone: "600111222", Address: "Calle Sol 3",
	})

	inv, err := l.CreateInvoice(ctx, InvoiceInput{
		StudentID: s.ID,
		Lines: []core.ServiceLineInput{
			{Description: "English lessons - Conversation", Hours: 2, Rate: 25, VATPercent: 21},
		},
		Date:     core.NewDate(2025, 3, 1),
		DueDate:  core.NewDate(2025, 3, 31),
		Number:   "INV-2025-001",
		Business: core.BusinessInfo{Name: "Jane Doe", NIF: "X1234567Z"},
		Notes:    "Payment by bank transfer",
	})
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}

	if inv.Subtotal != 50 || inv.TotalVAT != 10.5 || inv.Total != 60.5 {
		t.Errorf("totals = (%v, %v, %v), want (50, 10.5, 60.5)", inv.Subtotal, inv.TotalVAT, inv.Total)
	}
	if math.Abs(inv.Subtotal+inv.TotalVAT-inv.Total) > 1e-9 {
		t.Error("subtotal + vat != total")
	}
	if inv.Status != core.StatusPending || inv.PaidDate != nil {
		t.Errorf("new invoice status = %q, paidDate = %v", inv.Status, inv.PaidDate)
	}
	if inv.Student.Name != "Ana" || inv.Student.Email != "ana@example.com" {
		t.Errorf("student snapshot = %+v", inv.Student)
	}
}

func TestCreateInvoiceSnapshotIsFrozen(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	s, _ := l.AddStudent(ctx, StudentInput{Name: "Ana", Email: "old@example.com"})
	inv, _ := l.CreateInvoice(ctx, InvoiceInput{
		StudentID: s.ID,
		Lines:     []core.ServiceLineInput{{Hours: 1, Rate: 25}},
		Date:      core.NewDate(2025, 3, 1),
		DueDate:   core.NewDate(2025, 3, 31),
		Number:    "INV-2025-001",
	})

	_ = l.UpdateStudent(ctx, s.ID, StudentInput{Name: "Ana", Email: "new@example.com"})

	got, _ := l.Invoice(inv.ID)
	if got.Student.Email != "old@example.com" {
		t.Errorf("issued invoice changed after student edit: %q", got.Student.Email)
	}
}

func TestCreateInvoiceUnknownStudent(t *testing.T) {
	l, _ := newTestLedger(t)

	inv, err := l.CreateInvoice(context.Background(), InvoiceInput{
		StudentID: 12345,
		Lines:     []core.ServiceLineInput{{Hours: 1, Rate: 20}},
		Date:      core.NewDate(2025, 3, 1),
		DueDate:   core.NewDate(2025, 3, 31),
		Number:    "INV-2025-001",
	})
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}
	if inv.Student.Name != "" || inv.Student.ID != 12345 {
		t.Errorf("snapshot = %+v, want empty contact fields", inv.Student)
	}
}

func TestInvoiceStatusIsPureAndDerived(t *testing.T) {
	cases := []struct {
		name string
		inv  core.Invoice
		want core.Status
	}{
		{"paid wins", core.Invoice{Status: core.StatusPaid, DueDate: pastDate(10)}, core.StatusPaid},
		{"past due derives overdue", core.Invoice{Status: core.StatusPending, DueDate: pastDate(1)}, core.StatusOverdue},
		{"future due stays pending", core.Invoice{Status: core.StatusPending, DueDate: futureDate(5)}, core.StatusPending},
		{"stored overdue with future due reads pending", core.Invoice{Status: core.StatusOverdue, DueDate: futureDate(5)}, core.StatusPending},
		{"no due date stays pending", core.Invoice{Status: core.StatusPending}, core.StatusPending},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			storedBefore := tc.inv.Status
			if got := InvoiceStatus(tc.inv); got != tc.want {
				t.Fatalf("status = %q, want %q", got, tc.want)
			}
			// Pure: repeated calls agree and the stored field is untouched.
			if got := InvoiceStatus(tc.inv); got != tc.want {
				t.Fatal("status not idempotent")
			}
			if tc.inv.Status != storedBefore {
				t.Fatal("InvoiceStatus mutated the stored status")
			}
		})
	}
}

func TestMarkPaidUnpaidRoundTrip(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	inv, _ := l.CreateInvoice(ctx, InvoiceInput{
		Lines:   []core.ServiceLineInput{{Hours: 1, Rate: 25}},
		Date:    core.NewDate(2025, 3, 1),
		DueDate: futureDate(10),
		Number:  "INV-2025-001",
	})

	if err := l.MarkInvoicePaid(ctx, inv.ID); err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	got, _ := l.Invoice(inv.ID)
	if got.Status != core.StatusPaid || got.PaidDate == nil {
		t.Fatalf("after paid: status=%q paidDate=%v", got.Status, got.PaidDate)
	}
	if InvoiceStatus(got) != core.StatusPaid {
		t.Error("derived status should be paid")
	}

	if err := l.MarkInvoiceUnpaid(ctx, inv.ID); err != nil {
		t.Fatalf("mark unpaid: %v", err)
	}
	got, _ = l.Invoice(inv.ID)
	if got.Status != core.StatusPending || got.PaidDate != nil {
		t.Fatalf("after unpaid: status=%q paidDate=%v", got.Status, got.PaidDate)
	}

	// Unknown ids are silent no-ops.
	if err := l.MarkInvoicePaid(ctx, 999); err != nil {
		t.Fatalf("mark paid unknown: %v", err)
	}
}

func TestMarkAllOverdueConverges(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	overdue, _ := l.CreateInvoice(ctx, InvoiceInput{
		Lines:   []core.ServiceLineInput{{Hours: 1, Rate: 25}},
		Date:    pastDate(40),
		DueDate: pastDate(10),
		Number:  "INV-2025-001",
	})
	_, _ = l.CreateInvoice(ctx, InvoiceInput{
		Lines:   []core.ServiceLineInput{{Hours: 1, Rate: 25}},
		Date:    core.Today(),
		DueDate: futureDate(30),
		Number:  "INV-2025-002",
	})
	paid, _ := l.CreateInvoice(ctx, InvoiceInput{
		Lines:   []core.ServiceLineInput{{Hours: 1, Rate: 25}},
		Date:    pastDate(40),
		DueDate: pastDate(5),
		Number:  "INV-2025-003",
	})
	_ = l.MarkInvoicePaid(ctx, paid.ID)

	count, err := l.MarkAllOverdue(ctx)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if count != 1 {
		t.Fatalf("first sweep updated %d, want 1", count)
	}
	got, _ := l.Invoice(overdue.ID)
	if got.Status != core.StatusOverdue {
		t.Errorf("stored status = %q, want overdue", got.Status)
	}

	count, err = l.MarkAllOverdue(ctx)
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if count != 0 {
		t.Fatalf("second sweep updated %d, want 0", count)
	}
}

func TestDeleteInvoice(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	inv, _ := l.CreateInvoice(ctx, InvoiceInput{
		Lines:   []core.ServiceLineInput{{Hours: 1, Rate: 25}},
		Date:    core.NewDate(2025, 3, 1),
		DueDate: core.NewDate(2025, 3, 31),
		Number:  "INV-2025-001",
	})

	if err := l.DeleteInvoice(ctx, inv.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(l.Invoices()) != 0 {
		t.Error("invoice not removed")
	}
	if err := l.DeleteInvoice(ctx, inv.ID); err != nil {
		t.Fatalf("delete again: %v", err)
	}
}

func TestNextInvoiceNumber(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	if got := l.NextInvoiceNumber(2025); got != "INV-2025-001" {
		t.Fatalf("got %q", got)
	}
	_, _ = l.CreateInvoice(ctx, InvoiceInput{
		Lines:   []core.ServiceLineInput{{Hours: 1, Rate: 25}},
		Date:    core.NewDate(2025, 3, 1),
		DueDate: core.NewDate(2025, 3, 31),
		Number:  "INV-2025-001",
	})
	if got := l.NextInvoiceNumber(2025); got != "INV-2025-002" {
		t.Fatalf("got %q", got)
	}
}
