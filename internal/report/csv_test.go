package report

import (
	"strings"
	"testing"

	"clases/internal/core"
)

func TestWriteCSV(t *testing.T) {
	transactions := []core.Transaction{
		func() core.Transaction {
			tx := income(1, date(2025, 3, 5), 100, 20, "Preply")
			tx.StudentName = "Ana"
			return tx
		}(),
		income(2, date(2025, 3, 6), 50, 0, "Private"),
		{ID: 3, Type: core.TypeExpense, Date: date(2025, 3, 9), Amount: 12.5, Category: "Materials", Description: "Whiteboard markers"},
	}
	invoices := []core.Invoice{
		{
			ID: 4, Date: date(2025, 3, 15), Number: "INV-2025-001",
			Student: core.StudentSnapshot{Name: "Ana"},
			Total:   60.5, Status: core.StatusPaid,
		},
	}

	var buf strings.Builder
	err := WriteCSV(&buf, core.Monthly(2025, 3), transactions, invoices, Options{SocialSecurityMonthly: 80})
	if err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	want := strings.Join([]string{
		"Date,Type,Platform/Category,Description,Gross Amount,Commission,Net Amount,Status",
		`2025-03-05,Income,Preply,"Ana",100.00,20.00,80.00,Received`,
		`2025-03-06,Income,Private,"Teaching",50.00,0.00,50.00,Received`,
		`2025-03-09,Expense,Materials,"Whiteboard markers",0,0,-12.50,Paid`,
		`2025-03-15,Invoice,Ana,"INV-2025-001",60.50,0,60.50,Paid`,
		`2025-03,Expense,Social Security,"Monthly social security contribution",0,0,-80.00,Paid`,
		"",
	}, "\n")
	if buf.String() != want {
		t.Errorf("csv mismatch:\ngot:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestWriteCSVOverdueInvoiceStatus(t *testing.T) {
	invoices := []core.Invoice{
		{
			ID: 1, Date: date(2025, 3, 1), Number: "INV-2025-001",
			Student: core.StudentSnapshot{Name: "Luis"},
			Total:   40, Status: core.StatusPending, DueDate: date(2025, 3, 15),
		},
	}

	var buf strings.Builder
	if err := WriteCSV(&buf, core.Monthly(2025, 3), nil, invoices, Options{}); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if !strings.Contains(buf.String(), ",Overdue\n") {
		t.Errorf("expected capitalized effective status Overdue, got:\n%s", buf.String())
	}
}

func TestWriteCSVNoSocialSecurityRow(t *testing.T) {
	var buf strings.Builder
	if err := WriteCSV(&buf, core.Annual(2025), nil, nil, Options{}); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if got := buf.String(); got != csvHeader+"\n" {
		t.Errorf("expected header only, got:\n%s", got)
	}
}

func TestFilename(t *testing.T) {
	tests := []struct {
		p    core.Period
		want string
	}{
		{core.Monthly(2025, 3), "financial_report_2025-03.csv"},
		{core.Quarterly(2025, 2), "financial_report_2025-Q2.csv"},
		{core.Annual(2025), "financial_report_2025.csv"},
	}
	for _, tc := range tests {
		if got := Filename(tc.p); got != tc.want {
			t.Errorf("Filename(%s) = %q, want %q", tc.p.Key(), got, tc.want)
		}
	}
}
