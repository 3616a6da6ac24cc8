package report

import (
	"math"
	"testing"
	"time"

	"clases/internal/core"
)

func date(y, m, d int) core.Date { return core.NewDate(y, m, d) }

func futureDate(days int) core.Date {
	t := time.Now().UTC().AddDate(0, 0, days)
	return core.NewDate(t.Year(), int(t.Month()), t.Day())
}

func income(id int64, d core.Date, gross, ratePct float64, platform string) core.Transaction {
	commission, net := core.IncomeSplit(gross, ratePct)
	return core.Transaction{
		ID: id, Type: core.TypeIncome, Date: d,
		GrossAmount: gross, Commission: commission, NetAmount: net,
		CommissionRate: ratePct, Platform: platform,
	}
}

func expense(id int64, d core.Date, amount float64, category string) core.Transaction {
	return core.Transaction{
		ID: id, Type: core.TypeExpense, Date: d,
		Amount: amount, Category: category,
	}
}

func TestSummarize(t *testing.T) {
	transactions := []core.Transaction{
		income(1, date(2025, 1, 10), 100, 20, "Preply"),
		income(2, date(2025, 2, 12), 200, 10, "Private"),
		expense(3, date(2025, 2, 20), 30, "Materials"),
	}
	invoices := []core.Invoice{
		{ID: 4, Total: 60.5, Status: core.StatusPending, DueDate: futureDate(30)},
		{ID: 5, Total: 100, Status: core.StatusPaid},
	}

	s := Summarize(transactions, invoices, 3, Options{
		SocialSecurityMonthly: 50,
		IRPFRatePct:           15,
	})

	if s.GrossIncome != 300 {
		t.Errorf("gross = %v", s.GrossIncome)
	}
	if s.TotalCommissions != 40 {
		t.Errorf("commissions = %v", s.TotalCommissions)
	}
	if s.NetIncome != 260 {
		t.Errorf("net = %v", s.NetIncome)
	}
	if s.TotalExpenses != 30 {
		t.Errorf("expenses = %v", s.TotalExpenses)
	}
	if s.PendingInvoicesTotal != 60.5 {
		t.Errorf("pending invoices = %v", s.PendingInvoicesTotal)
	}
	if s.TotalSocialSecurity != 150 {
		t.Errorf("social security = %v", s.TotalSocialSecurity)
	}
	if s.TotalDeductibleExpenses != 180 {
		t.Errorf("deductible = %v", s.TotalDeductibleExpenses)
	}
	if s.TaxableProfit != 80 {
		t.Errorf("taxable = %v", s.TaxableProfit)
	}
	// IRPF applies to net income, not taxable profit.
	if s.IRPFTax != 39 {
		t.Errorf("irpf = %v", s.IRPFTax)
	}
	if math.Abs(s.AfterTaxProfit-41) > 1e-9 {
		t.Errorf("after tax = %v", s.AfterTaxProfit)
	}
}

func TestSummarizeIRPFNeverNegative(t *testing.T) {
	// A negative net (all-commission refund scenario) must not turn the
	// tax into a credit.
	transactions := []core.Transaction{
		{ID: 1, Type: core.TypeIncome, Date: date(2025, 1, 1), GrossAmount: 0, Commission: 50, NetAmount: -50},
	}
	s := Summarize(transactions, nil, 1, Options{IRPFRatePct: 15})
	if s.IRPFTax != 0 {
		t.Fatalf("irpf = %v, want 0", s.IRPFTax)
	}
}

func TestSummarizeOverdueCountsAsPending(t *testing.T) {
	invoices := []core.Invoice{
		// Stored pending but past due: effective status is overdue,
		// still unpaid, so it belongs in the pending total.
		{ID: 1, Total: 40, Status: core.StatusPending, DueDate: date(2020, 1, 1)},
	}
	s := Summarize(nil, invoices, 1, Options{})
	if s.PendingInvoicesTotal != 40 {
		t.Fatalf("pending = %v, want 40", s.PendingInvoicesTotal)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, nil, 5, Options{})
	if s != (Summary{}) {
		t.Fatalf("empty summary = %+v", s)
	}
}
