// Package report computes the derived financial figures: the
// year-to-date summary, period reports with breakdowns, and the CSV
// export. Everything is pull-based over the full collections; nothing
// is cached. Figures keep full floating precision; rounding happens
// only when a value is rendered.
package report

import (
	"clases/internal/core"
)

// Options carries the user's tax settings: the flat monthly
// social-security contribution and the simplified IRPF percentage
// applied to net income.
type Options struct {
	SocialSecurityMonthly float64
	IRPFRatePct           float64
}

// Summary is the dashboard view over a set of transactions and
// invoices.
type Summary struct {
	GrossIncome      float64
	TotalCommissions float64
	NetIncome        float64
	TotalExpenses    float64

	// PendingInvoicesTotal sums invoices whose effective status is not
	// paid (pending and overdue alike).
	PendingInvoicesTotal float64

	TotalSocialSecurity     float64
	TotalDeductibleExpenses float64
	TaxableProfit           float64

	// IRPFTax applies the rate to net income, not to taxable profit.
	// That is the tool's simplified model, kept as-is.
	IRPFTax        float64
	AfterTaxProfit float64
}

// Summarize computes the year-to-date summary. monthsElapsed is how
// many months of the current year have started (see
// core.MonthsElapsed); the monthly social-security figure accumulates
// over them.
func Summarize(transactions []core.Transaction, invoices []core.Invoice, monthsElapsed int, opts Options) Summary {
	var s Summary

	for _, tx := range transactions {
		if tx.IsIncome() {
			s.GrossIncome += tx.GrossAmount
			s.TotalCommissions += tx.Commission
			s.NetIncome += tx.NetAmount
		} else {
			s.TotalExpenses += tx.Amount
		}
	}

	for _, inv := range invoices {
		if inv.EffectiveStatus() != core.StatusPaid {
			s.PendingInvoicesTotal += inv.Total
		}
	}

	s.TotalSocialSecurity = opts.SocialSecurityMonthly * float64(monthsElapsed)
	s.TotalDeductibleExpenses = s.TotalExpenses + s.TotalSocialSecurity
	s.TaxableProfit = s.NetIncome - s.TotalDeductibleExpenses

	s.IRPFTax = s.NetIncome * opts.IRPFRatePct / 100
	if s.IRPFTax < 0 {
		s.IRPFTax = 0
	}
	s.AfterTaxProfit = s.TaxableProfit - s.IRPFTax

	return s
}
