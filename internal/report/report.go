package report

import (
	"clases/internal/core"
)

type (
	// PlatformTotals aggregates income by teaching platform.
	PlatformTotals struct {
		Platform   string
		Gross      float64
		Commission float64
		Net        float64
		Count      int
	}

	// CategoryTotals aggregates expenses by category.
	CategoryTotals struct {
		Category string
		Amount   float64
		Count    int
	}

	// InvoiceTotals splits the period's invoiced amounts by effective
	// status.
	InvoiceTotals struct {
		Total        float64
		Paid         float64
		Pending      float64
		Count        int
		PaidCount    int
		PendingCount int
	}

	// Report is a period-filtered view with the summary figures plus
	// grouped breakdowns. Breakdown order is first-seen order over the
	// filtered transactions, so repeated generations are deterministic.
	Report struct {
		Period  core.Period
		Summary Summary

		Transactions []core.Transaction
		Invoices     []core.Invoice

		InvoiceTotals InvoiceTotals
		Platforms     []PlatformTotals
		Categories    []CategoryTotals
	}
)

// Generate filters by calendar period and computes the report. Social
// security uses the period's flat multiplier (1, 3 or 12 months), not
// elapsed time.
func Generate(p core.Period, transactions []core.Transaction, invoices []core.Invoice, opts Options) Report {
	r := Report{Period: p}

	for _, tx := range transactions {
		if p.Contains(tx.Date) {
			r.Transactions = append(r.Transactions, tx)
		}
	}
	for _, inv := range invoices {
		if p.Contains(inv.Date) {
			r.Invoices = append(r.Invoices, inv)
		}
	}

	r.Summary = Summarize(r.Transactions, r.Invoices, p.SocialSecurityMonths(), opts)

	for _, inv := range r.Invoices {
		r.InvoiceTotals.Total += inv.Total
		r.InvoiceTotals.Count++
		if inv.EffectiveStatus() == core.StatusPaid {
			r.InvoiceTotals.Paid += inv.Total
			r.InvoiceTotals.PaidCount++
		} else {
			r.InvoiceTotals.Pending += inv.Total
			r.InvoiceTotals.PendingCount++
		}
	}

	platformIndex := make(map[string]int)
	categoryIndex := make(map[string]int)
	for _, tx := range r.Transactions {
		if tx.IsIncome() {
			i, ok := platformIndex[tx.Platform]
			if !ok {
				i = len(r.Platforms)
				platformIndex[tx.Platform] = i
				r.Platforms = append(r.Platforms, PlatformTotals{Platform: tx.Platform})
			}
			r.Platforms[i].Gross += tx.GrossAmount
			r.Platforms[i].Commission += tx.Commission
			r.Platforms[i].Net += tx.NetAmount
			r.Platforms[i].Count++
		} else {
			i, ok := categoryIndex[tx.Category]
			if !ok {
				i = len(r.Categories)
				categoryIndex[tx.Category] = i
				r.Categories = append(r.Categories, CategoryTotals{Category: tx.Category})
			}
			r.Categories[i].Amount += tx.Amount
			r.Categories[i].Count++
		}
	}

	return r
}
