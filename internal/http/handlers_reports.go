package http

import (
	"log/slog"
	"net/http"

	"clases/internal/backup"
	"clases/internal/core"
	"clases/internal/report"
)

type (
	reportRow struct {
		Date        string
		Kind        string
		Label       string
		Description string
		Amount      string
	}

	platformRow struct {
		Platform   string
		Gross      string
		Commission string
		Net        string
		Count      int
	}

	categoryRow struct {
		Category string
		Amount   string
		Count    int
	}

	reportData struct {
		Label   string
		Kind    string
		Value   string
		Summary summaryView

		InvoiceTotal   string
		InvoicePaid    string
		InvoicePending string
		InvoiceCount   int

		Platforms  []platformRow
		Categories []categoryRow
		Rows       []reportRow
	}
)

// handleReport renders the period report partial.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	p := queryPeriod(r)
	rep := report.Generate(p, s.ledger.Transactions(), s.ledger.Invoices(), s.opts)

	data := reportData{
		Label: p.Label(),
		Kind:  string(p.Kind),
		Value: p.Key(),
		Summary: summaryView{
			GrossIncome:             core.FormatEuros(rep.Summary.GrossIncome),
			TotalCommissions:        core.FormatEuros(rep.Summary.TotalCommissions),
			NetIncome:               core.FormatEuros(rep.Summary.NetIncome),
			TotalExpenses:           core.FormatEuros(rep.Summary.TotalExpenses),
			PendingInvoicesTotal:    core.FormatEuros(rep.Summary.PendingInvoicesTotal),
			TotalSocialSecurity:     core.FormatEuros(rep.Summary.TotalSocialSecurity),
			TotalDeductibleExpenses: core.FormatEuros(rep.Summary.TotalDeductibleExpenses),
			TaxableProfit:           core.FormatEuros(rep.Summary.TaxableProfit),
			IRPFTax:                 core.FormatEuros(rep.Summary.IRPFTax),
			AfterTaxProfit:          core.FormatEuros(rep.Summary.AfterTaxProfit),
		},
		InvoiceTotal:   core.FormatEuros(rep.InvoiceTotals.Total),
		InvoicePaid:    core.FormatEuros(rep.InvoiceTotals.Paid),
		InvoicePending: core.FormatEuros(rep.InvoiceTotals.Pending),
		InvoiceCount:   rep.InvoiceTotals.Count,
	}

	for _, pt := range rep.Platforms {
		data.Platforms = append(data.Platforms, platformRow{
			Platform:   pt.Platform,
			Gross:      core.FormatEuros(pt.Gross),
			Commission: core.FormatEuros(pt.Commission),
			Net:        core.FormatEuros(pt.Net),
			Count:      pt.Count,
		})
	}
	for _, ct := range rep.Categories {
		data.Categories = append(data.Categories, categoryRow{
			Category: ct.Category,
			Amount:   core.FormatEuros(ct.Amount),
			Count:    ct.Count,
		})
	}
	for _, tx := range rep.Transactions {
		row := reportRow{Date: tx.Date.String()}
		if tx.IsIncome() {
			row.Kind = "Income"
			row.Label = tx.Platform
			row.Description = tx.StudentName
			row.Amount = core.FormatEuros(tx.NetAmount)
		} else {
			row.Kind = "Expense"
			row.Label = tx.Category
			row.Description = tx.Description
			row.Amount = core.FormatEuros(-tx.Amount)
		}
		data.Rows = append(data.Rows, row)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "report.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Report template execution failed", "error", err, "template", "report.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleReportCSV streams the period export as a CSV download.
func (s *Server) handleReportCSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	p := queryPeriod(r)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+report.Filename(p)+`"`)

	if err := report.WriteCSV(w, p, s.ledger.Transactions(), s.ledger.Invoices(), s.opts); err != nil {
		slog.ErrorContext(r.Context(), "CSV export error", "error", err, "period", p.Key())
	}
}

// handleBackup streams the full state as a JSON download.
func (s *Server) handleBackup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+backup.Filename(core.Today())+`"`)

	if err := backup.Write(w, s.ledger.Snapshot()); err != nil {
		slog.ErrorContext(r.Context(), "Backup export error", "error", err)
	}
}
