package http

import (
	"log/slog"
	"net/http"
	"sort"

	"clases/internal/core"
	"clases/internal/report"
)

type (
	transactionView struct {
		ID          int64
		Date        string
		IsIncome    bool
		Platform    string
		StudentName string
		Gross       string
		Commission  string
		Net         string
		Category    string
		Description string
		Amount      string
	}

	studentView struct {
		ID        int64
		Name      string
		Phone     string
		Email     string
		Rate      string
		ClassType string
		HasIVA    bool
		Notes     string
	}

	invoiceView struct {
		ID       int64
		Number   string
		Date     string
		DueDate  string
		Student  string
		Total    string
		Status   string
		IsPaid   bool
		PaidDate string
	}

	summaryView struct {
		GrossIncome             string
		TotalCommissions        string
		NetIncome               string
		TotalExpenses           string
		PendingInvoicesTotal    string
		TotalSocialSecurity     string
		TotalDeductibleExpenses string
		TaxableProfit           string
		IRPFTax                 string
		AfterTaxProfit          string
	}

	indexData struct {
		Today             string
		NextInvoiceNumber string
		Summary           summaryView
		Transactions      []transactionView
		Students          []studentView
		Invoices          []invoiceView
	}
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	today := core.Today()
	data := indexData{
		Today:             today.String(),
		NextInvoiceNumber: s.ledger.NextInvoiceNumber(today.Year()),
		Summary:           s.summaryView(),
		Transactions:      transactionViews(s.ledger.Transactions()),
		Students:          studentViews(s.ledger.Students()),
		Invoices:          invoiceViews(s.ledger.Invoices()),
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) summaryView() summaryView {
	today := core.Today()
	sum := report.Summarize(s.ledger.Transactions(), s.ledger.Invoices(), today.Month(), s.opts)
	return summaryView{
		GrossIncome:             core.FormatEuros(sum.GrossIncome),
		TotalCommissions:        core.FormatEuros(sum.TotalCommissions),
		NetIncome:               core.FormatEuros(sum.NetIncome),
		TotalExpenses:           core.FormatEuros(sum.TotalExpenses),
		PendingInvoicesTotal:    core.FormatEuros(sum.PendingInvoicesTotal),
		TotalSocialSecurity:     core.FormatEuros(sum.TotalSocialSecurity),
		TotalDeductibleExpenses: core.FormatEuros(sum.TotalDeductibleExpenses),
		TaxableProfit:           core.FormatEuros(sum.TaxableProfit),
		IRPFTax:                 core.FormatEuros(sum.IRPFTax),
		AfterTaxProfit:          core.FormatEuros(sum.AfterTaxProfit),
	}
}

// transactionViews lists newest-first.
func transactionViews(txs []core.Transaction) []transactionView {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[j].Date.Before(txs[i].Date)
	})
	out := make([]transactionView, 0, len(txs))
	for _, tx := range txs {
		v := transactionView{
			ID:       tx.ID,
			Date:     tx.Date.String(),
			IsIncome: tx.IsIncome(),
		}
		if tx.IsIncome() {
			v.Platform = tx.Platform
			v.StudentName = tx.StudentName
			v.Gross = core.FormatEuros(tx.GrossAmount)
			v.Commission = core.FormatEuros(tx.Commission)
			v.Net = core.FormatEuros(tx.NetAmount)
		} else {
			v.Category = tx.Category
			v.Description = tx.Description
			v.Amount = core.FormatEuros(tx.Amount)
		}
		out = append(out, v)
	}
	return out
}

func studentViews(students []core.Student) []studentView {
	out := make([]studentView, 0, len(students))
	for _, st := range students {
		out = append(out, studentView{
			ID:        st.ID,
			Name:      st.Name,
			Phone:     st.Phone,
			Email:     st.Email,
			Rate:      core.FormatEuros(st.Rate),
			ClassType: st.ClassType,
			HasIVA:    st.HasIVA(),
			Notes:     st.Notes,
		})
	}
	return out
}

func invoiceViews(invoices []core.Invoice) []invoiceView {
	out := make([]invoiceView, 0, len(invoices))
	for _, inv := range invoices {
		status := inv.EffectiveStatus()
		v := invoiceView{
			ID:      inv.ID,
			Number:  inv.Number,
			Date:    inv.Date.String(),
			DueDate: inv.DueDate.String(),
			Student: inv.Student.Name,
			Total:   core.FormatEuros(inv.Total),
			Status:  statusText(status),
			IsPaid:  status == core.StatusPaid,
		}
		if inv.PaidDate != nil {
			v.PaidDate = inv.PaidDate.String()
		}
		out = append(out, v)
	}
	return out
}
