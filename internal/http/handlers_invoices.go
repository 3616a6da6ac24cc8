package http

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"clases/internal/core"
	"clases/internal/ledger"
	"clases/internal/render"
)

// serviceLinesFromForm reads the repeated service-row fields. Rows with
// an empty description and zero hours are skipped.
func serviceLinesFromForm(r *http.Request) []core.ServiceLineInput {
	descriptions := r.Form["serviceDescription"]
	hours := r.Form["serviceHours"]
	rates := r.Form["serviceRate"]
	ivas := r.Form["serviceIVA"]

	at := func(vals []string, i int) string {
		if i < len(vals) {
			return vals[i]
		}
		return ""
	}

	var lines []core.ServiceLineInput
	for i := range descriptions {
		line := core.ServiceLineInput{
			Description: sanitizeInput(at(descriptions, i)),
			Hours:       core.ParseAmount(at(hours, i)),
			Rate:        core.ParseAmount(at(rates, i)),
			VATPercent:  core.ParseAmount(at(ivas, i)),
		}
		if line.Description == "" && line.Hours == 0 {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func (s *Server) handleCreateInvoice(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) || !parseMutationForm(w, r) {
		return
	}

	date := formDate(r, "date")
	dueDate := formDate(r, "dueDate")
	if strings.TrimSpace(r.Form.Get("dueDate")) == "" {
		// Default terms: 30 days from the invoice date.
		t := date.AddDate(0, 0, 30)
		dueDate = core.NewDate(t.Year(), int(t.Month()), t.Day())
	}

	number := sanitizeInput(r.Form.Get("number"))
	if number == "" {
		number = s.ledger.NextInvoiceNumber(date.Year())
	}

	in := ledger.InvoiceInput{
		StudentID: formID(r, "studentId"),
		Lines:     serviceLinesFromForm(r),
		Date:      date,
		DueDate:   dueDate,
		Number:    number,
		Business:  s.business,
		Notes:     sanitizeInput(r.Form.Get("notes")),
	}

	inv, err := s.ledger.CreateInvoice(r.Context(), in)
	if err != nil {
		slog.ErrorContext(r.Context(), "Create invoice error", "error", err, "student_id", in.StudentID)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">Failed to create invoice</div>`))
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">Invoice ` +
		template.HTMLEscapeString(inv.Number) + ` created: ` +
		template.HTMLEscapeString(core.FormatEuros(inv.Total)) + `</div>`))
}

func (s *Server) handleMarkInvoicePaid(w http.ResponseWriter, r *http.Request) {
	s.invoiceStatusMutation(w, r, "paid", s.ledger.MarkInvoicePaid)
}

func (s *Server) handleMarkInvoiceUnpaid(w http.ResponseWriter, r *http.Request) {
	s.invoiceStatusMutation(w, r, "pending", s.ledger.MarkInvoiceUnpaid)
}

func (s *Server) handleDeleteInvoice(w http.ResponseWriter, r *http.Request) {
	s.invoiceStatusMutation(w, r, "deleted", s.ledger.DeleteInvoice)
}

func (s *Server) invoiceStatusMutation(w http.ResponseWriter, r *http.Request, verb string, op func(context.Context, int64) error) {
	if !requirePost(w, r) || !parseMutationForm(w, r) {
		return
	}

	id := formID(r, "id")
	if err := op(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Invoice mutation error", "error", err, "id", id, "verb", verb)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">Failed to update invoice</div>`))
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">Invoice marked ` + template.HTMLEscapeString(verb) + `</div>`))
}

func (s *Server) handleMarkAllOverdue(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	updated, err := s.ledger.MarkAllOverdue(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Overdue sweep error", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">Failed to update overdue invoices</div>`))
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(fmt.Sprintf(`<div class="success">%d invoice(s) marked overdue</div>`, updated)))
}

// handleInvoiceView serves the printable invoice page.
func (s *Server) handleInvoiceView(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	id := queryID(r, "id")
	inv, ok := s.ledger.Invoice(id)
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.WriteInvoice(w, inv); err != nil {
		slog.ErrorContext(r.Context(), "Invoice render error", "error", err, "id", id)
		http.Error(w, "failed to render invoice", http.StatusInternalServerError)
	}
}
