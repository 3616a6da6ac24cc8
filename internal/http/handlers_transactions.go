package http

import (
	"html/template"
	"log/slog"
	"net/http"

	"clases/internal/core"
)

func (s *Server) handleCreateIncome(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) || !parseMutationForm(w, r) {
		return
	}

	// Malformed numbers coerce to zero; the entry is still recorded.
	gross := core.ParseAmount(r.Form.Get("gross"))
	rate := core.ParseAmount(r.Form.Get("commissionRate"))
	platform := sanitizeInput(r.Form.Get("platform"))
	studentName := sanitizeInput(r.Form.Get("student"))
	date := formDate(r, "date")

	tx, err := s.ledger.RecordIncome(r.Context(), gross, rate, platform, studentName, date)
	if err != nil {
		slog.ErrorContext(r.Context(), "Record income error", "error", err, "platform", platform)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">Failed to save income</div>`))
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">Income recorded: ` +
		template.HTMLEscapeString(core.FormatEuros(tx.NetAmount)) + ` net (` +
		template.HTMLEscapeString(platform) + `)</div>`))
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) || !parseMutationForm(w, r) {
		return
	}

	amount := core.ParseAmount(r.Form.Get("amount"))
	category := sanitizeInput(r.Form.Get("category"))
	description := sanitizeInput(r.Form.Get("description"))
	date := formDate(r, "date")

	tx, err := s.ledger.RecordExpense(r.Context(), amount, category, description, date)
	if err != nil {
		slog.ErrorContext(r.Context(), "Record expense error", "error", err, "category", category)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">Failed to save expense</div>`))
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">Expense recorded: ` +
		template.HTMLEscapeString(core.FormatEuros(tx.Amount)) + ` (` +
		template.HTMLEscapeString(category) + `)</div>`))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) || !parseMutationForm(w, r) {
		return
	}

	id := formID(r, "id")
	if err := s.ledger.DeleteTransaction(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Delete transaction error", "error", err, "id", id)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">Failed to delete transaction</div>`))
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">Transaction deleted</div>`))
}

// handleSummary renders the year-to-date summary partial.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	if err := s.templates.ExecuteTemplate(w, "summary.html", s.summaryView()); err != nil {
		slog.ErrorContext(r.Context(), "Summary template execution failed", "error", err, "template", "summary.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
