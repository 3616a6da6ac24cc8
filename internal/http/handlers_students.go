package http

import (
	"html/template"
	"log/slog"
	"net/http"

	"clases/internal/core"
	"clases/internal/ledger"
)

func studentInputFromForm(r *http.Request) ledger.StudentInput {
	return ledger.StudentInput{
		Name:      sanitizeInput(r.Form.Get("name")),
		Phone:     sanitizeInput(r.Form.Get("phone")),
		Email:     sanitizeInput(r.Form.Get("email")),
		Address:   sanitizeInput(r.Form.Get("address")),
		Rate:      core.ParseAmount(r.Form.Get("rate")),
		ClassType: sanitizeInput(r.Form.Get("classType")),
		Notes:     sanitizeInput(r.Form.Get("notes")),
	}
}

func (s *Server) handleCreateStudent(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) || !parseMutationForm(w, r) {
		return
	}

	st, err := s.ledger.AddStudent(r.Context(), studentInputFromForm(r))
	if err != nil {
		slog.ErrorContext(r.Context(), "Add student error", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">Failed to save student</div>`))
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">Student added: ` +
		template.HTMLEscapeString(st.Name) + `</div>`))
}

func (s *Server) handleUpdateStudent(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) || !parseMutationForm(w, r) {
		return
	}

	id := formID(r, "id")
	if err := s.ledger.UpdateStudent(r.Context(), id, studentInputFromForm(r)); err != nil {
		slog.ErrorContext(r.Context(), "Update student error", "error", err, "id", id)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">Failed to update student</div>`))
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">Student updated</div>`))
}

func (s *Server) handleDeleteStudent(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) || !parseMutationForm(w, r) {
		return
	}

	id := formID(r, "id")
	if err := s.ledger.DeleteStudent(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Delete student error", "error", err, "id", id)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">Failed to delete student</div>`))
		return
	}

	// Issued invoices keep their contact snapshot.
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">Student removed</div>`))
}
