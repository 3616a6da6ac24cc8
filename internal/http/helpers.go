package http

import (
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"clases/internal/core"
)

var templateFuncs = template.FuncMap{
	"euros":      core.FormatEuros,
	"statusText": statusText,
}

// statusText capitalizes a status for display.
func statusText(s core.Status) string {
	v := string(s)
	if v == "" {
		return v
	}
	return strings.ToUpper(v[:1]) + v[1:]
}

// sanitizeInput removes control characters (except tab, newline,
// carriage return) and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// formID parses an id form field. Returns 0 when absent or malformed;
// engine operations treat unknown ids as no-ops.
func formID(r *http.Request, field string) int64 {
	v := strings.TrimSpace(r.Form.Get(field))
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// queryID parses an id query parameter, 0 when absent or malformed.
func queryID(r *http.Request, field string) int64 {
	v := strings.TrimSpace(r.URL.Query().Get(field))
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// formDate parses a YYYY-MM-DD form field, defaulting to today.
func formDate(r *http.Request, field string) core.Date {
	v := strings.TrimSpace(r.Form.Get(field))
	if v == "" {
		return core.Today()
	}
	d, err := core.ParseDate(v)
	if err != nil {
		return core.Today()
	}
	return d
}

// queryPeriod reads kind/value query parameters, defaulting to the
// current month.
func queryPeriod(r *http.Request) core.Period {
	kind := strings.TrimSpace(r.URL.Query().Get("kind"))
	value := strings.TrimSpace(r.URL.Query().Get("value"))
	if kind == "" {
		kind = string(core.PeriodMonthly)
	}
	if value == "" {
		today := core.Today()
		return core.Monthly(today.Year(), today.Month())
	}
	p, err := core.ParsePeriod(core.PeriodKind(kind), value)
	if err != nil {
		today := core.Today()
		return core.Monthly(today.Year(), today.Month())
	}
	return p
}

// requirePost enforces the method on mutation endpoints.
func requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// parseMutationForm parses the form body, writing the error fragment
// on failure.
func parseMutationForm(w http.ResponseWriter, r *http.Request) bool {
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Invalid request format</div>`))
		return false
	}
	return true
}
