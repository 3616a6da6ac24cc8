package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"clases/internal/core"
	"clases/internal/ledger"
	"clases/internal/report"
	"clases/internal/storage/memory"
)

func newTestServer(t *testing.T) (*Server, *ledger.Ledger) {
	t.Helper()
	led, err := ledger.Open(context.Background(), memory.New(), nil)
	if err != nil {
		t.Fatalf("open ledger: %v", err)
	}
	opts := report.Options{SocialSecurityMonthly: 230, IRPFRatePct: 15}
	business := core.BusinessInfo{Name: "Tutoring Services", NIF: "12345678A"}
	return NewServer(":0", led, opts, business), led
}

func postForm(t *testing.T, s *Server, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	s, _ := newTestServer(t)
	defer s.rateLimiter.stop()

	if rec := get(t, s, "/healthz"); rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("healthz = %d %q", rec.Code, rec.Body.String())
	}
	if rec := get(t, s, "/readyz"); rec.Code != http.StatusOK || rec.Body.String() != "ready" {
		t.Errorf("readyz = %d %q", rec.Code, rec.Body.String())
	}
}

func TestCreateIncome(t *testing.T) {
	s, led := newTestServer(t)
	defer s.rateLimiter.stop()

	rec := postForm(t, s, "/income", url.Values{
		"date":           {"2025-03-05"},
		"platform":       {"Preply"},
		"student":        {"Ana"},
		"gross":          {"100"},
		"commissionRate": {"20"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Income recorded") {
		t.Errorf("body = %s", rec.Body.String())
	}

	txs := led.Transactions()
	if len(txs) != 1 || txs[0].NetAmount != 80 || txs[0].Platform != "Preply" {
		t.Errorf("transactions = %+v", txs)
	}
}

func TestCreateIncomeCoercesMalformedAmount(t *testing.T) {
	s, led := newTestServer(t)
	defer s.rateLimiter.stop()

	rec := postForm(t, s, "/income", url.Values{
		"platform": {"Private"},
		"gross":    {"not-a-number"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	txs := led.Transactions()
	if len(txs) != 1 || txs[0].GrossAmount != 0 {
		t.Errorf("transactions = %+v", txs)
	}
}

func TestCreateIncomeRejectsGet(t *testing.T) {
	s, _ := newTestServer(t)
	defer s.rateLimiter.stop()

	rec := get(t, s, "/income")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); allow != "POST" {
		t.Errorf("Allow = %q", allow)
	}
}

func TestDeleteTransactionUnknownIDIsNoOp(t *testing.T) {
	s, led := newTestServer(t)
	defer s.rateLimiter.stop()

	rec := postForm(t, s, "/transactions/delete", url.Values{"id": {"999"}})
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
	if len(led.Transactions()) != 0 {
		t.Errorf("transactions = %+v", led.Transactions())
	}
}

func TestStudentLifecycle(t *testing.T) {
	s, led := newTestServer(t)
	defer s.rateLimiter.stop()

	rec := postForm(t, s, "/students", url.Values{
		"name":      {"Ana"},
		"email":     {"ana@example.com"},
		"rate":      {"25"},
		"classType": {"Online +21% IVA"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	students := led.Students()
	if len(students) != 1 || !students[0].HasIVA() {
		t.Fatalf("students = %+v", students)
	}

	rec = postForm(t, s, "/students/delete", url.Values{"id": {"0"}})
	if rec.Code != http.StatusOK {
		t.Errorf("delete status = %d", rec.Code)
	}
	if len(led.Students()) != 1 {
		t.Errorf("unknown-id delete removed a student")
	}
}

func TestInvoiceLifecycle(t *testing.T) {
	s, led := newTestServer(t)
	defer s.rateLimiter.stop()

	st, err := led.AddStudent(context.Background(), ledger.StudentInput{Name: "Ana", Rate: 25})
	if err != nil {
		t.Fatalf("add student: %v", err)
	}

	rec := postForm(t, s, "/invoices", url.Values{
		"studentId":          {formatID(st.ID)},
		"date":               {"2025-03-15"},
		"serviceDescription": {"English classes"},
		"serviceHours":       {"2"},
		"serviceRate":        {"25"},
		"serviceIVA":         {"21"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}

	invoices := led.Invoices()
	if len(invoices) != 1 {
		t.Fatalf("invoices = %+v", invoices)
	}
	inv := invoices[0]
	if inv.Total != 60.5 || inv.Student.Name != "Ana" {
		t.Errorf("invoice = %+v", inv)
	}
	// Default terms are 30 days.
	if got := inv.DueDate.String(); got != "2025-04-14" {
		t.Errorf("due date = %s", got)
	}

	rec = postForm(t, s, "/invoices/paid", url.Values{"id": {formatID(inv.ID)}})
	if rec.Code != http.StatusOK {
		t.Fatalf("paid status = %d", rec.Code)
	}
	if got, _ := led.Invoice(inv.ID); got.Status != core.StatusPaid {
		t.Errorf("status = %q", got.Status)
	}

	rec = get(t, s, "/invoices/view?id="+formatID(inv.ID))
	if rec.Code != http.StatusOK {
		t.Fatalf("view status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "English classes") {
		t.Errorf("view body missing service line")
	}
}

func TestInvoiceViewUnknownID(t *testing.T) {
	s, _ := newTestServer(t)
	defer s.rateLimiter.stop()

	if rec := get(t, s, "/invoices/view?id=42"); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestMarkAllOverdueConverges(t *testing.T) {
	s, led := newTestServer(t)
	defer s.rateLimiter.stop()

	_, err := led.CreateInvoice(context.Background(), ledger.InvoiceInput{
		Number:  "INV-2025-001",
		Date:    core.NewDate(2020, 1, 1),
		DueDate: core.NewDate(2020, 2, 1),
	})
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}

	rec := postForm(t, s, "/invoices/overdue", url.Values{})
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "1 invoice(s)") {
		t.Fatalf("first sweep = %d %s", rec.Code, rec.Body.String())
	}
	rec = postForm(t, s, "/invoices/overdue", url.Values{})
	if !strings.Contains(rec.Body.String(), "0 invoice(s)") {
		t.Errorf("second sweep = %s", rec.Body.String())
	}
}

func TestReportCSVDownload(t *testing.T) {
	s, led := newTestServer(t)
	defer s.rateLimiter.stop()

	_, err := led.RecordIncome(context.Background(), 100, 20, "Preply", "Ana", core.NewDate(2025, 3, 5))
	if err != nil {
		t.Fatalf("record income: %v", err)
	}

	rec := get(t, s, "/report.csv?kind=monthly&value=2025-03")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "financial_report_2025-03.csv") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if !strings.Contains(rec.Body.String(), "2025-03-05,Income,Preply") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestBackupDownload(t *testing.T) {
	s, led := newTestServer(t)
	defer s.rateLimiter.stop()

	_, err := led.RecordExpense(context.Background(), 10, "Materials", "Markers", core.NewDate(2025, 3, 9))
	if err != nil {
		t.Fatalf("record expense: %v", err)
	}

	rec := get(t, s, "/backup")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "clases_backup_") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	body := rec.Body.String()
	for _, want := range []string{`"transactions"`, `"students"`, `"invoices"`, "Markers"} {
		if !strings.Contains(body, want) {
			t.Errorf("backup missing %s", want)
		}
	}
}

func TestIndexRenders(t *testing.T) {
	s, led := newTestServer(t)
	defer s.rateLimiter.stop()

	_, err := led.RecordIncome(context.Background(), 100, 20, "Preply", "Ana", core.NewDate(2025, 3, 5))
	if err != nil {
		t.Fatalf("record income: %v", err)
	}

	rec := get(t, s, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	for _, want := range []string{"Preply", "Gross income", "€80.00"} {
		if !strings.Contains(body, want) {
			t.Errorf("index missing %q", want)
		}
	}
}

func TestSummaryPartial(t *testing.T) {
	s, _ := newTestServer(t)
	defer s.rateLimiter.stop()

	rec := get(t, s, "/ui/summary")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Social security") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
