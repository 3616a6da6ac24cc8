package core

import (
	"errors"
	"strings"
	"time"
)

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"

	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
	StatusOverdue Status = "overdue"
)

// IVAMarker in a student's class type implies the fixed VAT surcharge
// applied to that student's invoice lines.
const (
	IVAMarker    = "+21% IVA"
	IVASurcharge = 21.0
)

type (
	TransactionType string

	// Status of an invoice. Only pending and paid are written on
	// creation; overdue reaches storage solely through the bulk sweep.
	Status string

	// Date is a calendar date at day precision, UTC.
	Date struct {
		time.Time
	}

	// Transaction is a ledger entry. Type selects which fields are
	// meaningful: income rows carry the gross/commission/net split,
	// expense rows carry amount/category/description.
	Transaction struct {
		ID   int64           `json:"id"`
		Type TransactionType `json:"type"`
		Date Date            `json:"date"`

		// Income fields
		GrossAmount    float64 `json:"grossAmount,omitempty"`
		Commission     float64 `json:"commission,omitempty"`
		NetAmount      float64 `json:"netAmount,omitempty"`
		CommissionRate float64 `json:"commissionRate,omitempty"`
		Platform       string  `json:"platform,omitempty"`
		StudentName    string  `json:"student,omitempty"`

		// Expense fields
		Amount      float64 `json:"amount,omitempty"`
		Category    string  `json:"category,omitempty"`
		Description string  `json:"description,omitempty"`
	}

	Student struct {
		ID        int64   `json:"id"`
		Name      string  `json:"name"`
		Phone     string  `json:"phone"`
		Email     string  `json:"email"`
		Address   string  `json:"address"`
		Rate      float64 `json:"rate"`
		ClassType string  `json:"classType"`
		Notes     string  `json:"notes"`
	}

	// StudentSnapshot is the contact info copied into an invoice at
	// creation time. Later student edits never touch issued invoices.
	StudentSnapshot struct {
		ID      int64  `json:"id"`
		Name    string `json:"name"`
		Email   string `json:"email"`
		Phone   string `json:"phone"`
		Address string `json:"address"`
	}

	BusinessInfo struct {
		Name    string `json:"name"`
		NIF     string `json:"nif"`
		Address string `json:"address"`
		Email   string `json:"email"`
		Phone   string `json:"phone"`
	}

	ServiceLine struct {
		Description  string  `json:"description"`
		Hours        float64 `json:"hours"`
		Rate         float64 `json:"rate"`
		VATPercent   float64 `json:"ivaPercent"`
		LineSubtotal float64 `json:"lineTotal"`
		LineVAT      float64 `json:"lineIVA"`
	}

	// ServiceLineInput is a service line before pricing.
	ServiceLineInput struct {
		Description string
		Hours       float64
		Rate        float64
		VATPercent  float64
	}

	Invoice struct {
		ID       int64           `json:"id"`
		Number   string          `json:"number"`
		Date     Date            `json:"date"`
		DueDate  Date            `json:"dueDate"`
		Student  StudentSnapshot `json:"student"`
		Business BusinessInfo    `json:"business"`
		Services []ServiceLine   `json:"services"`
		Subtotal float64         `json:"subtotal"`
		TotalVAT float64         `json:"totalIVA"`
		Total    float64         `json:"total"`
		Notes    string          `json:"notes"`
		Status   Status          `json:"status"`
		PaidDate *Date           `json:"paidDate"`
	}

	// Snapshot is the full persisted state: the three collections the
	// ledger owns, saved as a unit after every mutation.
	Snapshot struct {
		Transactions []Transaction `json:"transactions"`
		Students     []Student     `json:"students"`
		Invoices     []Invoice     `json:"invoices"`
	}
)

var ErrInvalidDate = errors.New("invalid date")

const dateLayout = "2006-01-02"

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current calendar date.
func Today() Date {
	now := time.Now().UTC()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// Year returns the calendar year.
func (d Date) Year() int { return d.Time.Year() }

// Month returns the month as 1-12.
func (d Date) Month() int { return int(d.Time.Month()) }

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

// Before reports whether d falls on an earlier calendar day than other.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

// MarshalJSON encodes the date as "YYYY-MM-DD"; the zero date encodes
// as the empty string for compatibility with older saved data.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON accepts "YYYY-MM-DD", "" and null.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" || s == `""` {
		*d = Date{}
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return ErrInvalidDate
	}
	parsed, err := ParseDate(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// IncomeSplit computes the platform commission and the remaining net
// amount for a gross income at the given commission percentage.
func IncomeSplit(gross, commissionRatePct float64) (commission, net float64) {
	commission = gross * commissionRatePct / 100
	return commission, gross - commission
}

// PriceLines prices raw service lines and aggregates invoice totals.
// Each line satisfies LineSubtotal = Hours*Rate and
// LineVAT = LineSubtotal*VATPercent/100; subtotal+vat == total.
func PriceLines(inputs []ServiceLineInput) (lines []ServiceLine, subtotal, vat, total float64) {
	lines = make([]ServiceLine, 0, len(inputs))
	for _, in := range inputs {
		lineSubtotal := in.Hours * in.Rate
		lineVAT := lineSubtotal * in.VATPercent / 100
		lines = append(lines, ServiceLine{
			Description:  in.Description,
			Hours:        in.Hours,
			Rate:         in.Rate,
			VATPercent:   in.VATPercent,
			LineSubtotal: lineSubtotal,
			LineVAT:      lineVAT,
		})
		subtotal += lineSubtotal
		vat += lineVAT
	}
	return lines, subtotal, vat, subtotal + vat
}

// HasIVA reports whether the student's class type carries the VAT marker.
func (s Student) HasIVA() bool {
	return strings.Contains(s.ClassType, IVAMarker)
}

// IsIncome reports whether the transaction is an income entry.
func (t Transaction) IsIncome() bool { return t.Type == TypeIncome }

// EffectiveStatus derives the invoice status from the stored field and
// the due date: paid iff stored paid, otherwise overdue when the due
// date is past, otherwise pending. Pure; never mutates the invoice.
// Every read path (filters, totals, display, export) uses this instead
// of the stored field.
func (i Invoice) EffectiveStatus() Status {
	if i.Status == StatusPaid {
		return StatusPaid
	}
	if !i.DueDate.IsZero() && i.DueDate.Before(Today()) {
		return StatusOverdue
	}
	return StatusPending
}
