package report

import (
	"fmt"
	"io"
	"strings"

	"clases/internal/core"
)

// csvHeader is the fixed export contract. Only the description/number
// column is quoted; other fields are written raw, so encoding/csv's
// quote-anything-with-a-comma behavior would break byte compatibility.
const csvHeader = "Date,Type,Platform/Category,Description,Gross Amount,Commission,Net Amount,Status"

// WriteCSV exports the period's transactions and invoices, one row
// each, plus a trailing social-security row when the monthly figure is
// nonzero. Income rows report status "Received", expense rows "Paid"
// with the amount negated, invoice rows their capitalized effective
// status.
func WriteCSV(w io.Writer, p core.Period, transactions []core.Transaction, invoices []core.Invoice, opts Options) error {
	r := Generate(p, transactions, invoices, opts)

	var b strings.Builder
	b.WriteString(csvHeader)
	b.WriteByte('\n')

	for _, tx := range r.Transactions {
		if tx.IsIncome() {
			student := tx.StudentName
			if student == "" {
				student = "Teaching"
			}
			fmt.Fprintf(&b, `%s,Income,%s,"%s",%.2f,%.2f,%.2f,Received`+"\n",
				tx.Date, tx.Platform, student, tx.GrossAmount, tx.Commission, tx.NetAmount)
		} else {
			fmt.Fprintf(&b, `%s,Expense,%s,"%s",0,0,-%.2f,Paid`+"\n",
				tx.Date, tx.Category, tx.Description, tx.Amount)
		}
	}

	for _, inv := range r.Invoices {
		fmt.Fprintf(&b, `%s,Invoice,%s,"%s",%.2f,0,%.2f,%s`+"\n",
			inv.Date, inv.Student.Name, inv.Number, inv.Total, inv.Total,
			capitalize(string(inv.EffectiveStatus())))
	}

	if opts.SocialSecurityMonthly > 0 {
		ss := opts.SocialSecurityMonthly * float64(p.SocialSecurityMonths())
		fmt.Fprintf(&b, `%s,Expense,Social Security,"%s",0,0,-%.2f,Paid`+"\n",
			p.Key(), "Monthly social security contribution", ss)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Filename suggests the CSV download name for a period.
func Filename(p core.Period) string {
	return "financial_report_" + p.Key() + ".csv"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
