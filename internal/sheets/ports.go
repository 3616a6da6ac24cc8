// Package sheets defines the outbound port for the spreadsheet mirror:
// an append-only audit copy of ledger rows in an external sheet.
package sheets

import (
	"context"
)

// Row is one mirrored ledger line, already formatted for display.
type Row struct {
	Date        string
	Kind        string
	Label       string
	Description string
	Gross       float64
	Commission  float64
	Net         float64
	Status      string
}

// RowWriter appends one row and returns a reference to where it
// landed.
type RowWriter interface {
	Append(ctx context.Context, row Row) (rowRef string, err error)
}
