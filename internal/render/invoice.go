// Package render produces the printable invoice page: a standalone
// HTML document with From/To blocks, the service-line table, and the
// subtotal / IVA / total footer.
package render

import (
	"fmt"
	"html/template"
	"io"
	"strings"

	"clases/internal/core"
)

var invoiceTmpl = template.Must(template.New("invoice").Funcs(template.FuncMap{
	"euros":      func(v float64) string { return fmt.Sprintf("€%.2f", v) },
	"multiline":  multiline,
	"dmy":        dmy,
	"lineTotal":  func(l core.ServiceLine) float64 { return l.LineSubtotal + l.LineVAT },
	"trimNumber": trimNumber,
}).Parse(invoicePage))

// WriteInvoice renders the printable page for one invoice.
func WriteInvoice(w io.Writer, inv core.Invoice) error {
	if err := invoiceTmpl.Execute(w, inv); err != nil {
		return fmt.Errorf("render invoice %s: %w", inv.Number, err)
	}
	return nil
}

// dmy formats a date as DD/MM/YYYY for the printed page.
func dmy(d core.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Format("02/01/2006")
}

// multiline escapes the text and turns newlines into <br> tags.
func multiline(s string) template.HTML {
	escaped := template.HTMLEscapeString(s)
	escaped = strings.ReplaceAll(escaped, "\r\n", "\n")
	escaped = strings.ReplaceAll(escaped, "\n", "<br>")
	return template.HTML(escaped)
}

// trimNumber drops trailing zeros so 1.5 hours prints as "1.5" and 2
// hours as "2".
func trimNumber(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}

const invoicePage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Invoice {{.Number}}</title>
<style>
    body { font-family: Arial, sans-serif; margin: 20px; color: #333; line-height: 1.6; }
    .invoice-header { display: flex; justify-content: space-between; margin-bottom: 30px; border-bottom: 2px solid #333; padding-bottom: 20px; }
    .invoice-title { font-size: 2em; font-weight: bold; color: #2c3e50; }
    .invoice-info { text-align: right; }
    .parties { display: flex; justify-content: space-between; margin-bottom: 30px; }
    .business-info h3, .client-info h3 { margin-bottom: 10px; color: #2c3e50; border-bottom: 1px solid #dee2e6; padding-bottom: 5px; }
    table { width: 100%; border-collapse: collapse; margin: 20px 0; }
    th, td { padding: 12px; text-align: left; border-bottom: 1px solid #dee2e6; }
    th { background: #f8f9fa; font-weight: bold; }
    .total-row { font-weight: bold; background: #f8f9fa; }
    .grand-total { font-size: 1.2em; }
    .text-right { text-align: right; }
    .invoice-notes { margin-top: 30px; padding: 20px; background: #f8f9fa; border-radius: 5px; }
    .print-button { background: #3498db; color: white; padding: 10px 20px; border: none; border-radius: 5px; cursor: pointer; margin: 20px 0; }
    @media print { .print-button { display: none; } }
</style>
</head>
<body>
<button class="print-button" onclick="window.print()">Print Invoice</button>

<div class="invoice-header">
    <div class="invoice-title">INVOICE</div>
    <div class="invoice-info">
        <strong>Invoice #:</strong> {{.Number}}<br>
        <strong>Date:</strong> {{dmy .Date}}<br>
        <strong>Due Date:</strong> {{dmy .DueDate}}
    </div>
</div>

<div class="parties">
    <div class="business-info">
        <h3>From:</h3>
        <strong>{{.Business.Name}}</strong><br>
        {{if .Business.NIF}}NIF: {{.Business.NIF}}<br>{{end}}
        {{multiline .Business.Address}}<br>
        {{if .Business.Email}}{{.Business.Email}}<br>{{end}}
        {{if .Business.Phone}}{{.Business.Phone}}{{end}}
    </div>
    <div class="client-info">
        <h3>To:</h3>
        <strong>{{.Student.Name}}</strong><br>
        {{if .Student.Address}}{{multiline .Student.Address}}<br>{{end}}
        {{if .Student.Email}}{{.Student.Email}}<br>{{end}}
        {{if .Student.Phone}}{{.Student.Phone}}{{end}}
    </div>
</div>

<table>
    <thead>
        <tr>
            <th>Description</th>
            <th class="text-right">Hours</th>
            <th class="text-right">Rate (€/hr)</th>
            <th class="text-right">IVA %</th>
            <th class="text-right">Subtotal</th>
            <th class="text-right">IVA</th>
            <th class="text-right">Total</th>
        </tr>
    </thead>
    <tbody>
        {{range .Services}}
        <tr>
            <td>{{.Description}}</td>
            <td class="text-right">{{trimNumber .Hours}}</td>
            <td class="text-right">{{euros .Rate}}</td>
            <td class="text-right">{{trimNumber .VATPercent}}%</td>
            <td class="text-right">{{euros .LineSubtotal}}</td>
            <td class="text-right">{{euros .LineVAT}}</td>
            <td class="text-right">{{euros (lineTotal .)}}</td>
        </tr>
        {{end}}
    </tbody>
    <tfoot>
        <tr class="total-row">
            <td colspan="6"><strong>Subtotal:</strong></td>
            <td class="text-right"><strong>{{euros .Subtotal}}</strong></td>
        </tr>
        <tr class="total-row">
            <td colspan="6"><strong>Total IVA:</strong></td>
            <td class="text-right"><strong>{{euros .TotalVAT}}</strong></td>
        </tr>
        <tr class="total-row grand-total">
            <td colspan="6"><strong>TOTAL:</strong></td>
            <td class="text-right"><strong>{{euros .Total}}</strong></td>
        </tr>
    </tfoot>
</table>

{{if .Notes}}
<div class="invoice-notes">
    <h4>Notes:</h4>
    <p>{{multiline .Notes}}</p>
</div>
{{end}}
</body>
</html>
`
