package printing

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/apinexus/backend/internal/application/analytics"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var billTemplate = template.Must(template.New("bill").Funcs(template.FuncMap{
	"money": func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"pct":   func(v float64) string { return fmt.Sprintf("%.0f%%", v*100) },
	// Casers hold state, so each call gets its own.
	"title": func(s string) string { return cases.Title(language.English).String(s) },
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>{{.BillNumber}}</title>
<style>
body { font-family: sans-serif; font-size: 12px; margin: 0; }
h1 { font-size: 18px; margin-bottom: 4px; }
table { width: 100%; border-collapse: collapse; margin-top: 12px; }
th, td { padding: 4px 6px; border-bottom: 1px solid #ddd; text-align: right; }
th:first-child, td:first-child { text-align: left; }
.totals td { border: none; }
.grand td { font-weight: bold; border-top: 2px solid #000; }
</style>
</head>
<body>
<h1>Sales Bill {{.BillNumber}}</h1>
<div>Period: {{.Period}} ({{.PeriodStartDate}} to {{.PeriodEndDate}})</div>
<div>Generated: {{.GeneratedDate.Format "2006-01-02 15:04"}}</div>
{{- if .CustomerID}}
<div>Customer: {{.CustomerName}} (#{{.CustomerID}})</div>
{{- end}}
<table>
<thead><tr><th>Product</th><th>Qty</th><th>Unit Price</th><th>Subtotal</th><th>Discount</th><th>Total</th></tr></thead>
<tbody>
{{- range .Items}}
<tr><td>{{.ProductName}}</td><td>{{.Quantity}}</td><td>{{money .UnitPrice}}</td><td>{{money .Subtotal}}</td><td>{{money .Discount}}</td><td>{{money .Total}}</td></tr>
{{- else}}
<tr><td colspan="6">No sales in this period</td></tr>
{{- end}}
</tbody>
</table>
<table class="totals">
<tr><td>Subtotal</td><td>{{money .Subtotal}}</td></tr>
<tr><td>Discount</td><td>{{money .TotalDiscount}}</td></tr>
<tr><td>Taxable amount</td><td>{{money .TaxableAmount}}</td></tr>
<tr><td>Tax ({{pct .TaxRate}})</td><td>{{money .TaxAmount}}</td></tr>
<tr class="grand"><td>Grand total</td><td>{{money .GrandTotal}}</td></tr>
</table>
<div>{{.TotalTransactions}} transactions, {{.TotalItemsSold}} items sold{{if .PaymentMethod}}, paid mostly by {{title .PaymentMethod}}{{end}}</div>
</body>
</html>
`))

// BillHTML renders a bill as a standalone HTML document
func BillHTML(bill *analytics.BillResponse) (string, error) {
	if bill == nil {
		return "", fmt.Errorf("render bill: nil bill")
	}
	var buf bytes.Buffer
	if err := billTemplate.Execute(&buf, bill); err != nil {
		return "", fmt.Errorf("render bill %s: %w", bill.BillNumber, err)
	}
	return buf.String(), nil
}
