package analytics

import (
	"strings"
	"time"

	"github.com/apinexus/backend/internal/domain/sales"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
)

// TaxRate applied to the taxable amount of every generated bill
var TaxRate = decimal.NewFromFloat(0.10)

// NoPaymentMethod is reported when a bill covers no sales
const NoPaymentMethod = "N/A"

// BillLineItem aggregates the sales of one product name within a bill
type BillLineItem struct {
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
	Discount    decimal.Decimal
	Total       decimal.Decimal
}

// GeneratedBill is a bill derived from the sales of a period
type GeneratedBill struct {
	BillNumber        string
	GeneratedDate     time.Time
	Period            string
	PeriodStartDate   time.Time
	PeriodEndDate     time.Time
	CustomerName      string
	CustomerID        *int64
	Items             []BillLineItem
	Subtotal          decimal.Decimal
	TotalDiscount     decimal.Decimal
	TaxableAmount     decimal.Decimal
	TaxRate           decimal.Decimal
	TaxAmount         decimal.Decimal
	GrandTotal        decimal.Decimal
	TotalTransactions int
	TotalItemsSold    int
	PaymentMethod     string
}

// CustomerFilter narrows the sales of a bill. CustomerID wins over CustomerName.
type CustomerFilter struct {
	CustomerID   *int64
	CustomerName string
}

// Active reports whether any customer constraint is set
func (f CustomerFilter) Active() bool {
	return f.CustomerID != nil || strings.TrimSpace(f.CustomerName) != ""
}

// Match reports whether s passes the filter. Name matching is a
// case-insensitive substring test using Unicode case folding.
func (f CustomerFilter) Match(s sales.Sale) bool {
	if f.CustomerID != nil {
		return s.CustomerID == *f.CustomerID
	}
	name := strings.TrimSpace(f.CustomerName)
	if name == "" {
		return true
	}
	folder := cases.Fold()
	return strings.Contains(folder.String(s.CustomerName), folder.String(name))
}

// BillRequest carries everything needed to derive a bill
type BillRequest struct {
	BillNumber  string
	GeneratedAt time.Time
	Range       PeriodRange
	Customer    CustomerFilter
}

// BuildBill derives a bill from the sales of the request window.
// Sales outside the window or failing the customer filter are ignored.
func BuildBill(req BillRequest, list []sales.Sale) GeneratedBill {
	bill := GeneratedBill{
		BillNumber:      req.BillNumber,
		GeneratedDate:   req.GeneratedAt,
		Period:          req.Range.Label,
		PeriodStartDate: req.Range.StartDate,
		PeriodEndDate:   req.Range.EndDate,
		Items:           make([]BillLineItem, 0),
		Subtotal:        decimal.Zero,
		TotalDiscount:   decimal.Zero,
		TaxRate:         TaxRate,
	}

	index := make(map[string]int)
	var methods paymentTally
	var first *sales.Sale

	for i := range list {
		s := list[i]
		if !req.Range.Contains(s.SaleDate) || !req.Customer.Match(s) {
			continue
		}
		if first == nil {
			first = &list[i]
		}

		j, ok := index[s.ProductName]
		if !ok {
			j = len(bill.Items)
			index[s.ProductName] = j
			bill.Items = append(bill.Items, BillLineItem{
				ProductName: s.ProductName,
				UnitPrice:   s.UnitPrice,
				Subtotal:    decimal.Zero,
				Discount:    decimal.Zero,
				Total:       decimal.Zero,
			})
		}
		item := &bill.Items[j]
		item.Quantity += s.Quantity
		item.Subtotal = item.Subtotal.Add(s.TotalPrice)
		item.Discount = item.Discount.Add(s.DiscountApplied)
		item.Total = item.Total.Add(s.FinalAmount)

		bill.Subtotal = bill.Subtotal.Add(s.TotalPrice)
		bill.TotalDiscount = bill.TotalDiscount.Add(s.DiscountApplied)
		bill.TotalTransactions++
		bill.TotalItemsSold += s.Quantity
		methods.add(s.PaymentMethod)
	}

	bill.TaxableAmount = bill.Subtotal.Sub(bill.TotalDiscount)
	bill.TaxAmount = bill.TaxableAmount.Mul(TaxRate)
	bill.GrandTotal = bill.TaxableAmount.Add(bill.TaxAmount)
	bill.PaymentMethod = methods.mode()

	if req.Customer.Active() && first != nil {
		id := first.CustomerID
		bill.CustomerID = &id
		bill.CustomerName = first.CustomerName
	}
	return bill
}

// paymentTally counts payment methods keeping first-encounter order for ties
type paymentTally struct {
	order  []string
	counts map[string]int
}

func (t *paymentTally) add(method string) {
	if t.counts == nil {
		t.counts = make(map[string]int)
	}
	if _, ok := t.counts[method]; !ok {
		t.order = append(t.order, method)
	}
	t.counts[method]++
}

func (t *paymentTally) mode() string {
	best, bestCount := NoPaymentMethod, 0
	for _, m := range t.order {
		if c := t.counts[m]; c > bestCount {
			best, bestCount = m, c
		}
	}
	return best
}
