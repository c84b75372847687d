package analytics

import (
	"time"

	"github.com/apinexus/backend/internal/domain/sales"
	"github.com/shopspring/decimal"
)

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

type saleOpt func(p *sales.SaleParams)

func withProduct(id int64, name, category string) saleOpt {
	return func(p *sales.SaleParams) {
		p.ProductID = id
		p.ProductName = name
		p.Category = category
	}
}

func withQuantity(q int) saleOpt {
	return func(p *sales.SaleParams) { p.Quantity = q }
}

func withPrice(price float64) saleOpt {
	return func(p *sales.SaleParams) { p.UnitPrice = decimal.NewFromFloat(price) }
}

func withDiscount(d float64) saleOpt {
	return func(p *sales.SaleParams) { p.Discount = decimal.NewFromFloat(d) }
}

func withCustomer(id int64, name string, premium bool) saleOpt {
	return func(p *sales.SaleParams) {
		p.CustomerID = id
		p.CustomerName = name
		p.IsPremiumCustomer = premium
	}
}

func withDate(t time.Time) saleOpt {
	return func(p *sales.SaleParams) { p.SaleDate = t }
}

func withRegion(r string) saleOpt {
	return func(p *sales.SaleParams) { p.Region = r }
}

func withPayment(m string) saleOpt {
	return func(p *sales.SaleParams) { p.PaymentMethod = m }
}

func daysAgo(n int) time.Time {
	return testNow.AddDate(0, 0, -n)
}

func newSale(opts ...saleOpt) sales.Sale {
	p := sales.SaleParams{
		ProductID:     1,
		ProductName:   "Widget",
		Category:      "Gadgets",
		Quantity:      1,
		UnitPrice:     decimal.NewFromInt(10),
		CustomerID:    1,
		CustomerName:  "Alice",
		PaymentMethod: "CARD",
		Region:        "North",
		Salesperson:   "Sam",
		SaleDate:      testNow,
	}
	for _, opt := range opts {
		opt(&p)
	}
	return *sales.MustNewSale(p)
}

func dec(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}
