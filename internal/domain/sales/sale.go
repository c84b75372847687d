package sales

import (
	"strings"
	"time"

	"github.com/apinexus/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MoneyScale is the number of decimal places money is stored with
const MoneyScale int32 = 2

// PremiumDiscountRate is the share of the total price granted to premium customers
var PremiumDiscountRate = decimal.NewFromFloat(0.20)

// Sale is an immutable record of a single sale transaction.
// TotalPrice and FinalAmount are derived once by NewSale and never change.
type Sale struct {
	ID                string
	ProductID         int64
	ProductName       string
	Category          string
	Quantity          int
	UnitPrice         decimal.Decimal
	TotalPrice        decimal.Decimal
	CustomerID        int64
	CustomerName      string
	IsPremiumCustomer bool
	DiscountApplied   decimal.Decimal
	FinalAmount       decimal.Decimal
	PaymentMethod     string
	Region            string
	Salesperson       string
	SaleDate          time.Time
	Notes             string
}

// SaleParams carries the independent inputs of a sale
type SaleParams struct {
	ID                string
	ProductID         int64
	ProductName       string
	Category          string
	Quantity          int
	UnitPrice         decimal.Decimal
	CustomerID        int64
	CustomerName      string
	IsPremiumCustomer bool
	Discount          decimal.Decimal
	PaymentMethod     string
	Region            string
	Salesperson       string
	SaleDate          time.Time
	Notes             string
}

// NewSale validates the inputs and derives TotalPrice and FinalAmount.
// UnitPrice and Discount are rounded to MoneyScale first so the derived
// amounts stay exact once stored.
func NewSale(p SaleParams) (*Sale, error) {
	p.UnitPrice = p.UnitPrice.Round(MoneyScale)
	p.Discount = p.Discount.Round(MoneyScale)

	if p.Quantity < 1 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "quantity must be at least 1")
	}
	if p.UnitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "unit price cannot be negative")
	}
	if p.Discount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "discount cannot be negative")
	}
	if strings.TrimSpace(p.ProductName) == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "product name cannot be empty")
	}
	if p.SaleDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_SALE_DATE", "sale date is required")
	}

	total := p.UnitPrice.Mul(decimal.NewFromInt(int64(p.Quantity)))
	if p.Discount.GreaterThan(total) {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "discount cannot exceed total price")
	}

	return &Sale{
		ID:                p.ID,
		ProductID:         p.ProductID,
		ProductName:       p.ProductName,
		Category:          p.Category,
		Quantity:          p.Quantity,
		UnitPrice:         p.UnitPrice,
		TotalPrice:        total,
		CustomerID:        p.CustomerID,
		CustomerName:      p.CustomerName,
		IsPremiumCustomer: p.IsPremiumCustomer,
		DiscountApplied:   p.Discount,
		FinalAmount:       total.Sub(p.Discount),
		PaymentMethod:     p.PaymentMethod,
		Region:            p.Region,
		Salesperson:       p.Salesperson,
		SaleDate:          p.SaleDate,
		Notes:             p.Notes,
	}, nil
}

// MustNewSale is like NewSale but panics on invalid input.
// Intended for fixtures and seed data.
func MustNewSale(p SaleParams) *Sale {
	s, err := NewSale(p)
	if err != nil {
		panic(err)
	}
	return s
}

// PremiumDiscount returns the policy discount for a premium customer purchase
func PremiumDiscount(total decimal.Decimal) decimal.Decimal {
	return total.Mul(PremiumDiscountRate)
}

// WithID returns a copy of the sale carrying the store-assigned id
func (s Sale) WithID(id string) *Sale {
	s.ID = id
	return &s
}
