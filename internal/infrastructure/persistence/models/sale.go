package models

import (
	"time"

	"github.com/apinexus/backend/internal/domain/sales"
	"github.com/shopspring/decimal"
)

// SaleModel is the persistence model for a sale record
type SaleModel struct {
	ID                string          `gorm:"type:varchar(36);primaryKey"`
	ProductID         int64           `gorm:"not null;index"`
	ProductName       string          `gorm:"type:varchar(200);not null"`
	Category          string          `gorm:"type:varchar(100);index"`
	Quantity          int             `gorm:"not null"`
	UnitPrice         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalPrice        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CustomerID        int64           `gorm:"not null;index"`
	CustomerName      string          `gorm:"type:varchar(200)"`
	IsPremiumCustomer bool            `gorm:"not null;default:false"`
	DiscountApplied   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	FinalAmount       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaymentMethod     string          `gorm:"type:varchar(50)"`
	Region            string          `gorm:"type:varchar(100);index"`
	Salesperson       string          `gorm:"type:varchar(200)"`
	SaleDate          time.Time       `gorm:"not null;index"`
	Notes             string          `gorm:"type:text"`
	CreatedAt         time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SaleModel) TableName() string {
	return "sales"
}

// ToDomain converts the stored row to a domain Sale. Stored amounts are
// taken as-is rather than re-derived.
func (m *SaleModel) ToDomain() sales.Sale {
	return sales.Sale{
		ID:                m.ID,
		ProductID:         m.ProductID,
		ProductName:       m.ProductName,
		Category:          m.Category,
		Quantity:          m.Quantity,
		UnitPrice:         m.UnitPrice,
		TotalPrice:        m.TotalPrice,
		CustomerID:        m.CustomerID,
		CustomerName:      m.CustomerName,
		IsPremiumCustomer: m.IsPremiumCustomer,
		DiscountApplied:   m.DiscountApplied,
		FinalAmount:       m.FinalAmount,
		PaymentMethod:     m.PaymentMethod,
		Region:            m.Region,
		Salesperson:       m.Salesperson,
		SaleDate:          m.SaleDate,
		Notes:             m.Notes,
	}
}

// SaleModelFromDomain creates a persistence model from a domain Sale
func SaleModelFromDomain(s *sales.Sale) *SaleModel {
	return &SaleModel{
		ID:                s.ID,
		ProductID:         s.ProductID,
		ProductName:       s.ProductName,
		Category:          s.Category,
		Quantity:          s.Quantity,
		UnitPrice:         s.UnitPrice,
		TotalPrice:        s.TotalPrice,
		CustomerID:        s.CustomerID,
		CustomerName:      s.CustomerName,
		IsPremiumCustomer: s.IsPremiumCustomer,
		DiscountApplied:   s.DiscountApplied,
		FinalAmount:       s.FinalAmount,
		PaymentMethod:     s.PaymentMethod,
		Region:            s.Region,
		Salesperson:       s.Salesperson,
		SaleDate:          s.SaleDate,
		Notes:             s.Notes,
	}
}
