package models

import "github.com/shopspring/decimal"

// MarketItemModel is a sellable catalogue item with its on-hand stock
type MarketItemModel struct {
	ID            int64           `gorm:"primaryKey;autoIncrement"`
	ItemName      string          `gorm:"type:varchar(200);not null"`
	Description   string          `gorm:"type:text"`
	Category      string          `gorm:"type:varchar(100);index"`
	NormalPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PremiumPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	StockQuantity int             `gorm:"not null;default:0"`
	IsAvailable   bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (MarketItemModel) TableName() string {
	return "market_items"
}
