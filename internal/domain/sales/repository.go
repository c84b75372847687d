package sales

import (
	"context"
	"time"
)

// SaleFilter narrows a sale query. Zero values mean "no constraint".
type SaleFilter struct {
	StartDate     *time.Time
	EndDate       *time.Time
	ProductID     *int64
	CustomerID    *int64
	Category      string
	Region        string
	PaymentMethod string
	PremiumOnly   *bool
}

// HasDateRange reports whether both range bounds are set
func (f SaleFilter) HasDateRange() bool {
	return f.StartDate != nil && f.EndDate != nil
}

// SaleRepository is the read/append interface of the sale record store
type SaleRepository interface {
	// FindAll returns every sale matching the filter
	FindAll(ctx context.Context, filter SaleFilter) ([]Sale, error)

	// FindByDateRange returns sales with start <= sale_date <= end
	FindByDateRange(ctx context.Context, start, end time.Time) ([]Sale, error)

	// FindByRegion returns all sales of a region
	FindByRegion(ctx context.Context, region string) ([]Sale, error)

	// Save appends a sale and assigns its id
	Save(ctx context.Context, sale *Sale) error
}

// StockProvider exposes current on-hand quantities
type StockProvider interface {
	CurrentStock(ctx context.Context, productID int64) (int, error)
	Snapshot(ctx context.Context) (map[int64]int, error)
}
