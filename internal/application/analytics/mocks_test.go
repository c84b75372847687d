package analytics

import (
	"context"
	"time"

	domain "github.com/apinexus/backend/internal/domain/analytics"
	"github.com/apinexus/backend/internal/domain/sales"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockSaleRepository is a mock implementation of sales.SaleRepository
type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) FindAll(ctx context.Context, filter sales.SaleFilter) ([]sales.Sale, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindByDateRange(ctx context.Context, start, end time.Time) ([]sales.Sale, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindByRegion(ctx context.Context, region string) ([]sales.Sale, error) {
	args := m.Called(ctx, region)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) Save(ctx context.Context, sale *sales.Sale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

// MockStockProvider is a mock implementation of sales.StockProvider
type MockStockProvider struct {
	mock.Mock
}

func (m *MockStockProvider) CurrentStock(ctx context.Context, productID int64) (int, error) {
	args := m.Called(ctx, productID)
	return args.Int(0), args.Error(1)
}

func (m *MockStockProvider) Snapshot(ctx context.Context) (map[int64]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]int), args.Error(1)
}

// MockSuggestionCache is a mock implementation of SuggestionCache
type MockSuggestionCache struct {
	mock.Mock
}

func (m *MockSuggestionCache) Get(ctx context.Context, key string) ([]domain.Suggestion, bool, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]domain.Suggestion), args.Bool(1), args.Error(2)
}

func (m *MockSuggestionCache) Set(ctx context.Context, key string, list []domain.Suggestion) error {
	args := m.Called(ctx, key, list)
	return args.Error(0)
}

func (m *MockSuggestionCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockExportArchive is a mock implementation of ExportArchive
type MockExportArchive struct {
	mock.Mock
}

func (m *MockExportArchive) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	args := m.Called(ctx, key, data, contentType)
	return args.Error(0)
}

func (m *MockExportArchive) DownloadURL(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

// recordingMetrics counts recorder calls
type recordingMetrics struct {
	noopMetrics
	salesCreated int
	bills        []string
	suggestions  map[string]int
}

func (r *recordingMetrics) RecordSaleCreated(context.Context, string) { r.salesCreated++ }

func (r *recordingMetrics) RecordBillGenerated(_ context.Context, period string, _ int) {
	r.bills = append(r.bills, period)
}

func (r *recordingMetrics) RecordSuggestions(_ context.Context, category, priority string, count int) {
	if r.suggestions == nil {
		r.suggestions = make(map[string]int)
	}
	r.suggestions[category+"/"+priority] += count
}

var fixedNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func sale(productID int64, name, category string, qty int, price float64, customerID int64, premium bool, discount float64, region string, when time.Time) sales.Sale {
	return *sales.MustNewSale(sales.SaleParams{
		ID:                "sale",
		ProductID:         productID,
		ProductName:       name,
		Category:          category,
		Quantity:          qty,
		UnitPrice:         decimal.NewFromFloat(price),
		CustomerID:        customerID,
		CustomerName:      "Customer",
		IsPremiumCustomer: premium,
		Discount:          decimal.NewFromFloat(discount),
		PaymentMethod:     "CARD",
		Region:            region,
		Salesperson:       "Sam",
		SaleDate:          when,
	})
}
