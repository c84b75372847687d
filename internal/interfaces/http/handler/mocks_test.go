package handler

import (
	"context"
	"errors"
	"time"

	"github.com/apinexus/backend/internal/application/analytics"
	"github.com/apinexus/backend/internal/domain/sales"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockSaleRepository implements sales.SaleRepository for testing
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

// MockStockProvider implements sales.StockProvider for testing
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

type fakePinger struct {
	err error
}

func (p fakePinger) Ping(context.Context) error { return p.err }

var errStoreDown = errors.New("connection refused")

func testSale(productID int64, name, category string, qty int, price float64, customerID int64, region string, date time.Time) sales.Sale {
	return *sales.MustNewSale(sales.SaleParams{
		ID:            "sale-" + name,
		ProductID:     productID,
		ProductName:   name,
		Category:      category,
		Quantity:      qty,
		UnitPrice:     decimal.NewFromFloat(price),
		CustomerID:    customerID,
		CustomerName:  "Customer",
		PaymentMethod: "CASH",
		Region:        region,
		SaleDate:      date,
	})
}

// fakeArchive keeps uploaded exports in memory
type fakeArchive struct {
	objects map[string][]byte
	err     error
}

func (a *fakeArchive) Upload(_ context.Context, key string, data []byte, _ string) error {
	if a.err != nil {
		return a.err
	}
	if a.objects == nil {
		a.objects = map[string][]byte{}
	}
	a.objects[key] = data
	return nil
}

func (a *fakeArchive) DownloadURL(_ context.Context, key string) (string, error) {
	return "https://archive.local/" + key, nil
}

// fakePrinter returns a fixed PDF body
type fakePrinter struct {
	printed string
}

func (p *fakePrinter) PrintBill(_ context.Context, bill *analytics.BillResponse) ([]byte, error) {
	p.printed = bill.BillNumber
	return []byte("%PDF"), nil
}
