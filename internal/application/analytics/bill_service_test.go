package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "github.com/apinexus/backend/internal/domain/analytics"
	"github.com/apinexus/backend/internal/domain/sales"
	"github.com/apinexus/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestBillService_CustomPeriod(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.Local)
	end := time.Date(2024, 6, 14, 23, 59, 59, 0, time.Local)

	repo := new(MockSaleRepository)
	repo.On("FindByDateRange", mock.Anything, start, end).Return([]sales.Sale{
		sale(1, "Widget", "Gadgets", 1, 100, 5, true, 20, "North", time.Date(2024, 6, 10, 9, 0, 0, 0, time.Local)),
	}, nil)
	metrics := &recordingMetrics{}

	svc := NewBillService(repo,
		WithClock(fixedClock),
		WithMetrics(metrics),
		WithBillNumberGenerator(func() string { return "ABCDEF12" }),
	)

	bill, err := svc.GenerateBillFromSales(context.Background(), GenerateBillRequest{
		Period:    "CUSTOM",
		StartDate: "2024-06-01",
		EndDate:   "2024-06-14",
	})
	require.NoError(t, err)

	assert.Equal(t, "SB-ABCDEF12", bill.BillNumber)
	assert.Equal(t, "Jun 01, 2024 to Jun 14, 2024", bill.Period)
	assert.Equal(t, "2024-06-01", bill.PeriodStartDate)
	assert.Equal(t, "2024-06-14", bill.PeriodEndDate)
	require.Len(t, bill.Items, 1)
	assert.Equal(t, 100.0, bill.Items[0].Subtotal)
	assert.Equal(t, 20.0, bill.Items[0].Discount)
	assert.Equal(t, 80.0, bill.Items[0].Total)
	assert.Equal(t, 80.0, bill.TaxableAmount)
	assert.Equal(t, 0.1, bill.TaxRate)
	assert.Equal(t, 8.0, bill.TaxAmount)
	assert.Equal(t, 88.0, bill.GrandTotal)
	assert.Equal(t, "CARD", bill.PaymentMethod)
	assert.Equal(t, fixedNow, bill.GeneratedDate)
	assert.Equal(t, []string{"CUSTOM"}, metrics.bills)
	repo.AssertExpectations(t)
}

func TestBillService_MonthPeriodQueriesWholeMonth(t *testing.T) {
	repo := new(MockSaleRepository)
	repo.On("FindByDateRange", mock.Anything,
		time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 30, 23, 59, 59, 0, time.UTC),
	).Return([]sales.Sale{}, nil)

	bill, err := NewBillService(repo, WithClock(fixedClock)).
		GenerateBillFromSales(context.Background(), GenerateBillRequest{Period: "month"})
	require.NoError(t, err)

	assert.Equal(t, "June 2024", bill.Period)
	assert.Equal(t, domain.NoPaymentMethod, bill.PaymentMethod)
	assert.Equal(t, 0, bill.TotalTransactions)
	assert.Len(t, bill.BillNumber, len("SB-")+8)
	repo.AssertExpectations(t)
}

func TestBillService_InvalidCustomRejectedBeforeQuery(t *testing.T) {
	repo := new(MockSaleRepository)
	svc := NewBillService(repo, WithClock(fixedClock))

	_, err := svc.GenerateBillFromSales(context.Background(), GenerateBillRequest{
		Period:    "CUSTOM",
		StartDate: "2024-06-01",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidPeriodRequest))
	repo.AssertNotCalled(t, "FindByDateRange", mock.Anything, mock.Anything, mock.Anything)
}

func TestBillService_UnknownPeriod(t *testing.T) {
	repo := new(MockSaleRepository)

	_, err := NewBillService(repo).GenerateBillFromSales(context.Background(), GenerateBillRequest{Period: "DECADE"})
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "INVALID_INPUT", domainErr.Code)
}

func TestBillService_CustomerNameFilter(t *testing.T) {
	repo := new(MockSaleRepository)
	first := sale(1, "Widget", "Gadgets", 1, 10, 7, false, 0, "North", fixedNow)
	first.CustomerName = "Jane Doe"
	other := sale(2, "Gizmo", "Gadgets", 1, 10, 8, false, 0, "North", fixedNow)
	other.CustomerName = "John Roe"
	repo.On("FindByDateRange", mock.Anything, mock.Anything, mock.Anything).Return([]sales.Sale{first, other}, nil)

	bill, err := NewBillService(repo, WithClock(fixedClock)).GenerateBillFromSales(context.Background(), GenerateBillRequest{
		Period:       "YEAR",
		CustomerName: "jane",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, bill.TotalTransactions)
	assert.Equal(t, "Jane Doe", bill.CustomerName)
	require.NotNil(t, bill.CustomerID)
	assert.Equal(t, int64(7), *bill.CustomerID)
}
