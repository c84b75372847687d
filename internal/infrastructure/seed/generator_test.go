package seed

import (
	"testing"
	"time"

	"github.com/apinexus/backend/internal/domain/sales"
	"github.com/apinexus/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 6, 12, 12, 0, 0, 0, time.UTC)

func withIDs(items []*models.MarketItemModel) []*models.MarketItemModel {
	for i, it := range items {
		it.ID = int64(i + 1)
	}
	return items
}

func TestGenerator_Items(t *testing.T) {
	items := NewGenerator(42, now).Items(20)
	require.Len(t, items, 20)
	for _, it := range items {
		assert.NotEmpty(t, it.ItemName)
		assert.Contains(t, categories, it.Category)
		assert.True(t, it.NormalPrice.IsPositive())
		assert.True(t, it.PremiumPrice.LessThanOrEqual(it.NormalPrice))
		assert.GreaterOrEqual(t, it.StockQuantity, 0)
	}
}

func TestGenerator_Deterministic(t *testing.T) {
	a := NewGenerator(7, now).Items(5)
	b := NewGenerator(7, now).Items(5)
	for i := range a {
		assert.Equal(t, a[i].ItemName, b[i].ItemName)
		assert.True(t, a[i].NormalPrice.Equal(b[i].NormalPrice))
	}
}

func TestGenerator_Sales(t *testing.T) {
	g := NewGenerator(42, now)
	items := withIDs(g.Items(10))

	list, err := g.Sales(items, 200, 30)
	require.NoError(t, err)
	require.Len(t, list, 200)

	start := now.AddDate(0, 0, -30)
	for _, s := range list {
		assert.False(t, s.SaleDate.Before(start))
		assert.False(t, s.SaleDate.After(now))
		assert.True(t, s.FinalAmount.Equal(s.TotalPrice.Sub(s.DiscountApplied)))
		if s.IsPremiumCustomer {
			assert.True(t, s.DiscountApplied.Equal(sales.PremiumDiscount(s.TotalPrice)))
		} else {
			assert.True(t, s.DiscountApplied.Equal(decimal.Zero))
		}
		assert.Contains(t, regions, s.Region)
		assert.Contains(t, paymentMethods, s.PaymentMethod)
	}
}

func TestGenerator_SalesWithoutItems(t *testing.T) {
	_, err := NewGenerator(1, now).Sales(nil, 10, 30)
	assert.Error(t, err)
}
