package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/apinexus/backend/internal/domain/sales"
	"github.com/apinexus/backend/internal/domain/shared"
	"github.com/apinexus/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.SaleModel{}, &models.MarketItemModel{}))
	return db
}

func day(d int) time.Time {
	return time.Date(2024, time.March, d, 10, 0, 0, 0, time.UTC)
}

func newSale(t *testing.T, productID, customerID int64, region string, premium bool, date time.Time) *sales.Sale {
	t.Helper()
	s, err := sales.NewSale(sales.SaleParams{
		ProductID:         productID,
		ProductName:       "Product",
		Category:          "Grocery",
		Quantity:          2,
		UnitPrice:         decimal.NewFromInt(50),
		CustomerID:        customerID,
		CustomerName:      "Customer",
		IsPremiumCustomer: premium,
		PaymentMethod:     "CASH",
		Region:            region,
		SaleDate:          date,
	})
	require.NoError(t, err)
	return s
}

func TestGormSaleRepository_SaveAssignsID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSaleRepository(db)
	ctx := context.Background()

	s := newSale(t, 1, 100, "North", false, day(1))
	require.NoError(t, repo.Save(ctx, s))
	assert.Len(t, s.ID, 36)

	found, err := repo.FindByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ProductID, found.ProductID)
	assert.True(t, decimal.NewFromInt(100).Equal(found.TotalPrice))
	assert.True(t, decimal.NewFromInt(100).Equal(found.FinalAmount))

	var row models.SaleModel
	require.NoError(t, db.First(&row, "id = ?", s.ID).Error)
	assert.False(t, row.CreatedAt.IsZero())
}

func TestGormSaleRepository_SaveKeepsExistingID(t *testing.T) {
	repo := NewGormSaleRepository(setupTestDB(t))
	s := newSale(t, 1, 100, "North", false, day(1)).WithID("fixed-id")

	require.NoError(t, repo.Save(context.Background(), s))
	assert.Equal(t, "fixed-id", s.ID)
}

func TestGormSaleRepository_FindByID_NotFound(t *testing.T) {
	repo := NewGormSaleRepository(setupTestDB(t))

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormSaleRepository_FindAll(t *testing.T) {
	repo := NewGormSaleRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.SaveBatch(ctx, []*sales.Sale{
		newSale(t, 2, 200, "South", true, day(5)),
		newSale(t, 1, 100, "North", false, day(1)),
		newSale(t, 1, 300, "North", true, day(10)),
	}, 2))

	t.Run("no filter returns all ordered by date", func(t *testing.T) {
		list, err := repo.FindAll(ctx, sales.SaleFilter{})
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, day(1).Unix(), list[0].SaleDate.Unix())
		assert.Equal(t, day(10).Unix(), list[2].SaleDate.Unix())
	})

	t.Run("filters by region", func(t *testing.T) {
		list, err := repo.FindByRegion(ctx, "North")
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("date range is inclusive", func(t *testing.T) {
		list, err := repo.FindByDateRange(ctx, day(1), day(5))
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("filters by product and premium flag", func(t *testing.T) {
		productID := int64(1)
		premium := true
		list, err := repo.FindAll(ctx, sales.SaleFilter{ProductID: &productID, PremiumOnly: &premium})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, int64(300), list[0].CustomerID)
	})

	t.Run("filters by customer", func(t *testing.T) {
		customerID := int64(200)
		list, err := repo.FindAll(ctx, sales.SaleFilter{CustomerID: &customerID})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "South", list[0].Region)
	})

	t.Run("unknown payment method matches nothing", func(t *testing.T) {
		list, err := repo.FindAll(ctx, sales.SaleFilter{PaymentMethod: "CARD"})
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestGormStockRepository(t *testing.T) {
	repo := NewGormStockRepository(setupTestDB(t))
	ctx := context.Background()

	items := []*models.MarketItemModel{
		{ItemName: "Rice", Category: "Grocery", NormalPrice: decimal.NewFromInt(10), PremiumPrice: decimal.NewFromInt(8), StockQuantity: 40, IsAvailable: true},
		{ItemName: "Tea", Category: "Beverage", NormalPrice: decimal.NewFromInt(5), PremiumPrice: decimal.NewFromInt(4), StockQuantity: 3, IsAvailable: true},
	}
	require.NoError(t, repo.SaveItems(ctx, items))
	require.NotZero(t, items[0].ID)

	qty, err := repo.CurrentStock(ctx, items[1].ID)
	require.NoError(t, err)
	assert.Equal(t, 3, qty)

	qty, err = repo.CurrentStock(ctx, 9999)
	require.NoError(t, err)
	assert.Equal(t, 0, qty)

	snap, err := repo.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[int64]int{items[0].ID: 40, items[1].ID: 3}, snap)

	available, err := repo.ListAvailable(ctx)
	require.NoError(t, err)
	assert.Len(t, available, 2)
}
