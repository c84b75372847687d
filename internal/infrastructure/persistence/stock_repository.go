package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/apinexus/backend/internal/domain/sales"
	"github.com/apinexus/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormStockRepository reads on-hand quantities from market_items
type GormStockRepository struct {
	db *gorm.DB
}

// NewGormStockRepository creates a new GormStockRepository
func NewGormStockRepository(db *gorm.DB) *GormStockRepository {
	return &GormStockRepository{db: db}
}

// CurrentStock returns the stock of one product. Unknown products have no
// stock, matching the snapshot's missing-key semantics.
func (r *GormStockRepository) CurrentStock(ctx context.Context, productID int64) (int, error) {
	var item models.MarketItemModel
	err := r.db.WithContext(ctx).Select("id", "stock_quantity").First(&item, "id = ?", productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("query stock for product %d: %w", productID, err)
	}
	return item.StockQuantity, nil
}

// Snapshot returns stock_quantity keyed by product id for every market item
func (r *GormStockRepository) Snapshot(ctx context.Context) (map[int64]int, error) {
	var rows []models.MarketItemModel
	if err := r.db.WithContext(ctx).Select("id", "stock_quantity").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query stock snapshot: %w", err)
	}
	out := make(map[int64]int, len(rows))
	for _, row := range rows {
		out[row.ID] = row.StockQuantity
	}
	return out, nil
}

// ListAvailable returns every item on sale, ordered by id
func (r *GormStockRepository) ListAvailable(ctx context.Context) ([]models.MarketItemModel, error) {
	var rows []models.MarketItemModel
	if err := r.db.WithContext(ctx).Where("is_available = ?", true).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query market items: %w", err)
	}
	return rows, nil
}

// SaveItems inserts catalogue items, filling in their generated ids
func (r *GormStockRepository) SaveItems(ctx context.Context, items []*models.MarketItemModel) error {
	if len(items) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(items).Error; err != nil {
		return fmt.Errorf("insert market items: %w", err)
	}
	return nil
}

var _ sales.StockProvider = (*GormStockRepository)(nil)
