package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/apinexus/backend/internal/domain/sales"
	"github.com/apinexus/backend/internal/domain/shared"
	"github.com/apinexus/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSaleRepository implements sales.SaleRepository using GORM.
// Rows are returned in sale_date order so repeated reads are reproducible.
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// FindAll returns every sale matching the filter
func (r *GormSaleRepository) FindAll(ctx context.Context, filter sales.SaleFilter) ([]sales.Sale, error) {
	return r.find(ctx, applySaleFilter(r.db.WithContext(ctx).Model(&models.SaleModel{}), filter))
}

// FindByDateRange returns sales with start <= sale_date <= end
func (r *GormSaleRepository) FindByDateRange(ctx context.Context, start, end time.Time) ([]sales.Sale, error) {
	return r.FindAll(ctx, sales.SaleFilter{StartDate: &start, EndDate: &end})
}

// FindByRegion returns all sales of a region
func (r *GormSaleRepository) FindByRegion(ctx context.Context, region string) ([]sales.Sale, error) {
	return r.FindAll(ctx, sales.SaleFilter{Region: region})
}

// FindByID finds a sale by its ID
func (r *GormSaleRepository) FindByID(ctx context.Context, id string) (*sales.Sale, error) {
	var m models.SaleModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	sale := m.ToDomain()
	return &sale, nil
}

// Save appends a sale, assigning a new UUID when the sale has none
func (r *GormSaleRepository) Save(ctx context.Context, sale *sales.Sale) error {
	if sale.ID == "" {
		sale.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(models.SaleModelFromDomain(sale)).Error; err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// SaveBatch appends sales in batches inside one transaction
func (r *GormSaleRepository) SaveBatch(ctx context.Context, list []*sales.Sale, batchSize int) error {
	if len(list) == 0 {
		return nil
	}
	rows := make([]*models.SaleModel, 0, len(list))
	for _, s := range list {
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		rows = append(rows, models.SaleModelFromDomain(s))
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.CreateInBatches(rows, batchSize).Error; err != nil {
			return fmt.Errorf("insert sales batch: %w", err)
		}
		return nil
	})
}

// Count returns the number of stored sales
func (r *GormSaleRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.SaleModel{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *GormSaleRepository) find(ctx context.Context, query *gorm.DB) ([]sales.Sale, error) {
	var rows []models.SaleModel
	if err := query.Order("sale_date ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query sales: %w", err)
	}
	out := make([]sales.Sale, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

// applySaleFilter translates a SaleFilter into WHERE clauses. Either date
// bound may be used on its own here; the "both or neither" rule belongs to
// the callers.
func applySaleFilter(query *gorm.DB, f sales.SaleFilter) *gorm.DB {
	if f.StartDate != nil {
		query = query.Where("sale_date >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		query = query.Where("sale_date <= ?", *f.EndDate)
	}
	if f.ProductID != nil {
		query = query.Where("product_id = ?", *f.ProductID)
	}
	if f.CustomerID != nil {
		query = query.Where("customer_id = ?", *f.CustomerID)
	}
	if f.Category != "" {
		query = query.Where("category = ?", f.Category)
	}
	if f.Region != "" {
		query = query.Where("region = ?", f.Region)
	}
	if f.PaymentMethod != "" {
		query = query.Where("payment_method = ?", f.PaymentMethod)
	}
	if f.PremiumOnly != nil {
		query = query.Where("is_premium_customer = ?", *f.PremiumOnly)
	}
	return query
}

var _ sales.SaleRepository = (*GormSaleRepository)(nil)
