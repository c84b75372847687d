package analytics

import (
	"context"
	"fmt"
	"strings"
	"time"

	domain "github.com/apinexus/backend/internal/domain/analytics"
	"github.com/apinexus/backend/internal/domain/sales"
	"github.com/apinexus/backend/internal/domain/shared"
	"github.com/apinexus/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SalesService serves sale listings and analytics rollups
type SalesService struct {
	repo sales.SaleRepository
	opts serviceOptions
}

// NewSalesService creates a new SalesService
func NewSalesService(repo sales.SaleRepository, opts ...Option) *SalesService {
	return &SalesService{
		repo: repo,
		opts: newServiceOptions(opts),
	}
}

// fetch loads the sales of the range, or every sale when the range is incomplete
func (s *SalesService) fetch(ctx context.Context, r DateRange) ([]sales.Sale, error) {
	var (
		list []sales.Sale
		err  error
	)
	if r.Complete() {
		list, err = s.repo.FindByDateRange(ctx, *r.Start, *r.End)
	} else {
		list, err = s.repo.FindAll(ctx, sales.SaleFilter{})
	}
	if err != nil {
		return nil, fmt.Errorf("load sales: %w", err)
	}
	return list, nil
}

func (s *SalesService) compute(ctx context.Context, method string, r DateRange, fn func(list []sales.Sale)) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "sales", method,
		telemetry.WithAttribute("range.complete", r.Complete()),
	)
	defer span.End()

	list, err := s.fetch(ctx, r)
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	started := time.Now()
	fn(list)
	s.opts.metrics.RecordComputation(ctx, "sales."+method, time.Since(started))

	telemetry.SetAttributes(span, telemetry.SpanAttrSaleCount, len(list))
	s.opts.logger.Debug("sales computation finished",
		zap.String("operation", method),
		zap.Int("sales", len(list)),
	)
	telemetry.SetOK(span)
	return nil
}

// GetAnalytics returns the analytics overview of the range
func (s *SalesService) GetAnalytics(ctx context.Context, r DateRange) (*SalesAnalyticsResponse, error) {
	var summary domain.SalesSummary
	if err := s.compute(ctx, "analytics", r, func(list []sales.Sale) {
		summary = domain.Summarize(list)
	}); err != nil {
		return nil, err
	}

	return &SalesAnalyticsResponse{
		TotalRevenue:         toFloat64(summary.TotalRevenue),
		TotalSales:           summary.TotalSales,
		TotalQuantitySold:    summary.TotalQuantitySold,
		AverageOrderValue:    toFloat64(summary.AverageOrderValue),
		TotalDiscounts:       toFloat64(summary.TotalDiscounts),
		PremiumCustomerSales: summary.PremiumCustomerSales,
		RegularCustomerSales: summary.RegularCustomerSales,
	}, nil
}

// GetSalesByProduct returns product rollups ordered by revenue
func (s *SalesService) GetSalesByProduct(ctx context.Context, r DateRange) ([]ProductSalesResponse, error) {
	var rollups []domain.ProductRollup
	if err := s.compute(ctx, "by_product", r, func(list []sales.Sale) {
		rollups = domain.RollupByProduct(list)
	}); err != nil {
		return nil, err
	}
	return toProductSalesResponses(rollups), nil
}

// GetSalesByCategory returns category rollups ordered by revenue
func (s *SalesService) GetSalesByCategory(ctx context.Context, r DateRange) ([]CategorySalesResponse, error) {
	var rollups []domain.CategoryRollup
	if err := s.compute(ctx, "by_category", r, func(list []sales.Sale) {
		rollups = domain.RollupByCategory(list)
	}); err != nil {
		return nil, err
	}

	out := make([]CategorySalesResponse, 0, len(rollups))
	for _, c := range rollups {
		out = append(out, CategorySalesResponse{
			Category:      c.Category,
			TotalQuantity: c.TotalQuantity,
			TotalRevenue:  toFloat64(c.TotalRevenue),
			SalesCount:    c.SalesCount,
		})
	}
	return out, nil
}

// GetSalesByTimePeriod returns period rollups in chronological order.
// Unknown granularities are treated as daily.
func (s *SalesService) GetSalesByTimePeriod(ctx context.Context, granularity string, r DateRange) ([]PeriodSalesResponse, error) {
	g := domain.ParseGranularity(granularity)
	if !strings.EqualFold(strings.TrimSpace(granularity), string(g)) {
		s.opts.logger.Debug("unknown granularity, using daily", zap.String("granularity", granularity))
	}

	var rollups []domain.PeriodRollup
	if err := s.compute(ctx, "by_period", r, func(list []sales.Sale) {
		rollups = domain.RollupByPeriod(list, g)
	}); err != nil {
		return nil, err
	}

	out := make([]PeriodSalesResponse, 0, len(rollups))
	for _, p := range rollups {
		out = append(out, PeriodSalesResponse{
			Period:     p.Period,
			Revenue:    toFloat64(p.Revenue),
			SalesCount: p.SalesCount,
			Quantity:   p.Quantity,
		})
	}
	return out, nil
}

// GetTopSellingProducts returns the first limit product rollups
func (s *SalesService) GetTopSellingProducts(ctx context.Context, limit int, r DateRange) ([]ProductSalesResponse, error) {
	if limit <= 0 {
		limit = s.opts.topLimit
	}
	var rollups []domain.ProductRollup
	if err := s.compute(ctx, "top_products", r, func(list []sales.Sale) {
		rollups = domain.TopProducts(list, limit)
	}); err != nil {
		return nil, err
	}
	return toProductSalesResponses(rollups), nil
}

// ListSales returns the raw sale records of the range
func (s *SalesService) ListSales(ctx context.Context, r DateRange) ([]SaleResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "sales", "list")
	defer span.End()

	list, err := s.fetch(ctx, r)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetOK(span)
	return toSaleResponses(list), nil
}

// GetSalesByRegion returns all sales of a region
func (s *SalesService) GetSalesByRegion(ctx context.Context, region string) ([]SaleResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "sales", "by_region",
		telemetry.WithAttribute(telemetry.SpanAttrRegion, region),
	)
	defer span.End()

	if strings.TrimSpace(region) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "region is required")
	}

	list, err := s.repo.FindByRegion(ctx, region)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("load sales for region %s: %w", region, err)
	}
	telemetry.SetOK(span)
	return toSaleResponses(list), nil
}

// CreateSale records a sale. When no discount is supplied premium customers
// receive the premium policy discount.
func (s *SalesService) CreateSale(ctx context.Context, req CreateSaleRequest) (*SaleResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "sales", "create",
		telemetry.WithAttribute(telemetry.SpanAttrProductID, req.ProductID),
		telemetry.WithAttribute(telemetry.SpanAttrCustomerID, req.CustomerID),
	)
	defer span.End()

	saleDate := s.opts.clock()
	if req.SaleDate != "" {
		parsed, err := ParseDate(req.SaleDate)
		if err != nil {
			return nil, err
		}
		saleDate = *parsed
	}

	unitPrice := decimal.NewFromFloat(req.UnitPrice).Round(sales.MoneyScale)
	total := unitPrice.Mul(decimal.NewFromInt(int64(req.Quantity)))
	discount := decimal.Zero
	switch {
	case req.Discount != nil:
		discount = decimal.NewFromFloat(*req.Discount)
	case req.IsPremiumCustomer:
		discount = sales.PremiumDiscount(total)
	}

	sale, err := sales.NewSale(sales.SaleParams{
		ProductID:         req.ProductID,
		ProductName:       strings.TrimSpace(req.ProductName),
		Category:          strings.TrimSpace(req.Category),
		Quantity:          req.Quantity,
		UnitPrice:         unitPrice,
		CustomerID:        req.CustomerID,
		CustomerName:      strings.TrimSpace(req.CustomerName),
		IsPremiumCustomer: req.IsPremiumCustomer,
		Discount:          discount,
		PaymentMethod:     strings.TrimSpace(req.PaymentMethod),
		Region:            strings.TrimSpace(req.Region),
		Salesperson:       strings.TrimSpace(req.Salesperson),
		SaleDate:          saleDate,
		Notes:             req.Notes,
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.repo.Save(ctx, sale); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("save sale: %w", err)
	}

	// New sales change every suggestion category.
	if s.opts.cache != nil {
		if err := s.opts.cache.Delete(ctx, allSuggestionsKey); err != nil {
			s.opts.logger.Warn("suggestion cache invalidation failed", zap.Error(err))
		}
	}

	s.opts.metrics.RecordSaleCreated(ctx, sale.Category)
	s.opts.logger.Info("sale recorded",
		zap.String("sale_id", sale.ID),
		zap.Int64("product_id", sale.ProductID),
		zap.String("final_amount", sale.FinalAmount.StringFixed(2)),
	)
	telemetry.SetOK(span)

	resp := toSaleResponse(*sale)
	return &resp, nil
}
