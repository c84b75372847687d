package analytics

import (
	"context"
	"fmt"
	"time"

	domain "github.com/apinexus/backend/internal/domain/analytics"
	"github.com/apinexus/backend/internal/domain/sales"
	"github.com/apinexus/backend/internal/domain/shared"
	"github.com/apinexus/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// allSuggestionsKey is the cache key of the full ordered suggestion list
const allSuggestionsKey = "suggestions:all"

// SuggestionCache stores computed suggestion lists
type SuggestionCache interface {
	Get(ctx context.Context, key string) ([]domain.Suggestion, bool, error)
	Set(ctx context.Context, key string, list []domain.Suggestion) error
	Delete(ctx context.Context, key string) error
}

// SuggestionService computes business suggestions and product performance
type SuggestionService struct {
	sales sales.SaleRepository
	stock sales.StockProvider
	opts  serviceOptions
}

// NewSuggestionService creates a new SuggestionService
func NewSuggestionService(salesRepo sales.SaleRepository, stock sales.StockProvider, opts ...Option) *SuggestionService {
	return &SuggestionService{
		sales: salesRepo,
		stock: stock,
		opts:  newServiceOptions(opts),
	}
}

// loadInput reads all sales and the stock snapshot in parallel
func (s *SuggestionService) loadInput(ctx context.Context) (domain.SuggestionInput, error) {
	var (
		list     []sales.Sale
		snapshot map[int64]int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		list, err = s.sales.FindAll(gctx, sales.SaleFilter{})
		if err != nil {
			return fmt.Errorf("load sales: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		snapshot, err = s.stock.Snapshot(gctx)
		if err != nil {
			return fmt.Errorf("load stock snapshot: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.SuggestionInput{}, err
	}

	return domain.SuggestionInput{
		Sales: list,
		Stock: snapshot,
		Now:   s.opts.clock(),
	}, nil
}

// suggestions returns the globally ordered list, from cache when possible
func (s *SuggestionService) suggestions(ctx context.Context) ([]domain.Suggestion, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "suggestion", "compute")
	defer span.End()

	if s.opts.cache != nil {
		cached, ok, err := s.opts.cache.Get(ctx, allSuggestionsKey)
		if err != nil {
			s.opts.logger.Warn("suggestion cache read failed", zap.Error(err))
		} else if ok {
			telemetry.SetAttribute(span, telemetry.SpanAttrCacheHit, true)
			telemetry.SetOK(span)
			return cached, nil
		}
	}

	list, saleCount, err := s.compute(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrCacheHit, false,
		telemetry.SpanAttrSaleCount, saleCount,
		telemetry.SpanAttrSuggestionCount, len(list),
	)
	telemetry.SetOK(span)
	return list, nil
}

// RefreshSuggestions recomputes the suggestion list and overwrites the cached
// copy. Without a cache it only reports how many suggestions were produced.
func (s *SuggestionService) RefreshSuggestions(ctx context.Context) (int, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "suggestion", "refresh")
	defer span.End()

	list, _, err := s.compute(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return 0, err
	}
	telemetry.SetAttribute(span, telemetry.SpanAttrSuggestionCount, len(list))
	telemetry.SetOK(span)
	return len(list), nil
}

// compute runs the suggestion engine on fresh inputs and stores the result
func (s *SuggestionService) compute(ctx context.Context) ([]domain.Suggestion, int, error) {
	in, err := s.loadInput(ctx)
	if err != nil {
		return nil, 0, err
	}

	started := time.Now()
	list := domain.Suggest(in)
	s.opts.metrics.RecordComputation(ctx, "suggestion.compute", time.Since(started))
	s.recordCounts(ctx, list)

	if s.opts.cache != nil {
		if err := s.opts.cache.Set(ctx, allSuggestionsKey, list); err != nil {
			s.opts.logger.Warn("suggestion cache write failed", zap.Error(err))
		}
	}

	s.opts.logger.Debug("suggestions computed",
		zap.Int("sales", len(in.Sales)),
		zap.Int("products_in_stock", len(in.Stock)),
		zap.Int("suggestions", len(list)),
	)
	return list, len(in.Sales), nil
}

func (s *SuggestionService) recordCounts(ctx context.Context, list []domain.Suggestion) {
	type key struct {
		category domain.SuggestionCategory
		priority domain.Priority
	}
	counts := make(map[key]int)
	order := make([]key, 0)
	for _, sg := range list {
		k := key{sg.Category, sg.Priority}
		if _, ok := counts[k]; !ok {
			order = append(order, k)
		}
		counts[k]++
	}
	for _, k := range order {
		s.opts.metrics.RecordSuggestions(ctx, string(k.category), k.priority.String(), counts[k])
	}
}

func (s *SuggestionService) view(ctx context.Context, category *domain.SuggestionCategory, priority *domain.Priority) ([]SuggestionResponse, error) {
	list, err := s.suggestions(ctx)
	if err != nil {
		return nil, err
	}
	return toSuggestionResponses(domain.FilterSuggestions(list, category, priority)), nil
}

func (s *SuggestionService) categoryView(ctx context.Context, c domain.SuggestionCategory) ([]SuggestionResponse, error) {
	return s.view(ctx, &c, nil)
}

// GetAllSuggestions returns the ordered suggestion list narrowed by the filter
func (s *SuggestionService) GetAllSuggestions(ctx context.Context, filter SuggestionFilter) ([]SuggestionResponse, error) {
	var (
		category *domain.SuggestionCategory
		priority *domain.Priority
	)
	if filter.Category != "" {
		c, err := domain.ParseSuggestionCategory(filter.Category)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
		}
		category = &c
	}
	if filter.Priority != "" {
		p, err := domain.ParsePriority(filter.Priority)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
		}
		priority = &p
	}
	return s.view(ctx, category, priority)
}

// GetInventorySuggestions returns restock and clearance suggestions
func (s *SuggestionService) GetInventorySuggestions(ctx context.Context) ([]SuggestionResponse, error) {
	return s.categoryView(ctx, domain.CategoryInventory)
}

// GetPricingSuggestions returns discount and price test suggestions
func (s *SuggestionService) GetPricingSuggestions(ctx context.Context) ([]SuggestionResponse, error) {
	return s.categoryView(ctx, domain.CategoryPricing)
}

// GetMarketingSuggestions returns customer targeting suggestions
func (s *SuggestionService) GetMarketingSuggestions(ctx context.Context) ([]SuggestionResponse, error) {
	return s.categoryView(ctx, domain.CategoryMarketing)
}

// GetRegionalSuggestions returns regional performance suggestions
func (s *SuggestionService) GetRegionalSuggestions(ctx context.Context) ([]SuggestionResponse, error) {
	return s.categoryView(ctx, domain.CategoryRegional)
}

// GetBundlingSuggestions returns product bundle suggestions
func (s *SuggestionService) GetBundlingSuggestions(ctx context.Context) ([]SuggestionResponse, error) {
	return s.categoryView(ctx, domain.CategoryProduct)
}

// GetHighPrioritySuggestions returns only HIGH priority suggestions
func (s *SuggestionService) GetHighPrioritySuggestions(ctx context.Context) ([]SuggestionResponse, error) {
	high := domain.PriorityHigh
	return s.view(ctx, nil, &high)
}

// GetProductPerformance classifies every sold product
func (s *SuggestionService) GetProductPerformance(ctx context.Context) ([]ProductPerformanceResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "suggestion", "performance")
	defer span.End()

	list, err := s.sales.FindAll(ctx, sales.SaleFilter{})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("load sales: %w", err)
	}
	telemetry.SetOK(span)
	return toPerformanceResponses(domain.ClassifyProducts(list, s.opts.clock())), nil
}
