package telemetry

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewAnalyticsMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}

// StockSnapshotter provides current stock levels for periodic gauge collection.
type StockSnapshotter interface {
	Snapshot(ctx context.Context) (map[int64]int, error)
}

// AnalyticsMetricsConfig holds configuration for analytics metrics.
type AnalyticsMetricsConfig struct {
	Meter             metric.Meter
	Logger            *zap.Logger
	Stock             StockSnapshotter
	LowStockThreshold int // Default: 10
}

// AnalyticsMetrics records business counters for sales, bills and suggestions
// and periodically samples how many products are running low on stock.
type AnalyticsMetrics struct {
	logger *zap.Logger
	stock  StockSnapshotter
	lowAt  int

	salesCreated   *Counter
	billsGenerated *Counter
	billLineItems  *Counter
	suggestions    *Counter
	computation    *Histogram
	lowStock       *Gauge

	stopCh      chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once
	wg          sync.WaitGroup
}

// NewAnalyticsMetrics creates the instruments on the given meter.
func NewAnalyticsMetrics(cfg AnalyticsMetricsConfig) (*AnalyticsMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	lowAt := cfg.LowStockThreshold
	if lowAt <= 0 {
		lowAt = 10
	}

	am := &AnalyticsMetrics{
		logger: logger,
		stock:  cfg.Stock,
		lowAt:  lowAt,
		stopCh: make(chan struct{}),
	}

	var err error
	if am.salesCreated, err = NewCounter(cfg.Meter,
		"sales_created_total", "Total number of recorded sales", "{sales}"); err != nil {
		return nil, err
	}
	if am.billsGenerated, err = NewCounter(cfg.Meter,
		"bills_generated_total", "Total number of bills derived from sales", "{bills}"); err != nil {
		return nil, err
	}
	if am.billLineItems, err = NewCounter(cfg.Meter,
		"bill_line_items_total", "Total number of line items across generated bills", "{items}"); err != nil {
		return nil, err
	}
	if am.suggestions, err = NewCounter(cfg.Meter,
		"suggestions_generated_total", "Total number of business suggestions produced", "{suggestions}"); err != nil {
		return nil, err
	}
	if am.computation, err = NewHistogram(cfg.Meter, HistogramOpts{
		Name:        "analytics_computation_duration_seconds",
		Description: "Duration of analytics computations including input fetch",
		Unit:        "s",
		Boundaries:  ComputationBuckets,
	}); err != nil {
		return nil, err
	}
	if am.lowStock, err = NewGauge(cfg.Meter,
		"inventory_low_stock_products", "Number of products at or below the low stock threshold", "{products}"); err != nil {
		return nil, err
	}

	return am, nil
}

// RecordSaleCreated counts a newly recorded sale.
func (am *AnalyticsMetrics) RecordSaleCreated(ctx context.Context, category string) {
	am.salesCreated.Inc(ctx, AttrCategory.String(category))
}

// RecordBillGenerated counts a bill and its line items.
func (am *AnalyticsMetrics) RecordBillGenerated(ctx context.Context, period string, lineItems int) {
	am.billsGenerated.Inc(ctx, AttrPeriod.String(period))
	am.billLineItems.Add(ctx, int64(lineItems), AttrPeriod.String(period))
}

// RecordSuggestions counts suggestions of one category and priority.
func (am *AnalyticsMetrics) RecordSuggestions(ctx context.Context, category, priority string, count int) {
	if count <= 0 {
		return
	}
	am.suggestions.Add(ctx, int64(count),
		AttrCategory.String(category),
		AttrPriority.String(priority),
	)
}

// RecordComputation records how long an analytics operation took.
func (am *AnalyticsMetrics) RecordComputation(ctx context.Context, operation string, d time.Duration) {
	am.computation.RecordDuration(ctx, d, AttrOperation.String(operation))
}

// StartPeriodicCollection samples the low-stock gauge every interval until
// ctx is cancelled or Stop is called. It is a no-op without a stock source.
func (am *AnalyticsMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	if am.stock == nil {
		am.logger.Debug("No stock source configured, skipping low stock collection")
		return
	}
	am.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}
		am.wg.Add(1)
		go am.runPeriodicCollection(ctx, interval)
	})
}

func (am *AnalyticsMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration) {
	defer am.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	am.CollectLowStock(ctx)
	for {
		select {
		case <-am.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			am.CollectLowStock(ctx)
		}
	}
}

// CollectLowStock takes one stock snapshot and records the low-stock count.
func (am *AnalyticsMetrics) CollectLowStock(ctx context.Context) {
	if am.stock == nil {
		return
	}
	snapshot, err := am.stock.Snapshot(ctx)
	if err != nil {
		am.logger.Warn("Failed to snapshot stock for metrics", zap.Error(err))
		return
	}
	var low int64
	for _, qty := range snapshot {
		if qty <= am.lowAt {
			low++
		}
	}
	am.lowStock.Record(ctx, low)
}

// Stop stops the periodic collection. Safe to call multiple times.
func (am *AnalyticsMetrics) Stop() {
	am.stopOnce.Do(func() {
		close(am.stopCh)
		am.wg.Wait()
	})
}
