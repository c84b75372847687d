// Package analytics exposes the sales analytics, bill and suggestion use cases.
// Services fetch their inputs once per call, run the pure core and map the
// results to response DTOs.
package analytics

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// MetricsRecorder receives business counters emitted by the services
type MetricsRecorder interface {
	RecordSaleCreated(ctx context.Context, category string)
	RecordBillGenerated(ctx context.Context, period string, lineItems int)
	RecordSuggestions(ctx context.Context, category, priority string, count int)
	RecordComputation(ctx context.Context, operation string, d time.Duration)
}

type noopMetrics struct{}

func (noopMetrics) RecordSaleCreated(context.Context, string)                {}
func (noopMetrics) RecordBillGenerated(context.Context, string, int)         {}
func (noopMetrics) RecordSuggestions(context.Context, string, string, int)   {}
func (noopMetrics) RecordComputation(context.Context, string, time.Duration) {}

type serviceOptions struct {
	logger      *zap.Logger
	metrics     MetricsRecorder
	clock       func() time.Time
	topLimit    int
	billPrefix  string
	billNumbers func() string
	cache       SuggestionCache
}

// Option configures a service
type Option func(*serviceOptions)

// WithLogger sets the service logger
func WithLogger(logger *zap.Logger) Option {
	return func(o *serviceOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics sets the business metrics recorder
func WithMetrics(m MetricsRecorder) Option {
	return func(o *serviceOptions) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithClock overrides the time source
func WithClock(clock func() time.Time) Option {
	return func(o *serviceOptions) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithDefaultTopLimit sets the top-products limit used when none is requested
func WithDefaultTopLimit(limit int) Option {
	return func(o *serviceOptions) {
		if limit > 0 {
			o.topLimit = limit
		}
	}
}

// WithBillNumberPrefix sets the prefix of generated bill numbers
func WithBillNumberPrefix(prefix string) Option {
	return func(o *serviceOptions) {
		if prefix != "" {
			o.billPrefix = prefix
		}
	}
}

// WithBillNumberGenerator replaces the random bill number suffix source
func WithBillNumberGenerator(gen func() string) Option {
	return func(o *serviceOptions) {
		if gen != nil {
			o.billNumbers = gen
		}
	}
}

// WithSuggestionCache enables caching of computed suggestion lists
func WithSuggestionCache(cache SuggestionCache) Option {
	return func(o *serviceOptions) {
		o.cache = cache
	}
}

func newServiceOptions(opts []Option) serviceOptions {
	o := serviceOptions{
		logger:     zap.NewNop(),
		metrics:    noopMetrics{},
		clock:      time.Now,
		billPrefix: "SB-",
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
