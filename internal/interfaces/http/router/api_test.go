package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/apinexus/backend/internal/application/analytics"
	"github.com/apinexus/backend/internal/domain/sales"
	"github.com/apinexus/backend/internal/interfaces/http/handler"
	"github.com/apinexus/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type emptyRepo struct{}

func (emptyRepo) FindAll(context.Context, sales.SaleFilter) ([]sales.Sale, error) { return nil, nil }
func (emptyRepo) FindByDateRange(context.Context, time.Time, time.Time) ([]sales.Sale, error) {
	return nil, nil
}
func (emptyRepo) FindByRegion(context.Context, string) ([]sales.Sale, error) { return nil, nil }
func (emptyRepo) Save(context.Context, *sales.Sale) error                    { return nil }

type emptyStock struct{}

func (emptyStock) CurrentStock(context.Context, int64) (int, error)   { return 0, nil }
func (emptyStock) Snapshot(context.Context) (map[int64]int, error) { return map[int64]int{}, nil }

func newTestHandlers() Handlers {
	repo := emptyRepo{}
	exporter := analytics.NewExportService()
	return Handlers{
		Sales:       handler.NewSalesHandler(analytics.NewSalesService(repo)),
		Bills:       handler.NewBillHandler(analytics.NewBillService(repo), exporter),
		Suggestions: handler.NewSuggestionHandler(analytics.NewSuggestionService(repo, emptyStock{}), exporter),
		Health:      handler.NewHealthHandler(nil, "test"),
	}
}

func TestNewEngine_RegistersRoutes(t *testing.T) {
	engine, err := NewEngine(EngineConfig{CORS: middleware.DefaultCORSConfig()}, newTestHandlers())
	require.NoError(t, err)

	registered := map[string]bool{}
	for _, ri := range engine.Routes() {
		registered[ri.Method+" "+ri.Path] = true
	}

	want := []string{
		"GET /health",
		"GET /api/v1/health",
		"GET /api/v1/sales",
		"POST /api/v1/sales",
		"GET /api/v1/sales/analytics",
		"GET /api/v1/sales/by-product",
		"GET /api/v1/sales/by-category",
		"GET /api/v1/sales/by-period",
		"GET /api/v1/sales/top-products",
		"GET /api/v1/sales/region/:region",
		"GET /api/v1/sales/performance",
		"POST /api/v1/bills/generate-from-sales",
		"POST /api/v1/bills/generate-from-sales/export",
		"POST /api/v1/bills/generate-from-sales/pdf",
		"GET /api/v1/suggestions",
		"GET /api/v1/suggestions/inventory",
		"GET /api/v1/suggestions/pricing",
		"GET /api/v1/suggestions/marketing",
		"GET /api/v1/suggestions/regional",
		"GET /api/v1/suggestions/bundles",
		"GET /api/v1/suggestions/high-priority",
		"GET /api/v1/suggestions/export",
	}
	for _, route := range want {
		assert.True(t, registered[route], "missing route %s", route)
	}
}

func TestNewEngine_ServesRequests(t *testing.T) {
	limiter := middleware.NewRateLimiter(2, time.Hour)
	defer limiter.Stop()

	engine, err := NewEngine(EngineConfig{
		CORS:        middleware.DefaultCORSConfig(),
		RateLimiter: limiter,
	}, newTestHandlers())
	require.NoError(t, err)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/sales/analytics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}
