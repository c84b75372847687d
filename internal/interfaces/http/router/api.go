package router

import (
	"github.com/apinexus/backend/internal/infrastructure/logger"
	"github.com/apinexus/backend/internal/interfaces/http/handler"
	"github.com/apinexus/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// maxBodyBytes caps JSON request bodies; the largest is a single sale
const maxBodyBytes = 1 << 20

// Handlers are the HTTP handlers mounted by NewEngine
type Handlers struct {
	Sales       *handler.SalesHandler
	Bills       *handler.BillHandler
	Suggestions *handler.SuggestionHandler
	Health      *handler.HealthHandler
}

// EngineConfig selects the cross-cutting middleware of the engine
type EngineConfig struct {
	Logger         *zap.Logger
	CORS           middleware.CORSConfig
	Tracing        middleware.TracingConfig
	Meter          metric.Meter
	RateLimiter    *middleware.RateLimiter
	TrustedProxies []string
}

// NewEngine builds the gin engine with middleware and every API route.
// Order: recovery, request ID, tracing, logging, metrics, security, CORS,
// rate limit.
func NewEngine(cfg EngineConfig, h Handlers) (*gin.Engine, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, err
	}
	middleware.SetupValidator()

	engine.Use(logger.Recovery(log), middleware.RequestID())
	engine.Use(middleware.Tracing(cfg.Tracing)...)
	engine.Use(
		logger.GinMiddleware(log),
		middleware.HTTPMetrics(cfg.Meter, log),
		middleware.Secure(),
		middleware.CORS(cfg.CORS),
	)
	if cfg.RateLimiter != nil {
		engine.Use(middleware.RateLimit(cfg.RateLimiter))
	}

	if h.Health != nil {
		engine.GET("/health", h.Health.Health)
	}

	r := NewRouter(engine)
	r.Register(Groups(h)...)
	r.Setup()
	return engine, nil
}

// Groups returns the route groups of the versioned API
func Groups(h Handlers) []RouteRegistrar {
	var groups []RouteRegistrar

	if h.Sales != nil {
		salesGroup := NewDomainGroup("sales", "/sales").
			GET("", h.Sales.ListSales).
			POST("", middleware.BodyLimit(maxBodyBytes), h.Sales.CreateSale).
			GET("/analytics", h.Sales.GetAnalytics).
			GET("/by-product", h.Sales.GetSalesByProduct).
			GET("/by-category", h.Sales.GetSalesByCategory).
			GET("/by-period", h.Sales.GetSalesByPeriod).
			GET("/top-products", h.Sales.GetTopProducts).
			GET("/region/:region", h.Sales.GetSalesByRegion)
		if h.Suggestions != nil {
			salesGroup.GET("/performance", h.Suggestions.GetProductPerformance)
		}
		groups = append(groups, salesGroup)
	}

	if h.Bills != nil {
		groups = append(groups, NewDomainGroup("bills", "/bills").
			Use(middleware.BodyLimit(maxBodyBytes)).
			POST("/generate-from-sales", h.Bills.GenerateFromSales).
			POST("/generate-from-sales/export", h.Bills.ExportFromSales).
			POST("/generate-from-sales/pdf", h.Bills.PrintFromSales))
	}

	if h.Suggestions != nil {
		groups = append(groups, NewDomainGroup("suggestions", "/suggestions").
			GET("", h.Suggestions.GetAll).
			GET("/inventory", h.Suggestions.GetInventory).
			GET("/pricing", h.Suggestions.GetPricing).
			GET("/marketing", h.Suggestions.GetMarketing).
			GET("/regional", h.Suggestions.GetRegional).
			GET("/bundles", h.Suggestions.GetBundles).
			GET("/high-priority", h.Suggestions.GetHighPriority).
			GET("/export", h.Suggestions.Export))
	}

	if h.Health != nil {
		groups = append(groups, NewDomainGroup("health", "/health").GET("", h.Health.Health))
	}
	return groups
}
