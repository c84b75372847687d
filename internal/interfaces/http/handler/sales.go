package handler

import (
	"github.com/apinexus/backend/internal/application/analytics"
	"github.com/apinexus/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// SalesHandler serves sale records and analytics rollups
type SalesHandler struct {
	BaseHandler
	service *analytics.SalesService
}

// NewSalesHandler creates a new SalesHandler
func NewSalesHandler(service *analytics.SalesService) *SalesHandler {
	return &SalesHandler{service: service}
}

// ListSales handles GET /sales
func (h *SalesHandler) ListSales(c *gin.Context) {
	h.withRange(c, func(r analytics.DateRange) (any, error) {
		return h.service.ListSales(c.Request.Context(), r)
	})
}

// CreateSale handles POST /sales
func (h *SalesHandler) CreateSale(c *gin.Context) {
	var req analytics.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	sale, err := h.service.CreateSale(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, sale)
}

// GetAnalytics handles GET /sales/analytics
func (h *SalesHandler) GetAnalytics(c *gin.Context) {
	h.withRange(c, func(r analytics.DateRange) (any, error) {
		return h.service.GetAnalytics(c.Request.Context(), r)
	})
}

// GetSalesByProduct handles GET /sales/by-product
func (h *SalesHandler) GetSalesByProduct(c *gin.Context) {
	h.withRange(c, func(r analytics.DateRange) (any, error) {
		return h.service.GetSalesByProduct(c.Request.Context(), r)
	})
}

// GetSalesByCategory handles GET /sales/by-category
func (h *SalesHandler) GetSalesByCategory(c *gin.Context) {
	h.withRange(c, func(r analytics.DateRange) (any, error) {
		return h.service.GetSalesByCategory(c.Request.Context(), r)
	})
}

// GetSalesByPeriod handles GET /sales/by-period?period=daily|weekly|monthly|yearly
func (h *SalesHandler) GetSalesByPeriod(c *gin.Context) {
	period := c.DefaultQuery("period", "daily")
	h.withRange(c, func(r analytics.DateRange) (any, error) {
		return h.service.GetSalesByTimePeriod(c.Request.Context(), period, r)
	})
}

// GetTopProducts handles GET /sales/top-products?limit=N
func (h *SalesHandler) GetTopProducts(c *gin.Context) {
	limit, err := h.queryInt(c, "limit", 0)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.withRange(c, func(r analytics.DateRange) (any, error) {
		return h.service.GetTopSellingProducts(c.Request.Context(), limit, r)
	})
}

// GetSalesByRegion handles GET /sales/region/:region
func (h *SalesHandler) GetSalesByRegion(c *gin.Context) {
	list, err := h.service.GetSalesByRegion(c.Request.Context(), c.Param("region"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, list)
}

func (h *SalesHandler) withRange(c *gin.Context, fn func(analytics.DateRange) (any, error)) {
	r, err := h.bindDateRange(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	data, err := fn(r)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, data)
}
