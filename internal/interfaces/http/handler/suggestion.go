package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/apinexus/backend/internal/application/analytics"
	"github.com/gin-gonic/gin"
)

// SuggestionHandler serves business suggestions and product performance
type SuggestionHandler struct {
	BaseHandler
	service  *analytics.SuggestionService
	exporter *analytics.ExportService
}

// NewSuggestionHandler creates a new SuggestionHandler
func NewSuggestionHandler(service *analytics.SuggestionService, exporter *analytics.ExportService) *SuggestionHandler {
	return &SuggestionHandler{service: service, exporter: exporter}
}

// GetAll handles GET /suggestions?category=&priority=
func (h *SuggestionHandler) GetAll(c *gin.Context) {
	list, err := h.filtered(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, list)
}

// Export handles GET /suggestions/export with the same filters as GetAll
func (h *SuggestionHandler) Export(c *gin.Context) {
	list, err := h.filtered(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	data, err := h.exporter.ExportSuggestions(list)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	key := "suggestions/" + time.Now().UTC().Format("20060102T150405Z") + ".xlsx"
	if u := h.exporter.Archive(c.Request.Context(), key, data); u != "" {
		c.Header(ArchiveURLHeader, u)
	}
	c.Header("Content-Disposition", `attachment; filename="suggestions.xlsx"`)
	c.Data(http.StatusOK, analytics.XLSXContentType, data)
}

// GetInventory handles GET /suggestions/inventory
func (h *SuggestionHandler) GetInventory(c *gin.Context) {
	h.respond(c, h.service.GetInventorySuggestions)
}

// GetPricing handles GET /suggestions/pricing
func (h *SuggestionHandler) GetPricing(c *gin.Context) {
	h.respond(c, h.service.GetPricingSuggestions)
}

// GetMarketing handles GET /suggestions/marketing
func (h *SuggestionHandler) GetMarketing(c *gin.Context) {
	h.respond(c, h.service.GetMarketingSuggestions)
}

// GetRegional handles GET /suggestions/regional
func (h *SuggestionHandler) GetRegional(c *gin.Context) {
	h.respond(c, h.service.GetRegionalSuggestions)
}

// GetBundles handles GET /suggestions/bundles
func (h *SuggestionHandler) GetBundles(c *gin.Context) {
	h.respond(c, h.service.GetBundlingSuggestions)
}

// GetHighPriority handles GET /suggestions/high-priority
func (h *SuggestionHandler) GetHighPriority(c *gin.Context) {
	h.respond(c, h.service.GetHighPrioritySuggestions)
}

// GetProductPerformance handles GET /sales/performance
func (h *SuggestionHandler) GetProductPerformance(c *gin.Context) {
	list, err := h.service.GetProductPerformance(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, list)
}

func (h *SuggestionHandler) filtered(c *gin.Context) ([]analytics.SuggestionResponse, error) {
	filter := analytics.SuggestionFilter{
		Category: c.Query("category"),
		Priority: c.Query("priority"),
	}
	return h.service.GetAllSuggestions(c.Request.Context(), filter)
}

func (h *SuggestionHandler) respond(c *gin.Context, fn func(context.Context) ([]analytics.SuggestionResponse, error)) {
	list, err := fn(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, list)
}
