package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/apinexus/backend/internal/application/analytics"
	"github.com/apinexus/backend/internal/interfaces/http/dto"
	"github.com/apinexus/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// ArchiveURLHeader carries the download URL of the archived copy of an export
const ArchiveURLHeader = "X-Archive-URL"

// PDFContentType is the MIME type of printed bills
const PDFContentType = "application/pdf"

// BillPrinter renders a bill as a PDF document
type BillPrinter interface {
	PrintBill(ctx context.Context, bill *analytics.BillResponse) ([]byte, error)
}

// BillHandler generates bills from recorded sales
type BillHandler struct {
	BaseHandler
	service  *analytics.BillService
	exporter *analytics.ExportService
	printer  BillPrinter
}

// BillHandlerOption configures a BillHandler
type BillHandlerOption func(*BillHandler)

// WithBillPrinter enables PDF output
func WithBillPrinter(p BillPrinter) BillHandlerOption {
	return func(h *BillHandler) {
		h.printer = p
	}
}

// NewBillHandler creates a new BillHandler
func NewBillHandler(service *analytics.BillService, exporter *analytics.ExportService, opts ...BillHandlerOption) *BillHandler {
	h := &BillHandler{service: service, exporter: exporter}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// GenerateFromSales handles POST /bills/generate-from-sales
func (h *BillHandler) GenerateFromSales(c *gin.Context) {
	bill, ok := h.generate(c)
	if !ok {
		return
	}
	h.Success(c, bill)
}

// ExportFromSales handles POST /bills/generate-from-sales/export and
// answers with an xlsx attachment
func (h *BillHandler) ExportFromSales(c *gin.Context) {
	bill, ok := h.generate(c)
	if !ok {
		return
	}
	data, err := h.exporter.ExportBill(bill)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if u := h.exporter.Archive(c.Request.Context(), "bills/"+bill.BillNumber+".xlsx", data); u != "" {
		c.Header(ArchiveURLHeader, u)
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.xlsx"`, bill.BillNumber))
	c.Data(http.StatusOK, analytics.XLSXContentType, data)
}

// PrintFromSales handles POST /bills/generate-from-sales/pdf
func (h *BillHandler) PrintFromSales(c *gin.Context) {
	if h.printer == nil {
		h.Error(c, http.StatusServiceUnavailable, dto.ErrCodeServiceDown, "PDF printing is not enabled")
		return
	}
	bill, ok := h.generate(c)
	if !ok {
		return
	}
	data, err := h.printer.PrintBill(c.Request.Context(), bill)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="%s.pdf"`, bill.BillNumber))
	c.Data(http.StatusOK, PDFContentType, data)
}

func (h *BillHandler) generate(c *gin.Context) (*analytics.BillResponse, bool) {
	var req analytics.GenerateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return nil, false
	}
	bill, err := h.service.GenerateBillFromSales(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return nil, false
	}
	return bill, true
}
