package printing

import (
	"context"

	"github.com/apinexus/backend/internal/application/analytics"
)

// PDFRenderer converts a full HTML document to PDF bytes
type PDFRenderer interface {
	RenderPDF(ctx context.Context, html string) ([]byte, error)
}

// BillPrinter produces printable PDF bills
type BillPrinter struct {
	renderer PDFRenderer
}

// NewBillPrinter creates a BillPrinter on top of renderer
func NewBillPrinter(renderer PDFRenderer) *BillPrinter {
	return &BillPrinter{renderer: renderer}
}

// PrintBill renders bill to PDF
func (p *BillPrinter) PrintBill(ctx context.Context, bill *analytics.BillResponse) ([]byte, error) {
	html, err := BillHTML(bill)
	if err != nil {
		return nil, err
	}
	return p.renderer.RenderPDF(ctx, html)
}

var _ PDFRenderer = (*ChromedpRenderer)(nil)
