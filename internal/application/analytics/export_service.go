package analytics

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// XLSXContentType is the MIME type of exported workbooks
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	billSheet       = "Bill"
	suggestionSheet = "Suggestions"
)

// ExportArchive keeps a copy of every exported workbook
type ExportArchive interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	DownloadURL(ctx context.Context, key string) (string, error)
}

// ExportService renders bills and suggestions as xlsx workbooks
type ExportService struct {
	archive ExportArchive
	logger  *zap.Logger
}

// ExportOption configures an ExportService
type ExportOption func(*ExportService)

// WithArchive stores every rendered workbook in archive
func WithArchive(archive ExportArchive) ExportOption {
	return func(s *ExportService) {
		s.archive = archive
	}
}

// WithExportLogger sets the logger used to report archive failures
func WithExportLogger(logger *zap.Logger) ExportOption {
	return func(s *ExportService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewExportService creates a new ExportService
func NewExportService(opts ...ExportOption) *ExportService {
	s := &ExportService{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Archive uploads a rendered workbook and returns a download URL for it.
// Without an archive, or when the upload fails, it returns "". Archive
// failures are logged and never fail the export itself.
func (s *ExportService) Archive(ctx context.Context, key string, data []byte) string {
	if s.archive == nil {
		return ""
	}
	if err := s.archive.Upload(ctx, key, data, XLSXContentType); err != nil {
		s.logger.Warn("Export archive upload failed", zap.String("key", key), zap.Error(err))
		return ""
	}
	u, err := s.archive.DownloadURL(ctx, key)
	if err != nil {
		s.logger.Warn("Export archive URL failed", zap.String("key", key), zap.Error(err))
		return ""
	}
	return u
}

// ExportBill writes the bill header, its line items and totals to a workbook
func (s *ExportService) ExportBill(bill *BillResponse) ([]byte, error) {
	if bill == nil {
		return nil, fmt.Errorf("export bill: nil bill")
	}

	f, err := newWorkbook(billSheet)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	header := [][]interface{}{
		{"Bill Number", bill.BillNumber},
		{"Period", bill.Period},
		{"From", bill.PeriodStartDate},
		{"To", bill.PeriodEndDate},
		{"Generated", bill.GeneratedDate.Format("2006-01-02 15:04:05")},
	}
	if bill.CustomerID != nil {
		header = append(header, []interface{}{"Customer", fmt.Sprintf("%s (#%d)", bill.CustomerName, *bill.CustomerID)})
	}

	row := 1
	for _, values := range header {
		if err := setRow(f, billSheet, row, values); err != nil {
			return nil, err
		}
		row++
	}

	row++
	itemHeaderRow := row
	if err := setRow(f, billSheet, row, []interface{}{"Product", "Quantity", "Unit Price", "Subtotal", "Discount", "Total"}); err != nil {
		return nil, err
	}
	for _, it := range bill.Items {
		row++
		if err := setRow(f, billSheet, row, []interface{}{it.ProductName, it.Quantity, it.UnitPrice, it.Subtotal, it.Discount, it.Total}); err != nil {
			return nil, err
		}
	}

	row++
	totals := [][]interface{}{
		{"Subtotal", bill.Subtotal},
		{"Total Discount", bill.TotalDiscount},
		{"Taxable Amount", bill.TaxableAmount},
		{fmt.Sprintf("Tax (%.0f%%)", bill.TaxRate*100), bill.TaxAmount},
		{"Grand Total", bill.GrandTotal},
		{"Transactions", bill.TotalTransactions},
		{"Items Sold", bill.TotalItemsSold},
		{"Payment Method", bill.PaymentMethod},
	}
	for _, values := range totals {
		row++
		if err := setRow(f, billSheet, row, values); err != nil {
			return nil, err
		}
	}

	if err := boldRow(f, billSheet, itemHeaderRow, 6); err != nil {
		return nil, err
	}
	return writeWorkbook(f)
}

// ExportSuggestions writes one row per suggestion
func (s *ExportService) ExportSuggestions(list []SuggestionResponse) ([]byte, error) {
	f, err := newWorkbook(suggestionSheet)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	columns := []interface{}{"Category", "Priority", "Title", "Description", "Action", "Impact", "Metric", "Current", "Potential"}
	if err := setRow(f, suggestionSheet, 1, columns); err != nil {
		return nil, err
	}
	for i, sg := range list {
		values := []interface{}{
			sg.Category, sg.Priority.String(), sg.Title, sg.Description, sg.Actionable,
			sg.ImpactScore, sg.Metric, sg.CurrentValue, sg.PotentialValue,
		}
		if err := setRow(f, suggestionSheet, i+2, values); err != nil {
			return nil, err
		}
	}

	if err := boldRow(f, suggestionSheet, 1, len(columns)); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(suggestionSheet, "C", "E", 48); err != nil {
		return nil, fmt.Errorf("export suggestions: %w", err)
	}
	return writeWorkbook(f)
}

func newWorkbook(sheet string) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("create workbook: %w", err)
	}
	return f, nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}

func boldRow(f *excelize.File, sheet string, row, columns int) error {
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	first, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(columns, row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, first, last, style)
}

func writeWorkbook(f *excelize.File) ([]byte, error) {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
