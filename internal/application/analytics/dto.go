package analytics

import (
	"fmt"
	"strings"
	"time"

	domain "github.com/apinexus/backend/internal/domain/analytics"
	"github.com/apinexus/backend/internal/domain/sales"
	"github.com/apinexus/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DateRange is an optional sale date window. It only applies when both
// bounds are present.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// Complete reports whether both bounds are set
func (r DateRange) Complete() bool {
	return r.Start != nil && r.End != nil
}

// ParseDate accepts RFC3339 timestamps or plain YYYY-MM-DD dates.
// An empty string yields nil.
func ParseDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, value, time.Local)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("invalid date %q, expected YYYY-MM-DD or RFC3339", value))
	}
	return &t, nil
}

// ParseEndDate is ParseDate but a plain date is moved to the end of that day
func ParseEndDate(value string) (*time.Time, error) {
	t, err := ParseDate(value)
	if err != nil || t == nil {
		return t, err
	}
	if !strings.Contains(value, "T") {
		y, m, d := t.Date()
		end := time.Date(y, m, d, 23, 59, 59, 0, t.Location())
		return &end, nil
	}
	return t, nil
}

// ===================== Sales =====================

// SaleResponse is a single sale record
type SaleResponse struct {
	ID                string    `json:"id"`
	ProductID         int64     `json:"product_id"`
	ProductName       string    `json:"product_name"`
	Category          string    `json:"category"`
	Quantity          int       `json:"quantity"`
	UnitPrice         float64   `json:"unit_price"`
	TotalPrice        float64   `json:"total_price"`
	CustomerID        int64     `json:"customer_id"`
	CustomerName      string    `json:"customer_name"`
	IsPremiumCustomer bool      `json:"is_premium_customer"`
	DiscountApplied   float64   `json:"discount_applied"`
	FinalAmount       float64   `json:"final_amount"`
	PaymentMethod     string    `json:"payment_method"`
	Region            string    `json:"region"`
	Salesperson       string    `json:"salesperson"`
	SaleDate          time.Time `json:"sale_date"`
	Notes             string    `json:"notes,omitempty"`
}

// CreateSaleRequest records a new sale. Discount is optional; when omitted
// premium customers get the premium policy discount and others none.
type CreateSaleRequest struct {
	ProductID         int64    `json:"product_id" binding:"required,gt=0"`
	ProductName       string   `json:"product_name" binding:"required,max=200"`
	Category          string   `json:"category" binding:"required,max=100"`
	Quantity          int      `json:"quantity" binding:"required,min=1"`
	UnitPrice         float64  `json:"unit_price" binding:"gte=0"`
	CustomerID        int64    `json:"customer_id" binding:"required,gt=0"`
	CustomerName      string   `json:"customer_name" binding:"required,max=200"`
	IsPremiumCustomer bool     `json:"is_premium_customer"`
	Discount          *float64 `json:"discount" binding:"omitempty,gte=0"`
	PaymentMethod     string   `json:"payment_method" binding:"required,max=50"`
	Region            string   `json:"region" binding:"required,max=100"`
	Salesperson       string   `json:"salesperson" binding:"max=100"`
	SaleDate          string   `json:"sale_date"`
	Notes             string   `json:"notes" binding:"max=1000"`
}

// SalesAnalyticsResponse is the analytics overview
type SalesAnalyticsResponse struct {
	TotalRevenue         float64 `json:"total_revenue"`
	TotalSales           int     `json:"total_sales"`
	TotalQuantitySold    int     `json:"total_quantity_sold"`
	AverageOrderValue    float64 `json:"average_order_value"`
	TotalDiscounts       float64 `json:"total_discounts"`
	PremiumCustomerSales int     `json:"premium_customer_sales"`
	RegularCustomerSales int     `json:"regular_customer_sales"`
}

// ProductSalesResponse is a product rollup
type ProductSalesResponse struct {
	ProductID        int64   `json:"product_id"`
	ProductName      string  `json:"product_name"`
	Category         string  `json:"category"`
	TotalQuantity    int     `json:"total_quantity"`
	TotalRevenue     float64 `json:"total_revenue"`
	SalesCount       int     `json:"sales_count"`
	AverageUnitPrice float64 `json:"average_unit_price"`
}

// CategorySalesResponse is a category rollup
type CategorySalesResponse struct {
	Category      string  `json:"category"`
	TotalQuantity int     `json:"total_quantity"`
	TotalRevenue  float64 `json:"total_revenue"`
	SalesCount    int     `json:"sales_count"`
}

// PeriodSalesResponse is a period rollup
type PeriodSalesResponse struct {
	Period     string  `json:"period"`
	Revenue    float64 `json:"revenue"`
	SalesCount int     `json:"sales_count"`
	Quantity   int     `json:"quantity"`
}

// ProductPerformanceResponse is the performance view of one product
type ProductPerformanceResponse struct {
	ProductID          int64   `json:"product_id"`
	ProductName        string  `json:"product_name"`
	Category           string  `json:"category"`
	SalesCount         int     `json:"sales_count"`
	TotalQuantitySold  int     `json:"total_quantity_sold"`
	TotalRevenue       float64 `json:"total_revenue"`
	AvgOrderValue      float64 `json:"avg_order_value"`
	AvgUnitPrice       float64 `json:"avg_unit_price"`
	DaysSinceFirstSale int     `json:"days_since_first_sale"`
	DaysSinceLastSale  int     `json:"days_since_last_sale"`
	VelocityScore      float64 `json:"velocity_score"`
	PerformanceStatus  string  `json:"performance_status"`
}

// ===================== Bills =====================

// GenerateBillRequest asks for a bill over a period, optionally for one customer
type GenerateBillRequest struct {
	Period       string `json:"period" binding:"required"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	CustomerID   *int64 `json:"customer_id"`
	CustomerName string `json:"customer_name"`
}

// BillLineItemResponse is one bill line
type BillLineItemResponse struct {
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Subtotal    float64 `json:"subtotal"`
	Discount    float64 `json:"discount"`
	Total       float64 `json:"total"`
}

// BillResponse is a generated bill
type BillResponse struct {
	BillNumber        string                 `json:"bill_number"`
	GeneratedDate     time.Time              `json:"generated_date"`
	Period            string                 `json:"period"`
	PeriodStartDate   string                 `json:"period_start_date"`
	PeriodEndDate     string                 `json:"period_end_date"`
	CustomerName      string                 `json:"customer_name,omitempty"`
	CustomerID        *int64                 `json:"customer_id,omitempty"`
	Items             []BillLineItemResponse `json:"items"`
	Subtotal          float64                `json:"subtotal"`
	TotalDiscount     float64                `json:"total_discount"`
	TaxableAmount     float64                `json:"taxable_amount"`
	TaxRate           float64                `json:"tax_rate"`
	TaxAmount         float64                `json:"tax_amount"`
	GrandTotal        float64                `json:"grand_total"`
	TotalTransactions int                    `json:"total_transactions"`
	TotalItemsSold    int                    `json:"total_items_sold"`
	PaymentMethod     string                 `json:"payment_method"`
}

// ===================== Suggestions =====================

// SuggestionFilter selects a view of the suggestion list. Empty fields match all.
type SuggestionFilter struct {
	Category string `form:"category"`
	Priority string `form:"priority"`
}

// SuggestionResponse is one business suggestion
type SuggestionResponse struct {
	Category       string          `json:"category"`
	Priority       domain.Priority `json:"priority"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Actionable     string          `json:"actionable"`
	ImpactScore    float64         `json:"impact_score"`
	Metric         string          `json:"metric"`
	CurrentValue   float64         `json:"current_value"`
	PotentialValue float64         `json:"potential_value"`
}

// ===================== Mapping =====================

// toFloat64 rounds a decimal to 2 places for presentation
func toFloat64(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

func round2(f float64) float64 {
	return toFloat64(decimal.NewFromFloat(f))
}

func toSaleResponse(s sales.Sale) SaleResponse {
	return SaleResponse{
		ID:                s.ID,
		ProductID:         s.ProductID,
		ProductName:       s.ProductName,
		Category:          s.Category,
		Quantity:          s.Quantity,
		UnitPrice:         toFloat64(s.UnitPrice),
		TotalPrice:        toFloat64(s.TotalPrice),
		CustomerID:        s.CustomerID,
		CustomerName:      s.CustomerName,
		IsPremiumCustomer: s.IsPremiumCustomer,
		DiscountApplied:   toFloat64(s.DiscountApplied),
		FinalAmount:       toFloat64(s.FinalAmount),
		PaymentMethod:     s.PaymentMethod,
		Region:            s.Region,
		Salesperson:       s.Salesperson,
		SaleDate:          s.SaleDate,
		Notes:             s.Notes,
	}
}

func toSaleResponses(list []sales.Sale) []SaleResponse {
	out := make([]SaleResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toSaleResponse(s))
	}
	return out
}

func toProductSalesResponses(rollups []domain.ProductRollup) []ProductSalesResponse {
	out := make([]ProductSalesResponse, 0, len(rollups))
	for _, r := range rollups {
		out = append(out, ProductSalesResponse{
			ProductID:        r.ProductID,
			ProductName:      r.ProductName,
			Category:         r.Category,
			TotalQuantity:    r.TotalQuantity,
			TotalRevenue:     toFloat64(r.TotalRevenue),
			SalesCount:       r.SalesCount,
			AverageUnitPrice: toFloat64(r.AverageUnitPrice),
		})
	}
	return out
}

func toPerformanceResponses(list []domain.ProductPerformance) []ProductPerformanceResponse {
	out := make([]ProductPerformanceResponse, 0, len(list))
	for _, p := range list {
		out = append(out, ProductPerformanceResponse{
			ProductID:          p.ProductID,
			ProductName:        p.ProductName,
			Category:           p.Category,
			SalesCount:         p.SalesCount,
			TotalQuantitySold:  p.TotalQuantitySold,
			TotalRevenue:       toFloat64(p.TotalRevenue),
			AvgOrderValue:      toFloat64(p.AvgOrderValue),
			AvgUnitPrice:       toFloat64(p.AvgUnitPrice),
			DaysSinceFirstSale: p.DaysSinceFirstSale,
			DaysSinceLastSale:  p.DaysSinceLastSale,
			VelocityScore:      round2(p.VelocityScore),
			PerformanceStatus:  string(p.Status),
		})
	}
	return out
}

func toBillResponse(b domain.GeneratedBill) *BillResponse {
	items := make([]BillLineItemResponse, 0, len(b.Items))
	for _, it := range b.Items {
		items = append(items, BillLineItemResponse{
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   toFloat64(it.UnitPrice),
			Subtotal:    toFloat64(it.Subtotal),
			Discount:    toFloat64(it.Discount),
			Total:       toFloat64(it.Total),
		})
	}
	return &BillResponse{
		BillNumber:        b.BillNumber,
		GeneratedDate:     b.GeneratedDate,
		Period:            b.Period,
		PeriodStartDate:   b.PeriodStartDate.Format(time.DateOnly),
		PeriodEndDate:     b.PeriodEndDate.Format(time.DateOnly),
		CustomerName:      b.CustomerName,
		CustomerID:        b.CustomerID,
		Items:             items,
		Subtotal:          toFloat64(b.Subtotal),
		TotalDiscount:     toFloat64(b.TotalDiscount),
		TaxableAmount:     toFloat64(b.TaxableAmount),
		TaxRate:           toFloat64(b.TaxRate),
		TaxAmount:         toFloat64(b.TaxAmount),
		GrandTotal:        toFloat64(b.GrandTotal),
		TotalTransactions: b.TotalTransactions,
		TotalItemsSold:    b.TotalItemsSold,
		PaymentMethod:     b.PaymentMethod,
	}
}

func toSuggestionResponses(list []domain.Suggestion) []SuggestionResponse {
	out := make([]SuggestionResponse, 0, len(list))
	for _, s := range list {
		out = append(out, SuggestionResponse{
			Category:       string(s.Category),
			Priority:       s.Priority,
			Title:          s.Title,
			Description:    s.Description,
			Actionable:     s.Actionable,
			ImpactScore:    s.ImpactScore,
			Metric:         s.Metric,
			CurrentValue:   round2(s.CurrentValue),
			PotentialValue: round2(s.PotentialValue),
		})
	}
	return out
}
