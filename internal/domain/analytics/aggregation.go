// Package analytics holds the pure sales analytics core: rollups, product
// performance classification, bill derivation and business suggestions.
// Every function here is deterministic and safe for concurrent use.
package analytics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/apinexus/backend/internal/domain/sales"
	"github.com/shopspring/decimal"
)

// DefaultTopProductsLimit is used when the caller passes a non-positive limit
const DefaultTopProductsLimit = 10

// Granularity selects the bucketing pattern of a period rollup
type Granularity string

const (
	GranularityDaily   Granularity = "daily"
	GranularityWeekly  Granularity = "weekly"
	GranularityMonthly Granularity = "monthly"
	GranularityYearly  Granularity = "yearly"
)

// ParseGranularity maps a token to a granularity. Unknown tokens fall back to daily.
func ParseGranularity(token string) Granularity {
	switch Granularity(strings.ToLower(strings.TrimSpace(token))) {
	case GranularityWeekly:
		return GranularityWeekly
	case GranularityMonthly:
		return GranularityMonthly
	case GranularityYearly:
		return GranularityYearly
	default:
		return GranularityDaily
	}
}

// ProductRollup aggregates all sales of one product
type ProductRollup struct {
	ProductID        int64
	ProductName      string
	Category         string
	TotalQuantity    int
	TotalRevenue     decimal.Decimal
	SalesCount       int
	AverageUnitPrice decimal.Decimal
}

// CategoryRollup aggregates all sales of one category
type CategoryRollup struct {
	Category      string
	TotalQuantity int
	TotalRevenue  decimal.Decimal
	SalesCount    int
}

// PeriodRollup aggregates all sales falling in one period bucket
type PeriodRollup struct {
	Period     string
	Revenue    decimal.Decimal
	SalesCount int
	Quantity   int
}

// SalesSummary is the analytics overview of a sale set
type SalesSummary struct {
	TotalRevenue         decimal.Decimal
	TotalSales           int
	TotalQuantitySold    int
	AverageOrderValue    decimal.Decimal
	TotalDiscounts       decimal.Decimal
	PremiumCustomerSales int
	RegularCustomerSales int
}

// RollupByProduct groups sales by product id. Revenue is the sum of final
// amounts. Results are ordered by revenue descending, ties in encounter order.
func RollupByProduct(list []sales.Sale) []ProductRollup {
	index := make(map[int64]int)
	rollups := make([]ProductRollup, 0)
	priceSums := make([]decimal.Decimal, 0)

	for _, s := range list {
		i, ok := index[s.ProductID]
		if !ok {
			i = len(rollups)
			index[s.ProductID] = i
			rollups = append(rollups, ProductRollup{
				ProductID:    s.ProductID,
				ProductName:  s.ProductName,
				Category:     s.Category,
				TotalRevenue: decimal.Zero,
			})
			priceSums = append(priceSums, decimal.Zero)
		}
		r := &rollups[i]
		r.TotalQuantity += s.Quantity
		r.TotalRevenue = r.TotalRevenue.Add(s.FinalAmount)
		r.SalesCount++
		priceSums[i] = priceSums[i].Add(s.UnitPrice)
	}

	for i := range rollups {
		rollups[i].AverageUnitPrice = priceSums[i].Div(decimal.NewFromInt(int64(rollups[i].SalesCount)))
	}

	sort.SliceStable(rollups, func(a, b int) bool {
		return rollups[a].TotalRevenue.GreaterThan(rollups[b].TotalRevenue)
	})
	return rollups
}

// RollupByCategory groups sales by category, ordered by revenue descending
func RollupByCategory(list []sales.Sale) []CategoryRollup {
	index := make(map[string]int)
	rollups := make([]CategoryRollup, 0)

	for _, s := range list {
		i, ok := index[s.Category]
		if !ok {
			i = len(rollups)
			index[s.Category] = i
			rollups = append(rollups, CategoryRollup{Category: s.Category, TotalRevenue: decimal.Zero})
		}
		r := &rollups[i]
		r.TotalQuantity += s.Quantity
		r.TotalRevenue = r.TotalRevenue.Add(s.FinalAmount)
		r.SalesCount++
	}

	sort.SliceStable(rollups, func(a, b int) bool {
		return rollups[a].TotalRevenue.GreaterThan(rollups[b].TotalRevenue)
	})
	return rollups
}

// RollupByPeriod buckets sales by the formatted sale date and orders the
// buckets by label ascending. All labels are zero padded so the lexical order
// is chronological.
func RollupByPeriod(list []sales.Sale, granularity Granularity) []PeriodRollup {
	buckets := make(map[string]*PeriodRollup)
	for _, s := range list {
		label := PeriodLabel(s, granularity)
		b, ok := buckets[label]
		if !ok {
			b = &PeriodRollup{Period: label, Revenue: decimal.Zero}
			buckets[label] = b
		}
		b.Revenue = b.Revenue.Add(s.FinalAmount)
		b.SalesCount++
		b.Quantity += s.Quantity
	}

	labels := make([]string, 0, len(buckets))
	for label := range buckets {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	rollups := make([]PeriodRollup, 0, len(labels))
	for _, label := range labels {
		rollups = append(rollups, *buckets[label])
	}
	return rollups
}

// PeriodLabel formats the sale date of s for the given granularity
func PeriodLabel(s sales.Sale, granularity Granularity) string {
	switch granularity {
	case GranularityWeekly:
		year, week := s.SaleDate.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	case GranularityMonthly:
		return s.SaleDate.Format("2006-01")
	case GranularityYearly:
		return s.SaleDate.Format("2006")
	default:
		return s.SaleDate.Format("2006-01-02")
	}
}

// Summarize computes the analytics overview. An empty set yields a zero summary.
func Summarize(list []sales.Sale) SalesSummary {
	summary := SalesSummary{
		TotalRevenue:      decimal.Zero,
		AverageOrderValue: decimal.Zero,
		TotalDiscounts:    decimal.Zero,
	}
	for _, s := range list {
		summary.TotalRevenue = summary.TotalRevenue.Add(s.FinalAmount)
		summary.TotalQuantitySold += s.Quantity
		summary.TotalDiscounts = summary.TotalDiscounts.Add(s.DiscountApplied)
		if s.IsPremiumCustomer {
			summary.PremiumCustomerSales++
		} else {
			summary.RegularCustomerSales++
		}
	}
	summary.TotalSales = len(list)
	if summary.TotalSales > 0 {
		summary.AverageOrderValue = summary.TotalRevenue.Div(decimal.NewFromInt(int64(summary.TotalSales)))
	}
	return summary
}

// TopProducts returns the first limit entries of the product rollup
func TopProducts(list []sales.Sale, limit int) []ProductRollup {
	if limit <= 0 {
		limit = DefaultTopProductsLimit
	}
	rollups := RollupByProduct(list)
	if len(rollups) > limit {
		rollups = rollups[:limit]
	}
	return rollups
}
