package analytics

import (
	"fmt"
	"sort"

	"github.com/apinexus/backend/internal/domain/sales"
	"github.com/shopspring/decimal"
)

const (
	discountRateThreshold  = 0.05
	premiumPriceCandidates = 5
	premiumOrderValueFloor = 100
	premiumPriceUplift     = 1.05
)

// PricingSuggestions flags categories with heavy discounting and high-value
// fast sellers that could carry a price test.
func PricingSuggestions(in SuggestionInput) []Suggestion {
	return pricingSuggestions(in.Sales, ClassifyProducts(in.Sales, in.Now))
}

func pricingSuggestions(list []sales.Sale, performance []ProductPerformance) []Suggestion {
	out := make([]Suggestion, 0)

	type categoryTotals struct {
		discount decimal.Decimal
		revenue  decimal.Decimal
		count    int
	}
	byCategory := make(map[string]*categoryTotals)
	for _, s := range list {
		t, ok := byCategory[s.Category]
		if !ok {
			t = &categoryTotals{discount: decimal.Zero, revenue: decimal.Zero}
			byCategory[s.Category] = t
		}
		t.discount = t.discount.Add(s.DiscountApplied)
		t.revenue = t.revenue.Add(s.FinalAmount)
		t.count++
	}

	categories := make([]string, 0, len(byCategory))
	for c := range byCategory {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	for _, c := range categories {
		t := byCategory[c]
		if !t.revenue.IsPositive() {
			continue
		}
		avgDiscount := t.discount.Div(decimal.NewFromInt(int64(t.count)))
		rate := avgDiscount.Div(t.revenue).InexactFloat64()
		if rate <= discountRateThreshold {
			continue
		}
		out = append(out, Suggestion{
			Category: CategoryPricing,
			Priority: PriorityMedium,
			Title:    "Optimize Discounting Strategy: " + c,
			Description: fmt.Sprintf("Average discount of $%s per sale is %.1f%% of category revenue. Consider value-based pricing.",
				avgDiscount.StringFixed(2), percent(rate)),
			Actionable:     "Test a 10-15% price increase for premium customers or introduce tiered pricing",
			ImpactScore:    65,
			Metric:         "Discount Rate",
			CurrentValue:   percent(rate),
			PotentialValue: 3,
		})
	}

	candidates := 0
	for _, p := range performance {
		if p.Status != StatusTopPerformer {
			continue
		}
		if candidates == premiumPriceCandidates {
			break
		}
		candidates++
		if !p.AvgOrderValue.GreaterThan(decimal.NewFromInt(premiumOrderValueFloor)) {
			continue
		}
		revenue := p.TotalRevenue.InexactFloat64()
		out = append(out, Suggestion{
			Category: CategoryPricing,
			Priority: PriorityLow,
			Title:    "Test Premium Pricing: " + p.ProductName,
			Description: fmt.Sprintf("High-value product ($%s average order) with strong demand (%d sales).",
				p.AvgOrderValue.StringFixed(2), p.SalesCount),
			Actionable:     "A/B test a 5-8% price increase for new customers",
			ImpactScore:    55,
			Metric:         "Potential Revenue Uplift",
			CurrentValue:   revenue,
			PotentialValue: revenue * premiumPriceUplift,
		})
	}

	return out
}
