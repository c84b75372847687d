package analytics

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

const (
	underperformingShare = 0.6
	expansionUplift      = 1.25
)

// RegionalSuggestions compares each region with the regional mean and
// proposes expansion of the strongest region.
func RegionalSuggestions(in SuggestionInput) []Suggestion {
	revenue := make(map[string]decimal.Decimal)
	counts := make(map[string]int)
	for _, s := range in.Sales {
		revenue[s.Region] = revenue[s.Region].Add(s.FinalAmount)
		counts[s.Region]++
	}
	if len(revenue) == 0 {
		return []Suggestion{}
	}

	regions := make([]string, 0, len(revenue))
	total := decimal.Zero
	for r, v := range revenue {
		regions = append(regions, r)
		total = total.Add(v)
	}
	sort.Strings(regions)

	mean := total.Div(decimal.NewFromInt(int64(len(regions)))).InexactFloat64()
	out := make([]Suggestion, 0)

	for _, r := range regions {
		v := revenue[r].InexactFloat64()
		if v >= mean*underperformingShare {
			continue
		}
		out = append(out, Suggestion{
			Category: CategoryRegional,
			Priority: PriorityMedium,
			Title:    "Boost Sales in " + r,
			Description: fmt.Sprintf("Region generated $%.2f, %.1f%% below the regional average across %d sales.",
				v, percent((mean-v)/mean), counts[r]),
			Actionable:     "Launch a region-specific promotion or raise local marketing spend by 30%",
			ImpactScore:    70,
			Metric:         "Revenue Gap",
			CurrentValue:   v,
			PotentialValue: mean,
		})
	}

	top := regions[0]
	for _, r := range regions[1:] {
		if revenue[r].GreaterThan(revenue[top]) {
			top = r
		}
	}
	topRevenue := revenue[top].InexactFloat64()
	out = append(out, Suggestion{
		Category:       CategoryRegional,
		Priority:       PriorityLow,
		Title:          "Expand Success in " + top,
		Description:    fmt.Sprintf("Top performing region with $%.2f revenue.", topRevenue),
		Actionable:     "Increase inventory allocation and test localized product variations",
		ImpactScore:    60,
		Metric:         "Current Revenue",
		CurrentValue:   topRevenue,
		PotentialValue: topRevenue * expansionUplift,
	})

	return out
}
