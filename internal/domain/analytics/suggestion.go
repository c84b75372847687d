package analytics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/apinexus/backend/internal/domain/sales"
)

// SuggestionCategory groups suggestions by business area
type SuggestionCategory string

const (
	CategoryInventory SuggestionCategory = "INVENTORY"
	CategoryPricing   SuggestionCategory = "PRICING"
	CategoryMarketing SuggestionCategory = "MARKETING"
	CategoryRegional  SuggestionCategory = "REGIONAL"
	CategoryProduct   SuggestionCategory = "PRODUCT"
)

// ParseSuggestionCategory parses a category name case-insensitively
func ParseSuggestionCategory(s string) (SuggestionCategory, error) {
	switch c := SuggestionCategory(strings.ToUpper(strings.TrimSpace(s))); c {
	case CategoryInventory, CategoryPricing, CategoryMarketing, CategoryRegional, CategoryProduct:
		return c, nil
	default:
		return "", fmt.Errorf("unknown suggestion category %q", s)
	}
}

// Priority is totally ordered: High sorts before Medium before Low
type Priority int

const (
	PriorityHigh Priority = iota + 1
	PriorityMedium
	PriorityLow
)

var priorityNames = map[Priority]string{
	PriorityHigh:   "HIGH",
	PriorityMedium: "MEDIUM",
	PriorityLow:    "LOW",
}

func (p Priority) String() string {
	if name, ok := priorityNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Priority(%d)", int(p))
}

// ParsePriority parses a priority name case-insensitively
func ParsePriority(s string) (Priority, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "HIGH":
		return PriorityHigh, nil
	case "MEDIUM":
		return PriorityMedium, nil
	case "LOW":
		return PriorityLow, nil
	default:
		return 0, fmt.Errorf("unknown priority %q", s)
	}
}

// MarshalText encodes the priority as its name
func (p Priority) MarshalText() ([]byte, error) {
	if _, ok := priorityNames[p]; !ok {
		return nil, fmt.Errorf("invalid priority %d", int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText decodes a priority name
func (p *Priority) UnmarshalText(text []byte) error {
	parsed, err := ParsePriority(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Suggestion is a single actionable business recommendation
type Suggestion struct {
	Category       SuggestionCategory
	Priority       Priority
	Title          string
	Description    string
	Actionable     string
	ImpactScore    float64
	Metric         string
	CurrentValue   float64
	PotentialValue float64
}

// SuggestionInput is everything the suggestion engine reads
type SuggestionInput struct {
	Sales []sales.Sale
	// Stock maps product id to on-hand quantity; missing ids count as 0
	Stock map[int64]int
	Now   time.Time
}

// Suggest runs every category and returns the globally ordered list
func Suggest(in SuggestionInput) []Suggestion {
	performance := ClassifyProducts(in.Sales, in.Now)

	all := make([]Suggestion, 0)
	all = append(all, inventorySuggestions(performance, in.Stock)...)
	all = append(all, pricingSuggestions(in.Sales, performance)...)
	all = append(all, MarketingSuggestions(in)...)
	all = append(all, RegionalSuggestions(in)...)
	all = append(all, BundlingSuggestions(in)...)

	SortSuggestions(all)
	return all
}

// SortSuggestions orders by priority ascending then impact descending.
// The sort is stable so equal keys keep their category order.
func SortSuggestions(list []Suggestion) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Priority != list[j].Priority {
			return list[i].Priority < list[j].Priority
		}
		return list[i].ImpactScore > list[j].ImpactScore
	})
}

// FilterSuggestions keeps suggestions matching the optional category and priority
func FilterSuggestions(list []Suggestion, category *SuggestionCategory, priority *Priority) []Suggestion {
	out := make([]Suggestion, 0, len(list))
	for _, s := range list {
		if category != nil && s.Category != *category {
			continue
		}
		if priority != nil && s.Priority != *priority {
			continue
		}
		out = append(out, s)
	}
	return out
}

func percent(v float64) float64 {
	return v * 100
}
