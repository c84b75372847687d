package analytics

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/apinexus/backend/internal/domain/sales"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriority_Ordering(t *testing.T) {
	assert.True(t, PriorityHigh < PriorityMedium)
	assert.True(t, PriorityMedium < PriorityLow)
	assert.Equal(t, "MEDIUM", PriorityMedium.String())
	assert.Equal(t, "Priority(9)", Priority(9).String())
}

func TestPriority_JSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Priority Priority `json:"priority"`
	}{PriorityHigh})
	require.NoError(t, err)
	assert.JSONEq(t, `{"priority":"HIGH"}`, string(data))

	var decoded struct {
		Priority Priority `json:"priority"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"priority":"low"}`), &decoded))
	assert.Equal(t, PriorityLow, decoded.Priority)

	assert.Error(t, json.Unmarshal([]byte(`{"priority":"urgent"}`), &decoded))
	_, err = json.Marshal(Priority(0))
	assert.Error(t, err)
}

func TestParseSuggestionCategory(t *testing.T) {
	c, err := ParseSuggestionCategory("regional")
	require.NoError(t, err)
	assert.Equal(t, CategoryRegional, c)

	_, err = ParseSuggestionCategory("SHIPPING")
	assert.Error(t, err)
}

// steadySeller sells perDay units every day for the last days days
func steadySeller(productID int64, name string, perDay, days int, opts ...saleOpt) []sales.Sale {
	out := make([]sales.Sale, 0, days)
	for d := days; d >= 1; d-- {
		o := append([]saleOpt{withProduct(productID, name, "Gadgets"), withQuantity(perDay), withDate(daysAgo(d))}, opts...)
		out = append(out, newSale(o...))
	}
	return out
}

func TestInventorySuggestions_ScenarioC(t *testing.T) {
	in := SuggestionInput{
		Sales: steadySeller(1, "Widget", 10, 10),
		Stock: map[int64]int{1: 50},
		Now:   testNow,
	}

	got := InventorySuggestions(in)
	require.Len(t, got, 1)

	s := got[0]
	assert.Equal(t, CategoryInventory, s.Category)
	assert.Equal(t, PriorityHigh, s.Priority)
	assert.Equal(t, 90.0, s.ImpactScore)
	assert.Equal(t, "Stock Days Remaining", s.Metric)
	assert.Equal(t, 5.0, s.CurrentValue)
	assert.InDelta(t, 600.0, s.PotentialValue, 1e-9)
	assert.Contains(t, s.Title, "Widget")
}

func TestInventorySuggestions_RestockBands(t *testing.T) {
	list := steadySeller(1, "Widget", 10, 10)

	tests := []struct {
		name     string
		stock    map[int64]int
		count    int
		priority Priority
		days     float64
	}{
		{"out of stock", map[int64]int{}, 1, PriorityHigh, 0},
		{"medium window", map[int64]int{1: 150}, 1, PriorityMedium, 15},
		{"enough stock", map[int64]int{1: 300}, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InventorySuggestions(SuggestionInput{Sales: list, Stock: tt.stock, Now: testNow})
			require.Len(t, got, tt.count)
			if tt.count == 0 {
				return
			}
			assert.Equal(t, tt.priority, got[0].Priority)
			assert.Equal(t, tt.days, got[0].CurrentValue)
		})
	}
}

func TestInventorySuggestions_Clearance(t *testing.T) {
	list := []sales.Sale{
		newSale(withProduct(2, "Tea", "Grocery"), withQuantity(1), withPrice(10), withDate(daysAgo(50))),
		newSale(withProduct(3, "Mug", "Home"), withQuantity(1), withPrice(4), withDate(daysAgo(20))),
	}
	stock := map[int64]int{2: 30, 3: 20}

	got := InventorySuggestions(SuggestionInput{Sales: list, Stock: stock, Now: testNow})
	require.Len(t, got, 1)

	s := got[0]
	assert.Equal(t, PriorityMedium, s.Priority)
	assert.Equal(t, 60.0, s.ImpactScore)
	assert.Equal(t, "Excess Stock Value", s.Metric)
	assert.InDelta(t, 300.0, s.CurrentValue, 1e-9)
	assert.InDelta(t, 100.0, s.PotentialValue, 1e-9)
	assert.Contains(t, s.Title, "Tea")
}

func TestPricingSuggestions_DiscountRate(t *testing.T) {
	list := []sales.Sale{
		newSale(withProduct(1, "Watch", "Luxury"), withPrice(100), withDiscount(20), withDate(daysAgo(40))),
		newSale(withProduct(2, "Pen", "Office"), withPrice(5), withDate(daysAgo(40))),
		newSale(withProduct(3, "Sample", "Freebies"), withPrice(0), withDate(daysAgo(40))),
	}

	got := PricingSuggestions(SuggestionInput{Sales: list, Now: testNow})
	require.Len(t, got, 1)

	s := got[0]
	assert.Equal(t, CategoryPricing, s.Category)
	assert.Equal(t, PriorityMedium, s.Priority)
	assert.Equal(t, "Discount Rate", s.Metric)
	assert.InDelta(t, 25.0, s.CurrentValue, 1e-9)
	assert.Equal(t, 3.0, s.PotentialValue)
	assert.Contains(t, s.Title, "Luxury")
}

func TestPricingSuggestions_PremiumPriceTest(t *testing.T) {
	list := []sales.Sale{
		newSale(withProduct(1, "Camera", "Photo"), withQuantity(5), withPrice(30)),
	}

	got := PricingSuggestions(SuggestionInput{Sales: list, Now: testNow})
	require.Len(t, got, 1)

	s := got[0]
	assert.Equal(t, PriorityLow, s.Priority)
	assert.Equal(t, 55.0, s.ImpactScore)
	assert.InDelta(t, 150.0, s.CurrentValue, 1e-9)
	assert.InDelta(t, 157.5, s.PotentialValue, 1e-9)
}

func TestPricingSuggestions_TopFiveTakenBeforeOrderValueFilter(t *testing.T) {
	list := make([]sales.Sale, 0)
	for id := int64(1); id <= 5; id++ {
		list = append(list, newSale(withProduct(id, fmt.Sprintf("Bulk %d", id), "Bulk"), withQuantity(50), withPrice(1)))
	}
	list = append(list, newSale(withProduct(6, "Camera", "Photo"), withQuantity(3), withPrice(100)))

	got := PricingSuggestions(SuggestionInput{Sales: list, Now: testNow})
	assert.Empty(t, got)
}

func TestMarketingSuggestions_NoCustomers(t *testing.T) {
	assert.Empty(t, MarketingSuggestions(SuggestionInput{Now: testNow}))
}

func TestMarketingSuggestions_PremiumAndCrossSell(t *testing.T) {
	list := []sales.Sale{
		newSale(withCustomer(1, "Alice", true)),
		newSale(withCustomer(2, "Bob", false)),
		newSale(withCustomer(3, "Cara", false)),
	}

	got := MarketingSuggestions(SuggestionInput{Sales: list, Now: testNow})
	require.Len(t, got, 2)

	premium := got[0]
	assert.Equal(t, PriorityHigh, premium.Priority)
	assert.Equal(t, 85.0, premium.ImpactScore)
	assert.InDelta(t, 12.0, premium.PotentialValue, 1e-9)

	crossSell := got[1]
	assert.Equal(t, PriorityMedium, crossSell.Priority)
	assert.Equal(t, 75.0, crossSell.ImpactScore)
	assert.InDelta(t, 0.75, crossSell.PotentialValue, 1e-9)
}

func TestMarketingSuggestions_LapsedCustomers(t *testing.T) {
	build := func(lapsed int) []sales.Sale {
		list := make([]sales.Sale, 0)
		for id := int64(1); id <= int64(lapsed); id++ {
			list = append(list, newSale(withCustomer(id, "Lapsed", true), withDate(daysAgo(45))))
		}
		// active in the window and recently, never lapsed
		list = append(list,
			newSale(withCustomer(100, "Active", true), withDate(daysAgo(45))),
			newSale(withCustomer(100, "Active", true), withDate(daysAgo(3)), withProduct(2, "Gizmo", "Toys")),
		)
		return list
	}

	winBack := func(list []Suggestion) *Suggestion {
		for i := range list {
			if list[i].Metric == "Lapsed Customers" {
				return &list[i]
			}
		}
		return nil
	}

	assert.Nil(t, winBack(MarketingSuggestions(SuggestionInput{Sales: build(10), Now: testNow})))

	s := winBack(MarketingSuggestions(SuggestionInput{Sales: build(11), Now: testNow}))
	require.NotNil(t, s)
	assert.Equal(t, PriorityHigh, s.Priority)
	assert.Equal(t, 80.0, s.ImpactScore)
	assert.Equal(t, 11.0, s.CurrentValue)
	assert.InDelta(t, 2.2, s.PotentialValue, 1e-9)
}

func TestRegionalSuggestions(t *testing.T) {
	list := []sales.Sale{
		newSale(withRegion("South"), withPrice(100)),
		newSale(withRegion("North"), withPrice(100)),
		newSale(withRegion("East"), withPrice(10)),
	}

	got := RegionalSuggestions(SuggestionInput{Sales: list, Now: testNow})
	require.Len(t, got, 2)

	under := got[0]
	assert.Equal(t, PriorityMedium, under.Priority)
	assert.Equal(t, "Boost Sales in East", under.Title)
	assert.InDelta(t, 10.0, under.CurrentValue, 1e-9)
	assert.InDelta(t, 70.0, under.PotentialValue, 1e-9)

	top := got[1]
	assert.Equal(t, PriorityLow, top.Priority)
	assert.Equal(t, "Expand Success in North", top.Title)
	assert.InDelta(t, 125.0, top.PotentialValue, 1e-9)
}

func TestRegionalSuggestions_Empty(t *testing.T) {
	assert.Empty(t, RegionalSuggestions(SuggestionInput{Now: testNow}))
}

func TestBundlingSuggestions_ScenarioD(t *testing.T) {
	list := make([]sales.Sale, 0)
	for c := int64(1); c <= 3; c++ {
		list = append(list,
			newSale(withCustomer(c, "C", false), withProduct(10, "Phone", "Tech")),
			newSale(withCustomer(c, "C", false), withProduct(20, "Case", "Tech")),
		)
	}
	list = append(list,
		newSale(withCustomer(4, "D", false), withProduct(10, "Phone", "Tech")),
		newSale(withCustomer(4, "D", false), withProduct(30, "Charger", "Tech")),
	)

	got := BundlingSuggestions(SuggestionInput{Sales: list, Now: testNow})
	require.Len(t, got, 1)

	s := got[0]
	assert.Equal(t, CategoryProduct, s.Category)
	assert.Equal(t, PriorityMedium, s.Priority)
	assert.Equal(t, 65.0, s.ImpactScore)
	assert.Equal(t, 3.0, s.CurrentValue)
	assert.Equal(t, 6.0, s.PotentialValue)
	assert.Contains(t, s.Description, "10 and 20")
}

func TestCoPurchasePairs_TopThreeByCountThenIDs(t *testing.T) {
	list := make([]sales.Sale, 0)
	for c := int64(1); c <= 3; c++ {
		for p := int64(1); p <= 4; p++ {
			list = append(list, newSale(withCustomer(c, "C", false), withProduct(p, "P", "Cat")))
		}
	}
	// a fourth buyer lifts the 3-4 pair above the rest
	list = append(list,
		newSale(withCustomer(9, "Z", false), withProduct(3, "P", "Cat")),
		newSale(withCustomer(9, "Z", false), withProduct(4, "P", "Cat")),
	)

	pairs := CoPurchasePairs(SuggestionInput{Sales: list}, 3)
	require.Len(t, pairs, 6)
	assert.Equal(t, ProductPair{First: 3, Second: 4, Customers: 4}, pairs[0])
	assert.Equal(t, ProductPair{First: 1, Second: 2, Customers: 3}, pairs[1])
	assert.Equal(t, ProductPair{First: 1, Second: 3, Customers: 3}, pairs[2])

	got := BundlingSuggestions(SuggestionInput{Sales: list})
	require.Len(t, got, 3)
	assert.Equal(t, 8.0, got[0].PotentialValue)
}

func suggestionDataset() SuggestionInput {
	list := steadySeller(1, "Widget", 10, 10, withRegion("North"))
	for c := int64(1); c <= 3; c++ {
		list = append(list,
			newSale(withCustomer(c, "C", false), withProduct(10, "Phone", "Tech"), withRegion("South"), withPrice(200), withDiscount(50), withDate(daysAgo(35))),
			newSale(withCustomer(c, "C", false), withProduct(20, "Case", "Tech"), withRegion("South"), withDate(daysAgo(35))),
		)
	}
	list = append(list, newSale(withProduct(30, "Tea", "Grocery"), withRegion("East"), withPrice(1), withDate(daysAgo(50))))
	return SuggestionInput{
		Sales: list,
		Stock: map[int64]int{1: 50, 30: 40},
		Now:   testNow,
	}
}

func TestSuggest_GlobalOrder(t *testing.T) {
	got := Suggest(suggestionDataset())
	require.NotEmpty(t, got)

	categories := make(map[SuggestionCategory]bool)
	for i, s := range got {
		categories[s.Category] = true
		if i == 0 {
			continue
		}
		prev := got[i-1]
		require.LessOrEqual(t, int(prev.Priority), int(s.Priority))
		if prev.Priority == s.Priority {
			require.GreaterOrEqual(t, prev.ImpactScore, s.ImpactScore)
		}
	}
	for _, c := range []SuggestionCategory{CategoryInventory, CategoryPricing, CategoryMarketing, CategoryRegional, CategoryProduct} {
		assert.True(t, categories[c], "missing %s suggestion", c)
	}
}

func TestSuggest_Idempotent(t *testing.T) {
	in := suggestionDataset()
	assert.Equal(t, Suggest(in), Suggest(in))
}

func TestSuggest_Empty(t *testing.T) {
	assert.Empty(t, Suggest(SuggestionInput{Now: testNow}))
}

func TestFilterSuggestions(t *testing.T) {
	all := Suggest(suggestionDataset())

	high := PriorityHigh
	for _, s := range FilterSuggestions(all, nil, &high) {
		assert.Equal(t, PriorityHigh, s.Priority)
	}

	regional := CategoryRegional
	filtered := FilterSuggestions(all, &regional, nil)
	require.NotEmpty(t, filtered)
	for _, s := range filtered {
		assert.Equal(t, CategoryRegional, s.Category)
	}

	low := PriorityLow
	for _, s := range FilterSuggestions(all, &regional, &low) {
		assert.Equal(t, CategoryRegional, s.Category)
		assert.Equal(t, PriorityLow, s.Priority)
	}

	assert.Len(t, FilterSuggestions(all, nil, nil), len(all))
}

func TestSortSuggestions_StableOnTies(t *testing.T) {
	list := []Suggestion{
		{Title: "a", Priority: PriorityLow, ImpactScore: 50},
		{Title: "b", Priority: PriorityHigh, ImpactScore: 50},
		{Title: "c", Priority: PriorityHigh, ImpactScore: 80},
		{Title: "d", Priority: PriorityHigh, ImpactScore: 50},
	}
	SortSuggestions(list)

	titles := make([]string, 0, len(list))
	for _, s := range list {
		titles = append(titles, s.Title)
	}
	assert.Equal(t, []string{"c", "b", "d", "a"}, titles)
}
