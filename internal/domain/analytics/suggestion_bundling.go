package analytics

import (
	"fmt"
	"sort"

	roaring "github.com/RoaringBitmap/roaring/roaring64"
)

const (
	bundleMinCustomers = 3
	bundleMaxResults   = 3
	bundleUplift       = 2
)

// ProductPair is an unordered product pair stored smaller id first
type ProductPair struct {
	First  int64
	Second int64
	// Customers is the number of distinct customers who bought both
	Customers int
}

// CoPurchasePairs counts, for every product pair, the customers who bought
// both products. Each product keeps a customer bitmap and a pair count is the
// cardinality of the intersection. Pairs below minCustomers are dropped.
// The result is ordered by count descending, then by ids ascending.
func CoPurchasePairs(in SuggestionInput, minCustomers int) []ProductPair {
	buyers := make(map[int64]*roaring.Bitmap)
	for _, s := range in.Sales {
		b, ok := buyers[s.ProductID]
		if !ok {
			b = roaring.New()
			buyers[s.ProductID] = b
		}
		b.Add(uint64(s.CustomerID))
	}

	products := make([]int64, 0, len(buyers))
	for id := range buyers {
		products = append(products, id)
	}
	sort.Slice(products, func(i, j int) bool { return products[i] < products[j] })

	pairs := make([]ProductPair, 0)
	for i := 0; i < len(products); i++ {
		a := buyers[products[i]]
		if a.GetCardinality() < uint64(minCustomers) {
			continue
		}
		for j := i + 1; j < len(products); j++ {
			b := buyers[products[j]]
			if !a.Intersects(b) {
				continue
			}
			n := int(roaring.And(a, b).GetCardinality())
			if n < minCustomers {
				continue
			}
			pairs = append(pairs, ProductPair{First: products[i], Second: products[j], Customers: n})
		}
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		if pairs[i].Customers != pairs[j].Customers {
			return pairs[i].Customers > pairs[j].Customers
		}
		if pairs[i].First != pairs[j].First {
			return pairs[i].First < pairs[j].First
		}
		return pairs[i].Second < pairs[j].Second
	})
	return pairs
}

// BundlingSuggestions proposes bundles for the most co-purchased product pairs
func BundlingSuggestions(in SuggestionInput) []Suggestion {
	pairs := CoPurchasePairs(in, bundleMinCustomers)
	if len(pairs) > bundleMaxResults {
		pairs = pairs[:bundleMaxResults]
	}

	out := make([]Suggestion, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, Suggestion{
			Category: CategoryProduct,
			Priority: PriorityMedium,
			Title:    "Create Product Bundle",
			Description: fmt.Sprintf("Products %d and %d were bought together by %d customers.",
				p.First, p.Second, p.Customers),
			Actionable:     "Create a combo bundle at 10% off to lift average order value",
			ImpactScore:    65,
			Metric:         "Co-Purchase Frequency",
			CurrentValue:   float64(p.Customers),
			PotentialValue: float64(p.Customers * bundleUplift),
		})
	}
	return out
}
