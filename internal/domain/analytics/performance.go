package analytics

import (
	"sort"
	"time"

	"github.com/apinexus/backend/internal/domain/sales"
	"github.com/shopspring/decimal"
)

// PerformanceStatus classifies a product by demand and recency
type PerformanceStatus string

const (
	StatusTopPerformer PerformanceStatus = "TOP_PERFORMER"
	StatusSteady       PerformanceStatus = "STEADY"
	StatusSlowMoving   PerformanceStatus = "SLOW_MOVING"
	StatusStagnant     PerformanceStatus = "STAGNANT"
)

// Classification thresholds
const (
	TopPerformerVelocity = 2.0
	SteadyVelocity       = 0.5
	StagnantAfterDays    = 30
)

// ProductPerformance is the derived performance view of one product
type ProductPerformance struct {
	ProductID          int64
	ProductName        string
	Category           string
	SalesCount         int
	TotalQuantitySold  int
	TotalRevenue       decimal.Decimal
	AvgOrderValue      decimal.Decimal
	AvgUnitPrice       decimal.Decimal
	DaysSinceFirstSale int
	DaysSinceLastSale  int
	VelocityScore      float64
	Status             PerformanceStatus
}

// DaysBetween returns the whole calendar days from t to now, floored, counted
// on the wall clock of now's location so DST shifts do not lose a day.
func DaysBetween(t, now time.Time) int {
	from := wallClockUTC(t.In(now.Location()))
	to := wallClockUTC(now)
	return int(to.Sub(from) / (24 * time.Hour))
}

func wallClockUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// Velocity returns units sold per day since the first sale. The day count is
// at least 1 so a product first sold today keeps its full quantity.
func Velocity(totalQuantity, daysSinceFirstSale int) float64 {
	days := daysSinceFirstSale
	if days < 1 {
		days = 1
	}
	return float64(totalQuantity) / float64(days)
}

// Classify maps velocity and recency to a status, first match wins
func Classify(velocity float64, daysSinceLastSale int) PerformanceStatus {
	switch {
	case velocity > TopPerformerVelocity:
		return StatusTopPerformer
	case velocity > SteadyVelocity:
		return StatusSteady
	case daysSinceLastSale > StagnantAfterDays:
		return StatusStagnant
	default:
		return StatusSlowMoving
	}
}

// ClassifyProducts computes the performance of every product present in list,
// ordered by velocity descending with ties kept in encounter order.
func ClassifyProducts(list []sales.Sale, now time.Time) []ProductPerformance {
	type acc struct {
		perf     ProductPerformance
		first    time.Time
		last     time.Time
		priceSum decimal.Decimal
	}

	index := make(map[int64]int)
	accs := make([]*acc, 0)
	for _, s := range list {
		i, ok := index[s.ProductID]
		if !ok {
			i = len(accs)
			index[s.ProductID] = i
			accs = append(accs, &acc{
				perf: ProductPerformance{
					ProductID:    s.ProductID,
					ProductName:  s.ProductName,
					Category:     s.Category,
					TotalRevenue: decimal.Zero,
				},
				first:    s.SaleDate,
				last:     s.SaleDate,
				priceSum: decimal.Zero,
			})
		}
		a := accs[i]
		a.perf.SalesCount++
		a.perf.TotalQuantitySold += s.Quantity
		a.perf.TotalRevenue = a.perf.TotalRevenue.Add(s.FinalAmount)
		a.priceSum = a.priceSum.Add(s.UnitPrice)
		if s.SaleDate.Before(a.first) {
			a.first = s.SaleDate
		}
		if s.SaleDate.After(a.last) {
			a.last = s.SaleDate
		}
	}

	result := make([]ProductPerformance, 0, len(accs))
	for _, a := range accs {
		p := a.perf
		count := decimal.NewFromInt(int64(p.SalesCount))
		p.AvgOrderValue = p.TotalRevenue.Div(count)
		p.AvgUnitPrice = a.priceSum.Div(count)
		p.DaysSinceFirstSale = DaysBetween(a.first, now)
		p.DaysSinceLastSale = DaysBetween(a.last, now)
		p.VelocityScore = Velocity(p.TotalQuantitySold, p.DaysSinceFirstSale)
		p.Status = Classify(p.VelocityScore, p.DaysSinceLastSale)
		result = append(result, p)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].VelocityScore > result[j].VelocityScore
	})
	return result
}
