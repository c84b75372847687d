package analytics

import "fmt"

const (
	restockWindowDays  = 30
	urgentRestockDays  = 10
	restockSupplyDays  = 60
	clearanceMinStock  = 20
	clearanceBaseUnits = 10
)

// InventorySuggestions flags fast sellers about to run out and slow sellers
// holding excess stock.
func InventorySuggestions(in SuggestionInput) []Suggestion {
	return inventorySuggestions(ClassifyProducts(in.Sales, in.Now), in.Stock)
}

func inventorySuggestions(performance []ProductPerformance, stock map[int64]int) []Suggestion {
	out := make([]Suggestion, 0)

	for _, p := range performance {
		if p.Status != StatusTopPerformer {
			continue
		}
		onHand := stock[p.ProductID]
		days := 0
		if onHand > 0 {
			days = int(float64(onHand) / p.VelocityScore)
		}
		if days >= restockWindowDays {
			continue
		}

		priority, impact := PriorityMedium, 70.0
		if days < urgentRestockDays {
			priority, impact = PriorityHigh, 90.0
		}
		order := p.VelocityScore * restockSupplyDays
		out = append(out, Suggestion{
			Category: CategoryInventory,
			Priority: priority,
			Title:    "Restock High-Demand Product: " + p.ProductName,
			Description: fmt.Sprintf("Selling %.1f units/day. Current stock of %d lasts about %d days.",
				p.VelocityScore, onHand, days),
			Actionable:     fmt.Sprintf("Order %d units to cover %d days of demand", int(order), restockSupplyDays),
			ImpactScore:    impact,
			Metric:         "Stock Days Remaining",
			CurrentValue:   float64(days),
			PotentialValue: order,
		})
	}

	for _, p := range performance {
		if p.Status != StatusSlowMoving && p.Status != StatusStagnant {
			continue
		}
		onHand := stock[p.ProductID]
		if onHand <= clearanceMinStock {
			continue
		}
		unitPrice := p.AvgUnitPrice.InexactFloat64()
		out = append(out, Suggestion{
			Category: CategoryInventory,
			Priority: PriorityMedium,
			Title:    "Reduce Slow-Moving Inventory: " + p.ProductName,
			Description: fmt.Sprintf("%d units on hand, selling %.1f units/day. Last sale %d days ago.",
				onHand, p.VelocityScore, p.DaysSinceLastSale),
			Actionable:     "Run a clearance promotion at 20-30% off or bundle with popular items",
			ImpactScore:    60,
			Metric:         "Excess Stock Value",
			CurrentValue:   float64(onHand) * unitPrice,
			PotentialValue: clearanceBaseUnits * unitPrice,
		})
	}

	return out
}
