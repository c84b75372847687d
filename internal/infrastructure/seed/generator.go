// Package seed generates realistic demo catalogue and sales data.
package seed

import (
	"fmt"
	"time"

	"github.com/apinexus/backend/internal/domain/sales"
	"github.com/apinexus/backend/internal/infrastructure/persistence/models"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
)

var (
	categories     = []string{"Electronics", "Groceries", "Clothing", "Home", "Sports", "Books"}
	regions        = []string{"North", "South", "East", "West", "Central"}
	paymentMethods = []string{"CASH", "CARD", "UPI", "WALLET"}
)

// Generator produces deterministic data for a given seed
type Generator struct {
	faker *gofakeit.Faker
	now   time.Time
}

// NewGenerator creates a generator. Sales are dated within the window ending at now.
func NewGenerator(seed uint64, now time.Time) *Generator {
	return &Generator{faker: gofakeit.New(seed), now: now}
}

// Items returns n catalogue items. Premium price is 80% of the normal price.
func (g *Generator) Items(n int) []*models.MarketItemModel {
	items := make([]*models.MarketItemModel, 0, n)
	for i := 0; i < n; i++ {
		price := decimal.NewFromFloat(g.faker.Float64Range(1, 500)).Round(2)
		items = append(items, &models.MarketItemModel{
			ItemName:      g.faker.ProductName(),
			Description:   g.faker.ProductDescription(),
			Category:      g.faker.RandomString(categories),
			NormalPrice:   price,
			PremiumPrice:  price.Mul(decimal.NewFromFloat(0.8)).Round(2),
			StockQuantity: g.faker.IntRange(0, 200),
			IsAvailable:   g.faker.Float32Range(0, 1) < 0.9,
		})
	}
	return items
}

// Sales returns n sales of the given items spread over the last days days.
// Premium customers receive the policy discount.
func (g *Generator) Sales(items []*models.MarketItemModel, n, days int) ([]*sales.Sale, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("seed: no items to sell")
	}
	if days < 1 {
		days = 1
	}
	start := g.now.AddDate(0, 0, -days)

	customers := g.customers(max(n/5, 1))
	out := make([]*sales.Sale, 0, n)
	for i := 0; i < n; i++ {
		item := items[g.faker.IntRange(0, len(items)-1)]
		cust := customers[g.faker.IntRange(0, len(customers)-1)]
		qty := g.faker.IntRange(1, 10)

		discount := decimal.Zero
		if cust.premium {
			discount = sales.PremiumDiscount(item.NormalPrice.Mul(decimal.NewFromInt(int64(qty))))
		}

		s, err := sales.NewSale(sales.SaleParams{
			ProductID:         item.ID,
			ProductName:       item.ItemName,
			Category:          item.Category,
			Quantity:          qty,
			UnitPrice:         item.NormalPrice,
			CustomerID:        cust.id,
			CustomerName:      cust.name,
			IsPremiumCustomer: cust.premium,
			Discount:          discount,
			PaymentMethod:     g.faker.RandomString(paymentMethods),
			Region:            cust.region,
			Salesperson:       g.faker.FirstName(),
			SaleDate:          g.faker.DateRange(start, g.now),
		})
		if err != nil {
			return nil, fmt.Errorf("seed sale %d: %w", i, err)
		}
		out = append(out, s)
	}
	return out, nil
}

type customer struct {
	id      int64
	name    string
	region  string
	premium bool
}

func (g *Generator) customers(n int) []customer {
	list := make([]customer, 0, n)
	for i := 0; i < n; i++ {
		list = append(list, customer{
			id:      int64(i + 1),
			name:    g.faker.Name(),
			region:  g.faker.RandomString(regions),
			premium: g.faker.Float32Range(0, 1) < 0.25,
		})
	}
	return list
}
