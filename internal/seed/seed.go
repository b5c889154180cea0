package seed

import (
	"context"
	"fmt"

	"fuel-storefront/internal/domain"
	"github.com/shopspring/decimal"
)

// ProductWriter is the subset of the product repository the seed needs.
type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

type productSeed struct {
	ID          string
	Name        string
	Category    domain.Category
	Unit        string
	Description string
	Price       string
	Stock       *int
}

func stock(n int) *int { return &n }

var products = []productSeed{
	{ID: "fuel-diesel", Name: "Diesel", Category: domain.CategoryFuel, Unit: "Liter", Description: "Automotive diesel", Price: "58.45"},
	{ID: "fuel-unleaded-91", Name: "Unleaded 91", Category: domain.CategoryFuel, Unit: "Liter", Description: "Regular gasoline", Price: "61.20"},
	{ID: "fuel-premium-95", Name: "Premium 95", Category: domain.CategoryFuel, Unit: "Liter", Description: "Premium gasoline", Price: "65.80"},
	{ID: "motor-oil-10w40", Name: "Motor Oil 10W-40 1L", Category: domain.CategoryMotorOil, Unit: "Bottle", Description: "Semi-synthetic four-stroke oil", Price: "285.00", Stock: stock(40)},
	{ID: "motor-oil-20w50", Name: "Motor Oil 20W-50 1L", Category: domain.CategoryMotorOil, Unit: "Bottle", Description: "Mineral four-stroke oil", Price: "240.00", Stock: stock(25)},
	{ID: "engine-oil-15w40", Name: "Diesel Engine Oil 15W-40 4L", Category: domain.CategoryEngineOil, Unit: "Gallon", Description: "Heavy duty diesel engine oil", Price: "1150.00", Stock: stock(10)},
	{ID: "atf-dexron-iii", Name: "ATF Dexron III 1L", Category: domain.CategoryOtherLubricant, Unit: "Bottle", Description: "Automatic transmission fluid", Price: "320.00", Stock: stock(15)},
	{ID: "grease-mp3", Name: "Multipurpose Grease 500g", Category: domain.CategoryOtherLubricant, Unit: "Tub", Description: "Lithium based grease", Price: "195.00", Stock: stock(0)},
}

// Apply upserts the demo catalog. It is idempotent because every product has a fixed id.
func Apply(ctx context.Context, repo ProductWriter) (int, error) {
	for i, p := range products {
		price, err := decimal.NewFromString(p.Price)
		if err != nil {
			return i, fmt.Errorf("price for %s: %w", p.ID, err)
		}
		_, err = repo.Upsert(ctx, domain.Product{
			ID:            p.ID,
			Name:          p.Name,
			Category:      p.Category,
			Unit:          p.Unit,
			Description:   p.Description,
			CurrentPrice:  price,
			StockQuantity: p.Stock,
			IsActive:      true,
		})
		if err != nil {
			return i, fmt.Errorf("upsert product %s: %w", p.ID, err)
		}
	}
	return len(products), nil
}
