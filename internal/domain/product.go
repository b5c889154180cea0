package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a read-only catalog record.
type Product struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Category      Category        `json:"category"`
	Unit          string          `json:"unit"`
	Description   string          `json:"description,omitempty"`
	ImageURL      string          `json:"imageUrl,omitempty"`
	CurrentPrice  decimal.Decimal `json:"currentPrice"`
	StockQuantity *int            `json:"stockQuantity,omitempty"`
	IsActive      bool            `json:"isActive"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// InStock is true when stock is not tracked or at least one unit remains.
func (p Product) InStock() bool {
	return p.StockQuantity == nil || *p.StockQuantity > 0
}
