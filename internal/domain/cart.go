package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLineItem is one row of a cart. ProductID is its identity; the remaining
// display fields are captured when the product is first added and never change.
type CartLineItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Category  Category        `json:"category"`
	Unit      string          `json:"unit"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  decimal.Decimal `json:"quantity"`
	LineTotal decimal.Decimal `json:"lineTotal"`
	AddedAt   time.Time       `json:"addedAt"`
}

// NewCartLineItem snapshots product and seeds the accumulators.
func NewCartLineItem(p Product, quantity, lineTotal decimal.Decimal, at time.Time) CartLineItem {
	return CartLineItem{
		ProductID: p.ID,
		Name:      p.Name,
		Category:  p.Category,
		Unit:      p.Unit,
		UnitPrice: p.CurrentPrice,
		Quantity:  quantity,
		LineTotal: lineTotal,
		AddedAt:   at,
	}
}

// Merge returns a copy with quantity and lineTotal added to the accumulators.
// Snapshot fields are carried over unchanged.
func (i CartLineItem) Merge(quantity, lineTotal decimal.Decimal) CartLineItem {
	out := i
	out.Quantity = i.Quantity.Add(quantity)
	out.LineTotal = i.LineTotal.Add(lineTotal)
	return out
}

// CartSnapshot is an immutable copy of a cart handed to checkout.
type CartSnapshot struct {
	Items    []CartLineItem  `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// Empty reports whether the snapshot has no line items.
func (s CartSnapshot) Empty() bool {
	return len(s.Items) == 0
}
