package checkout

import "github.com/shopspring/decimal"

// FeePolicy is the delivery fee rule. A zero FreeThreshold means the fee is
// always charged; a zero Fee means delivery is free.
type FeePolicy struct {
	Fee           decimal.Decimal
	FreeThreshold decimal.Decimal
}

// For returns the fee owed on an order with the given subtotal.
func (p FeePolicy) For(subtotal decimal.Decimal) decimal.Decimal {
	if !p.Fee.IsPositive() {
		return decimal.Zero
	}
	if p.FreeThreshold.IsPositive() && subtotal.GreaterThanOrEqual(p.FreeThreshold) {
		return decimal.Zero
	}
	return p.Fee
}
