// Package pricing converts a shopper's typed entry into a (quantity, line total) pair.
package pricing

import (
	"errors"
	"strings"

	"fuel-storefront/internal/domain"
	"github.com/shopspring/decimal"
)

// Mode selects how the raw entry is interpreted.
type Mode int

const (
	// ByQuantity treats the entry as liters or units.
	ByQuantity Mode = iota
	// ByAmount treats the entry as money and derives the quantity.
	ByAmount
)

// ErrUnknownMode is returned by ParseMode for unrecognised labels.
var ErrUnknownMode = errors.New("unknown entry mode")

// ParseMode accepts "quantity", "liters" or "amount". Blank means ByQuantity.
func ParseMode(raw string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "quantity", "liters", "units":
		return ByQuantity, nil
	case "amount":
		return ByAmount, nil
	default:
		return ByQuantity, ErrUnknownMode
	}
}

func (m Mode) String() string {
	if m == ByAmount {
		return "amount"
	}
	return "quantity"
}

// Reasons reported on invalid results.
const (
	ReasonEmpty            = "enter a value"
	ReasonNotNumeric       = "enter a valid number"
	ReasonNotPositive      = "enter a value greater than zero"
	ReasonInvalidUnitPrice = "product price unavailable"
)

// Result is the outcome of Compute. When Valid is false Quantity and LineTotal are zero.
type Result struct {
	Valid     bool
	Quantity  decimal.Decimal
	LineTotal decimal.Decimal
	Reason    string
}

func invalid(reason string) Result {
	return Result{Reason: reason}
}

// Calculator holds the mode defaults. The zero value uses "1" and "100".
type Calculator struct {
	QuantityDefault string
	AmountDefault   string
}

// DefaultInput is the entry a field resets to when the mode switches.
func (c Calculator) DefaultInput(m Mode) string {
	if m == ByAmount {
		if c.AmountDefault != "" {
			return c.AmountDefault
		}
		return "100"
	}
	if c.QuantityDefault != "" {
		return c.QuantityDefault
	}
	return "1"
}

// SwitchMode returns the mode that applies to product and the input it resets to.
// Products that do not accept amount entry always get ByQuantity.
func (c Calculator) SwitchMode(p domain.Product, requested Mode) (Mode, string) {
	mode := EffectiveMode(p.Category, requested)
	return mode, c.DefaultInput(mode)
}

// EffectiveMode coerces requested to ByQuantity for categories without amount entry.
func EffectiveMode(cat domain.Category, requested Mode) Mode {
	if requested == ByAmount && cat.SupportsAmountEntry() {
		return ByAmount
	}
	return ByQuantity
}

// Compute parses raw strictly and converts it using unitPrice.
func Compute(raw string, mode Mode, unitPrice decimal.Decimal) Result {
	if !unitPrice.IsPositive() {
		return invalid(ReasonInvalidUnitPrice)
	}
	text := strings.TrimSpace(raw)
	if text == "" {
		return invalid(ReasonEmpty)
	}
	if !isPlainDecimal(text) {
		return invalid(ReasonNotNumeric)
	}
	value, err := decimal.NewFromString(text)
	if err != nil {
		return invalid(ReasonNotNumeric)
	}
	if !value.IsPositive() {
		return invalid(ReasonNotPositive)
	}

	if mode == ByAmount {
		return Result{Valid: true, Quantity: value.Div(unitPrice), LineTotal: value}
	}
	return Result{Valid: true, Quantity: value, LineTotal: value.Mul(unitPrice)}
}

// ComputeForProduct runs Compute with the product's price after coercing the mode.
func ComputeForProduct(p domain.Product, raw string, requested Mode) Result {
	return Compute(raw, EffectiveMode(p.Category, requested), p.CurrentPrice)
}

// Sanitize keeps digits and the first decimal point; every other character is dropped.
func Sanitize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	seenPoint := false
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' && !seenPoint:
			seenPoint = true
			b.WriteRune(r)
		}
	}
	return b.String()
}

// isPlainDecimal accepts digits with at most one point. decimal.NewFromString
// would otherwise accept signs and exponents.
func isPlainDecimal(s string) bool {
	digits := 0
	points := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.':
			points++
		default:
			return false
		}
	}
	return digits > 0 && points <= 1
}
