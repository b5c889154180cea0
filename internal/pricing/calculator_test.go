package pricing

import (
	"testing"

	"fuel-storefront/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tolerance = decimal.New(1, -6)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func within(t *testing.T, want, got decimal.Decimal) {
	t.Helper()
	diff := want.Sub(got).Abs()
	assert.True(t, diff.LessThanOrEqual(tolerance), "want %s got %s", want, got)
}

func TestComputeByQuantity(t *testing.T) {
	res := Compute("5", ByQuantity, dec("60.00"))
	require.True(t, res.Valid)
	assert.True(t, res.Quantity.Equal(dec("5")))
	assert.True(t, res.LineTotal.Equal(dec("300")))
}

func TestComputeByAmount(t *testing.T) {
	res := Compute("120", ByAmount, dec("60"))
	require.True(t, res.Valid)
	assert.True(t, res.Quantity.Equal(dec("2")))
	assert.True(t, res.LineTotal.Equal(dec("120")))
}

func TestComputeRoundTrip(t *testing.T) {
	price := dec("61.35")

	byAmount := Compute("50", ByAmount, price)
	require.True(t, byAmount.Valid)
	within(t, dec("50").Div(price), byAmount.Quantity)

	back := Compute(byAmount.Quantity.String(), ByQuantity, price)
	require.True(t, back.Valid)
	within(t, dec("50"), back.LineTotal)
}

func TestComputeRejectsInvalidInput(t *testing.T) {
	for _, mode := range []Mode{ByQuantity, ByAmount} {
		for _, raw := range []string{"", "   ", "abc", "-5", "0", "0.000", "1e3", "1.2.3", "+4", "."} {
			res := Compute(raw, mode, dec("60"))
			assert.False(t, res.Valid, "mode=%s raw=%q", mode, raw)
			assert.NotEmpty(t, res.Reason)
			assert.True(t, res.Quantity.IsZero())
			assert.True(t, res.LineTotal.IsZero())
		}
	}
}

func TestComputeRejectsNonPositivePrice(t *testing.T) {
	res := Compute("10", ByAmount, decimal.Zero)
	assert.False(t, res.Valid)
	assert.Equal(t, ReasonInvalidUnitPrice, res.Reason)
}

func TestComputeForProductCoercesMode(t *testing.T) {
	oil := domain.Product{ID: "o1", Category: domain.CategoryMotorOil, CurrentPrice: dec("250")}
	res := ComputeForProduct(oil, "2", ByAmount)
	require.True(t, res.Valid)
	assert.True(t, res.Quantity.Equal(dec("2")))
	assert.True(t, res.LineTotal.Equal(dec("500")))

	fuel := domain.Product{ID: "f1", Category: domain.CategoryFuel, CurrentPrice: dec("50")}
	res = ComputeForProduct(fuel, "100", ByAmount)
	require.True(t, res.Valid)
	assert.True(t, res.Quantity.Equal(dec("2")))
}

func TestSanitize(t *testing.T) {
	cases := map[string]string{
		"12.5":      "12.5",
		"1,234.56":  "1234.56",
		"₱100":      "100",
		"-5":        "5",
		"1.2.3":     "1.23",
		"abc":       "",
		" 7 liters": "7",
	}
	for in, want := range cases {
		assert.Equal(t, want, Sanitize(in), in)
	}
}

func TestSwitchModeResetsInput(t *testing.T) {
	calc := Calculator{}
	fuel := domain.Product{Category: domain.CategoryFuel}
	oil := domain.Product{Category: domain.CategoryEngineOil}

	mode, input := calc.SwitchMode(fuel, ByAmount)
	assert.Equal(t, ByAmount, mode)
	assert.Equal(t, "100", input)

	mode, input = calc.SwitchMode(fuel, ByQuantity)
	assert.Equal(t, ByQuantity, mode)
	assert.Equal(t, "1", input)

	mode, input = calc.SwitchMode(oil, ByAmount)
	assert.Equal(t, ByQuantity, mode)
	assert.Equal(t, "1", input)

	custom := Calculator{AmountDefault: "500"}
	_, input = custom.SwitchMode(fuel, ByAmount)
	assert.Equal(t, "500", input)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("Amount")
	require.NoError(t, err)
	assert.Equal(t, ByAmount, m)

	m, err = ParseMode("liters")
	require.NoError(t, err)
	assert.Equal(t, ByQuantity, m)

	_, err = ParseMode("gallons")
	assert.ErrorIs(t, err, ErrUnknownMode)
}
