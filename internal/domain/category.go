package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Category is the closed set of catalog categories. Unit semantics hang off the
// variant so callers never compare category labels.
type Category int

const (
	CategoryOtherLubricant Category = iota
	CategoryFuel
	CategoryMotorOil
	CategoryEngineOil
)

// Measure describes how a category's quantity is counted.
type Measure int

const (
	// MeasureCount is a discrete unit count (bottles, pails).
	MeasureCount Measure = iota
	// MeasureVolume is a continuous volume in liters.
	MeasureVolume
)

func (m Measure) String() string {
	if m == MeasureVolume {
		return "volume"
	}
	return "count"
}

var categoryLabels = map[Category]string{
	CategoryFuel:           "Fuel",
	CategoryMotorOil:       "Motor Oil",
	CategoryEngineOil:      "Engine Oil",
	CategoryOtherLubricant: "Other Lubricant",
}

// Categories lists every variant in display order.
func Categories() []Category {
	return []Category{CategoryFuel, CategoryMotorOil, CategoryEngineOil, CategoryOtherLubricant}
}

// ParseCategory maps a stored label onto a variant. Labels outside the known set
// become CategoryOtherLubricant.
func ParseCategory(label string) Category {
	norm := strings.ToLower(strings.Join(strings.Fields(label), " "))
	norm = strings.ReplaceAll(norm, "_", " ")
	switch norm {
	case "fuel":
		return CategoryFuel
	case "motor oil", "motoroil":
		return CategoryMotorOil
	case "engine oil", "engineoil":
		return CategoryEngineOil
	default:
		return CategoryOtherLubricant
	}
}

func (c Category) String() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// Measure reports whether quantities are liters or unit counts.
func (c Category) Measure() Measure {
	if c == CategoryFuel {
		return MeasureVolume
	}
	return MeasureCount
}

// SupportsAmountEntry is true when a shopper may enter a spend and receive a derived quantity.
func (c Category) SupportsAmountEntry() bool {
	return c == CategoryFuel
}

func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(text []byte) error {
	*c = ParseCategory(string(text))
	return nil
}

// MarshalJSON is explicit so map keys and values render the same label.
func (c Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}
