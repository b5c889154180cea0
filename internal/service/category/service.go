package category

import "fuel-storefront/internal/domain"

// Info describes a category for clients picking an entry mode.
type Info struct {
	Name                string `json:"name"`
	Measure             string `json:"measure"`
	SupportsAmountEntry bool   `json:"supportsAmountEntry"`
}

type Service struct{}

func New() *Service {
	return &Service{}
}

// List returns every category in display order.
func (s *Service) List() []Info {
	cats := domain.Categories()
	out := make([]Info, 0, len(cats))
	for _, c := range cats {
		out = append(out, Info{
			Name:                c.String(),
			Measure:             c.Measure().String(),
			SupportsAmountEntry: c.SupportsAmountEntry(),
		})
	}
	return out
}

// Resolve parses a query label. Blank means no filter.
func (s *Service) Resolve(label string) *domain.Category {
	if label == "" {
		return nil
	}
	c := domain.ParseCategory(label)
	return &c
}
