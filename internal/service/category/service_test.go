package category

import (
	"testing"

	"fuel-storefront/internal/domain"
)

func TestList(t *testing.T) {
	list := New().List()
	if len(list) != 4 {
		t.Fatalf("expected 4 categories, got %d", len(list))
	}
	if list[0].Name != "Fuel" || list[0].Measure != "volume" || !list[0].SupportsAmountEntry {
		t.Fatalf("unexpected fuel entry %+v", list[0])
	}
	for _, info := range list[1:] {
		if info.Measure != "count" || info.SupportsAmountEntry {
			t.Fatalf("lubricants are counted, got %+v", info)
		}
	}
}

func TestResolve(t *testing.T) {
	svc := New()
	if svc.Resolve("") != nil {
		t.Fatalf("blank label should not filter")
	}
	if got := svc.Resolve("motor oil"); got == nil || *got != domain.CategoryMotorOil {
		t.Fatalf("unexpected %v", got)
	}
	if got := svc.Resolve("Grease"); got == nil || *got != domain.CategoryOtherLubricant {
		t.Fatalf("unknown label should resolve to other lubricant, got %v", got)
	}
}
