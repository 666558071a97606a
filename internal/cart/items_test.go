package cart

import (
	"testing"

	"github.com/shaiso/Concierge/internal/domain"
)

func TestPlanItem(t *testing.T) {
	if item := PlanItem("value_bundle"); item == nil || item.ProductSlug != "value_bundle" {
		t.Errorf("expected value_bundle item, got %+v", item)
	}

	// Бесплатный план — позиции нет
	if item := PlanItem(PlanFreeSlug); item != nil {
		t.Errorf("expected nil for free plan, got %+v", item)
	}
	if item := PlanItem(""); item != nil {
		t.Errorf("expected nil for empty slug, got %+v", item)
	}
}

func TestAddPrivacyProtectionIfSupported(t *testing.T) {
	products := map[string]domain.Product{
		"domain_reg": {
			ProductSlug: "domain_reg",
			IsPrivacyProtectionProductPurchaseAllowed: true,
		},
		"domain_map": {
			ProductSlug: "domain_map",
		},
	}

	item := domain.CartItem{ProductSlug: "domain_reg", Meta: "example.com"}
	got := AddPrivacyProtectionIfSupported(item, products)
	if got.Extra.Privacy == nil || !*got.Extra.Privacy {
		t.Error("privacy should be enabled for domain_reg")
	}

	// Исходная позиция не меняется
	if item.Extra.Privacy != nil {
		t.Error("original item must not be mutated")
	}

	// Продукт без поддержки privacy
	got = AddPrivacyProtectionIfSupported(domain.CartItem{ProductSlug: "domain_map"}, products)
	if got.Extra.Privacy != nil {
		t.Error("privacy should not be set for domain_map")
	}

	// Неизвестный продукт
	got = AddPrivacyProtectionIfSupported(domain.CartItem{ProductSlug: "unknown"}, products)
	if got.Extra.Privacy != nil {
		t.Error("privacy should not be set for unknown product")
	}
}
