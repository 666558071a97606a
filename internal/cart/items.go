// Package cart содержит помощники для формирования позиций корзины:
// позиции планов и условное добавление privacy protection к доменам.
package cart

import "github.com/shaiso/Concierge/internal/domain"

// PlanFreeSlug — слаг бесплатного плана. Для него позиция корзины
// не создаётся.
const PlanFreeSlug = "free_plan"

// PlanItem возвращает позицию корзины для платного плана.
// Для бесплатного плана (или пустого слага) возвращает nil.
func PlanItem(planSlug string) *domain.CartItem {
	if planSlug == "" || planSlug == PlanFreeSlug {
		return nil
	}
	return &domain.CartItem{ProductSlug: planSlug}
}

// SupportsPrivacyProtectionPurchase проверяет по каталогу продуктов,
// допускает ли продукт покупку privacy protection.
func SupportsPrivacyProtectionPurchase(productSlug string, products map[string]domain.Product) bool {
	p, ok := products[productSlug]
	if !ok {
		return false
	}
	return p.IsPrivacyProtectionProductPurchaseAllowed
}

// AddPrivacyProtectionIfSupported возвращает позицию с включённой privacy
// protection, если продукт её поддерживает; иначе позицию без изменений.
func AddPrivacyProtectionIfSupported(item domain.CartItem, products map[string]domain.Product) domain.CartItem {
	if SupportsPrivacyProtectionPurchase(item.ProductSlug, products) {
		return item.WithPrivacy(true)
	}
	return item
}
