package domain

// CartItem — покупаемая единица в REST-форме (план, домен, тема,
// Google Apps). Имена JSON-полей входят в контракт корзины и должны
// проходить сериализацию без изменений.
type CartItem struct {
	// ProductSlug — слаг продукта (например, "value_bundle",
	// "domain_reg", "premium_theme").
	ProductSlug string `json:"product_slug"`

	// ProductID — числовой идентификатор продукта, если известен.
	ProductID int `json:"product_id,omitempty"`

	// Meta — мета-значение продукта. Для доменов — имя домена.
	Meta string `json:"meta,omitempty"`

	// FreeTrial — пробный период.
	FreeTrial bool `json:"free_trial,omitempty"`

	// Volume — количество (для лицензий Google Apps).
	Volume int `json:"volume,omitempty"`

	// Extra — дополнительные атрибуты позиции.
	Extra CartItemExtra `json:"extra,omitempty"`
}

// CartItemExtra — дополнительные атрибуты позиции корзины.
type CartItemExtra struct {
	// Privacy — включена ли privacy protection для домена.
	// nil — атрибут не задан.
	Privacy *bool `json:"privacy,omitempty"`

	// SignupFlow — имя flow, в котором позиция была добавлена.
	SignupFlow string `json:"signup_flow,omitempty"`

	// GoogleAppsUsers — пользователи Google Apps (для gapps-позиций).
	GoogleAppsUsers []string `json:"google_apps_users,omitempty"`
}

// WithPrivacy возвращает копию позиции с выставленным флагом privacy.
func (c CartItem) WithPrivacy(enabled bool) CartItem {
	c.Extra.Privacy = &enabled
	return c
}

// Product — запись из каталога продуктов. Нужна только для проверки,
// поддерживает ли продукт покупку privacy protection.
type Product struct {
	ProductID   int    `json:"product_id"`
	ProductSlug string `json:"product_slug"`
	ProductName string `json:"product_name"`

	// IsPrivacyProtectionProductPurchaseAllowed — допускает ли продукт
	// докупку privacy protection.
	IsPrivacyProtectionProductPurchaseAllowed bool `json:"is_privacy_protection_product_purchase_allowed,omitempty"`
}

// CartKeyNoSite — сентинельный ключ корзины для покупки домена без сайта.
const CartKeyNoSite = "no-site"
