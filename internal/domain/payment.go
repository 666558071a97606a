package domain

// PaymentMethod — вариант платёжного метода checkout.
//
// Каждому варианту соответствует ровно один processor в пакете checkout;
// диспетчеризация — исчерпывающий switch, неизвестный тег невозможен на
// уровне компиляции там, где используются константы ниже.
type PaymentMethod string

const (
	// PaymentMethodGenericRedirect — redirect-метод общего вида
	// (iDEAL, Sofort, Alipay и т.п.; конкретный шлюз — в GatewayID).
	PaymentMethodGenericRedirect PaymentMethod = "generic-redirect"

	// PaymentMethodWallet — платёж платформенным кошельком (Apple Pay).
	PaymentMethodWallet PaymentMethod = "wallet"

	// PaymentMethodCard — карта через одного из партнёров
	// (см. CardPartner).
	PaymentMethodCard PaymentMethod = "card"

	// PaymentMethodExistingCard — сохранённая карта.
	PaymentMethodExistingCard PaymentMethod = "existing-card"

	// PaymentMethodFreePurchase — бесплатная покупка.
	PaymentMethodFreePurchase PaymentMethod = "free-purchase"

	// PaymentMethodFullCredits — покупка целиком за кредиты.
	PaymentMethodFullCredits PaymentMethod = "full-credits"

	// PaymentMethodPayPalExpress — redirect-кошелёк (PayPal Express).
	PaymentMethodPayPalExpress PaymentMethod = "paypal-express"
)

// CardPartner — карточный партнёр для PaymentMethodCard.
type CardPartner string

const (
	CardPartnerStripe CardPartner = "stripe"
	CardPartnerEbanx  CardPartner = "ebanx"
	CardPartnerDlocal CardPartner = "dlocal"
)

// TransactionResult — нормализованный результат платёжной транзакции.
// Страница "thank you" читает его из единственного слота ответа
// (см. checkout.ResponseSlot).
type TransactionResult struct {
	// ReceiptID — идентификатор чека успешной покупки.
	ReceiptID int `json:"receipt_id,omitempty"`

	// OrderID — идентификатор заказа (для отложенных платежей).
	OrderID int `json:"order_id,omitempty"`

	// RedirectURL — URL, на который нужно отправить пользователя
	// (redirect-методы).
	RedirectURL string `json:"redirect_url,omitempty"`

	// Purchases — успешно купленные позиции по сайтам.
	Purchases map[string][]Purchase `json:"purchases,omitempty"`

	// FailedPurchases — позиции, покупка которых не прошла.
	FailedPurchases map[string][]Purchase `json:"failed_purchases,omitempty"`
}

// Purchase — одна купленная позиция в ответе транзакции.
type Purchase struct {
	ProductSlug string `json:"product_slug"`
	ProductName string `json:"product_name,omitempty"`
	Meta        string `json:"meta,omitempty"`
}

// DomainDetails — контактные данные покупки домена, прикладываемые к
// платёжному запросу.
type DomainDetails struct {
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Address1    string `json:"address_1,omitempty"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	CountryCode string `json:"country_code,omitempty"`
	PostalCode  string `json:"postal_code,omitempty"`
}
