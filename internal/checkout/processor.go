package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shaiso/Concierge/internal/domain"
	"github.com/shaiso/Concierge/internal/wpcom"
)

// Ошибки диспетчеризации платёжных методов. Они отличимы от
// транспортных ошибок REST: вызывающая сторона может показать
// пользователю осмысленное сообщение вместо общего отказа оплаты.
var (
	// ErrNotImplemented — партнёр объявлен, но его processor ещё
	// не реализован.
	ErrNotImplemented = errors.New("checkout: processor not implemented")

	// ErrUnknownPaymentPartner — нераспознанный карточный партнёр.
	ErrUnknownPaymentPartner = errors.New("checkout: unrecognized card payment partner")

	// ErrUnknownPaymentMethod — нераспознанный платёжный метод.
	ErrUnknownPaymentMethod = errors.New("checkout: unrecognized payment method")
)

// StripeTokenizer токенизирует карточные данные на стороне Stripe до
// отправки транзакции.
type StripeTokenizer interface {
	CreatePaymentMethodToken(ctx context.Context, cardholderName, country, postalCode string) (string, error)
}

// SubmitRequest — данные одной попытки оплаты.
type SubmitRequest struct {
	// Method — платёжный метод (см. domain.PaymentMethod).
	Method domain.PaymentMethod

	// PaymentPartner — карточный партнёр для Method = card.
	PaymentPartner domain.CardPartner

	// GatewayID — конкретный шлюз generic-redirect-метода
	// (iDEAL, Sofort и т.п.).
	GatewayID string

	// Cart — оплачиваемые позиции.
	Cart []domain.CartItem

	// CardholderName — имя держателя карты (card-методы).
	CardholderName string

	// WalletToken — платёжные данные платформенного кошелька.
	WalletToken string

	// StoredCardID — идентификатор сохранённой карты.
	StoredCardID int

	// PageURL — адрес текущей страницы checkout; redirect-методы
	// переиспользуют его origin для URL-ов возврата.
	PageURL string

	// ThankYouPath — путь конечной страницы "thank you".
	ThankYouPath string

	// SiteSlug — slug оплачиваемого сайта ("" для покупки без сайта).
	SiteSlug string

	// WhiteGlove — вариант предложения white-glove (маркер в cancel-URL).
	WhiteGlove bool

	// CouponCode — код купона (PayPal Express).
	CouponCode string
}

// Processor сводит платёжные методы к одному контракту отправки.
type Processor struct {
	client    wpcom.Client
	data      DataStore
	slot      *ResponseSlot
	tokenizer StripeTokenizer
	logger    *slog.Logger
}

// ProcessorConfig — конфигурация Processor.
type ProcessorConfig struct {
	// Client — клиент REST API. Обязателен.
	Client wpcom.Client

	// Data — хранилище данных checkout-формы. Обязательно.
	Data DataStore

	// Slot — слот результата (default: новый пустой).
	Slot *ResponseSlot

	// Tokenizer — токенизация карт Stripe. Без него card/stripe
	// вернёт ошибку.
	Tokenizer StripeTokenizer

	// Logger
	Logger *slog.Logger
}

// NewProcessor создаёт Processor.
func NewProcessor(cfg ProcessorConfig) *Processor {
	slot := cfg.Slot
	if slot == nil {
		slot = &ResponseSlot{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		client:    cfg.Client,
		data:      cfg.Data,
		slot:      slot,
		tokenizer: cfg.Tokenizer,
		logger:    logger,
	}
}

// Slot возвращает слот результата транзакции.
func (p *Processor) Slot() *ResponseSlot { return p.slot }

// Submit отправляет платёж выбранным методом. Успешный результат
// фиксируется в слоте, если к тому моменту не начата более новая
// отправка.
func (p *Processor) Submit(ctx context.Context, req *SubmitRequest) (*domain.TransactionResult, error) {
	seq := p.slot.Issue()

	result, err := p.dispatch(ctx, req)
	if err != nil {
		return nil, err
	}

	if !p.slot.Commit(seq, result) {
		p.logger.Debug("transaction result superseded by a newer submission",
			"method", req.Method, "seq", seq)
	}
	return result, nil
}

// dispatch — исчерпывающий разбор платёжного метода.
func (p *Processor) dispatch(ctx context.Context, req *SubmitRequest) (*domain.TransactionResult, error) {
	switch req.Method {
	case domain.PaymentMethodGenericRedirect:
		return p.genericRedirect(ctx, req)
	case domain.PaymentMethodWallet:
		return p.wallet(ctx, req)
	case domain.PaymentMethodCard:
		return p.multiPartnerCard(ctx, req)
	case domain.PaymentMethodExistingCard:
		return p.existingCard(ctx, req)
	case domain.PaymentMethodFreePurchase:
		return p.freePurchase(ctx, req)
	case domain.PaymentMethodFullCredits:
		return p.fullCredits(ctx, req)
	case domain.PaymentMethodPayPalExpress:
		return p.payPalExpress(ctx, req)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPaymentMethod, req.Method)
	}
}

// baseParams собирает общую часть запроса транзакции. Контактные данные
// читаются из хранилища в момент вызова.
func (p *Processor) baseParams(req *SubmitRequest) *wpcom.TransactionParams {
	contact := p.data.ContactInfo()
	return &wpcom.TransactionParams{
		PaymentMethod:   string(req.Method),
		Cart:            req.Cart,
		SiteID:          p.data.SiteID(),
		DomainDetails:   p.data.DomainDetails(),
		Country:         &contact.CountryCode,
		PostalCode:      &contact.PostalCode,
		SubdivisionCode: contact.State,
	}
}

func (p *Processor) genericRedirect(ctx context.Context, req *SubmitRequest) (*domain.TransactionResult, error) {
	urls, err := buildRedirectURLs(req.PageURL, req.SiteSlug, req.ThankYouPath, req.WhiteGlove)
	if err != nil {
		return nil, err
	}

	params := p.baseParams(req)
	params.PaymentMethod = req.GatewayID
	params.SuccessURL = urls.Success
	params.CancelURL = urls.Cancel
	return p.client.Transactions(ctx, params)
}

func (p *Processor) wallet(ctx context.Context, req *SubmitRequest) (*domain.TransactionResult, error) {
	params := p.baseParams(req)
	// Кошелёк не передаёт subdivision: адрес приходит из платёжного
	// листа платформы.
	params.SubdivisionCode = ""
	params.WalletToken = req.WalletToken
	return p.client.Transactions(ctx, params)
}

// multiPartnerCard выбирает карточного партнёра по дискриминанту.
// Нераспознанный партнёр — жёсткий отказ, не no-op.
func (p *Processor) multiPartnerCard(ctx context.Context, req *SubmitRequest) (*domain.TransactionResult, error) {
	switch req.PaymentPartner {
	case domain.CardPartnerStripe:
		return p.stripeCard(ctx, req)
	case domain.CardPartnerEbanx:
		return nil, fmt.Errorf("%w: ebanx", ErrNotImplemented)
	case domain.CardPartnerDlocal:
		return nil, fmt.Errorf("%w: dlocal", ErrNotImplemented)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPaymentPartner, req.PaymentPartner)
	}
}

func (p *Processor) stripeCard(ctx context.Context, req *SubmitRequest) (*domain.TransactionResult, error) {
	if p.tokenizer == nil {
		return nil, fmt.Errorf("%w: stripe tokenizer is not configured", ErrNotImplemented)
	}

	contact := p.data.ContactInfo()
	token, err := p.tokenizer.CreatePaymentMethodToken(ctx, req.CardholderName, contact.CountryCode, contact.PostalCode)
	if err != nil {
		return nil, err
	}

	params := p.baseParams(req)
	params.PaymentMethodToken = token
	params.CardholderName = req.CardholderName
	return p.client.Transactions(ctx, params)
}

func (p *Processor) existingCard(ctx context.Context, req *SubmitRequest) (*domain.TransactionResult, error) {
	params := p.baseParams(req)
	params.StoredCardID = req.StoredCardID
	return p.client.Transactions(ctx, params)
}

func (p *Processor) freePurchase(ctx context.Context, req *SubmitRequest) (*domain.TransactionResult, error) {
	params := p.baseParams(req)
	// Страна и индекс намеренно пустые: налог не считается.
	params.Country = nil
	params.PostalCode = nil
	params.SubdivisionCode = ""
	return p.client.Transactions(ctx, params)
}

func (p *Processor) fullCredits(ctx context.Context, req *SubmitRequest) (*domain.TransactionResult, error) {
	params := p.baseParams(req)
	// Страна и индекс намеренно пустые: налог не считается.
	params.Country = nil
	params.PostalCode = nil
	params.SubdivisionCode = ""
	return p.client.Transactions(ctx, params)
}

func (p *Processor) payPalExpress(ctx context.Context, req *SubmitRequest) (*domain.TransactionResult, error) {
	urls, err := buildReturnURLs(req.PageURL, req.ThankYouPath, req.WhiteGlove)
	if err != nil {
		return nil, err
	}

	params := p.baseParams(req)
	params.SuccessURL = urls.Success
	params.CancelURL = urls.Cancel
	params.CouponID = req.CouponCode
	return p.client.PayPalExpressURL(ctx, params)
}
