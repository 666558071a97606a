package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/Concierge/internal/checkout"
	"github.com/shaiso/Concierge/internal/domain"
	"github.com/shaiso/Concierge/internal/engine"
	"github.com/shaiso/Concierge/internal/signup"
)

// Session DTOs

// CreateSessionRequest — запрос на создание signup-сессии.
type CreateSessionRequest struct {
	FlowName string `json:"flow_name"`

	// Dependencies — начальные зависимости (например, переданные
	// из query-string точки входа).
	Dependencies map[string]any `json:"dependencies,omitempty"`
}

// SessionResponse — ответ с сессией.
type SessionResponse struct {
	ID            uuid.UUID                      `json:"id"`
	FlowName      string                         `json:"flow_name"`
	Status        string                         `json:"status"`
	Dependencies  map[string]any                 `json:"dependencies,omitempty"`
	ExcludedSteps []string                       `json:"excluded_steps,omitempty"`
	Progress      map[string]domain.StepProgress `json:"progress,omitempty"`
	CreatedAt     time.Time                      `json:"created_at"`
	UpdatedAt     time.Time                      `json:"updated_at"`
}

// SessionFromDomain конвертирует domain.SignupSession в SessionResponse.
func SessionFromDomain(s *domain.SignupSession) SessionResponse {
	if s == nil {
		return SessionResponse{}
	}
	return SessionResponse{
		ID:            s.ID,
		FlowName:      s.FlowName,
		Status:        string(s.Status),
		Dependencies:  s.Dependencies,
		ExcludedSteps: s.ExcludedSteps,
		Progress:      s.Progress,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

// Step DTOs

// SubmitStepRequest — запрос на отправку шага.
type SubmitStepRequest struct {
	// Dependencies — зависимости, произведённые шагом.
	Dependencies map[string]any `json:"dependencies,omitempty"`

	// WasSkipped — шаг отправлен без участия пользователя.
	WasSkipped bool `json:"was_skipped,omitempty"`
}

// Fulfillment DTOs

// EvaluateRequest — контекст fulfillment-проверок.
type EvaluateRequest struct {
	// Query — query-string параметры входа в flow.
	Query map[string]string `json:"query,omitempty"`

	// SiteDomains — домены, уже привязанные к сайту.
	SiteDomains []domain.SiteDomain `json:"site_domains,omitempty"`

	// IsPaidPlan / SitePlanSlug — текущий план сайта.
	IsPaidPlan   bool   `json:"is_paid_plan,omitempty"`
	SitePlanSlug string `json:"site_plan_slug,omitempty"`

	// DefaultDependencies — зависимости по умолчанию.
	DefaultDependencies map[string]any `json:"default_dependencies,omitempty"`
}

// EvaluateResponse — результат fulfillment-проверок.
type EvaluateResponse struct {
	Outcomes []engine.Outcome `json:"outcomes"`
	Session  SessionResponse  `json:"session"`
}

// Signup action DTOs

// CreateSiteRequest — запрос на выполнение шага выбора домена.
type CreateSiteRequest struct {
	FlowName      string `json:"flow_name,omitempty"`
	LastKnownFlow string `json:"last_known_flow,omitempty"`
	SiteID        int    `json:"site_id,omitempty"`
	SiteSlug      string `json:"site_slug,omitempty"`
	Public        int    `json:"public,omitempty"`
	ComingSoon    bool   `json:"coming_soon,omitempty"`
	InPageBuilder bool   `json:"in_page_builder,omitempty"`
	Username      string `json:"username,omitempty"`
	Timezone      string `json:"timezone,omitempty"`
}

// ProvidedResponse — зависимости, произведённые шагом.
type ProvidedResponse struct {
	Provided map[string]any  `json:"provided"`
	Session  SessionResponse `json:"session"`
}

// CreateAccountRequest — запрос на создание аккаунта.
type CreateAccountRequest struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
	UserID   int    `json:"user_id,omitempty"`

	FlowName      string `json:"flow_name,omitempty"`
	LastKnownFlow string `json:"last_known_flow,omitempty"`

	Service     string `json:"service,omitempty"`
	AccessToken string `json:"access_token,omitempty"`
	IDToken     string `json:"id_token,omitempty"`

	OAuth2Signup   bool   `json:"oauth2_signup,omitempty"`
	OAuth2ClientID string `json:"oauth2_client_id,omitempty"`
	OAuth2Redirect string `json:"oauth2_redirect,omitempty"`

	JetpackRedirect string `json:"jetpack_redirect,omitempty"`
}

// AccountDataFromRequest конвертирует запрос в signup.AccountData.
func AccountDataFromRequest(req *CreateAccountRequest) *signup.AccountData {
	return &signup.AccountData{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		UserID:          req.UserID,
		FlowName:        req.FlowName,
		LastKnownFlow:   req.LastKnownFlow,
		Service:         req.Service,
		AccessToken:     req.AccessToken,
		IDToken:         req.IDToken,
		OAuth2Signup:    req.OAuth2Signup,
		OAuth2ClientID:  req.OAuth2ClientID,
		OAuth2Redirect:  req.OAuth2Redirect,
		JetpackRedirect: req.JetpackRedirect,
	}
}

// PendingCheckoutResponse — отложенная корзина неаутентифицированной
// сессии.
type PendingCheckoutResponse struct {
	ShoppingCart []domain.CartItem     `json:"shopping_cart,omitempty"`
	SiteParams   *domain.NewSiteParams `json:"site_params,omitempty"`
}

// Checkout DTOs

// TransactionRequest — запрос на отправку платежа.
type TransactionRequest struct {
	Method         string            `json:"method"`
	PaymentPartner string            `json:"payment_partner,omitempty"`
	GatewayID      string            `json:"gateway_id,omitempty"`
	Cart           []domain.CartItem `json:"cart,omitempty"`

	CardholderName string `json:"cardholder_name,omitempty"`
	WalletToken    string `json:"wallet_token,omitempty"`
	StoredCardID   int    `json:"stored_card_id,omitempty"`

	PageURL      string `json:"page_url,omitempty"`
	ThankYouPath string `json:"thank_you_path,omitempty"`
	SiteSlug     string `json:"site_slug,omitempty"`
	WhiteGlove   bool   `json:"white_glove,omitempty"`
	CouponCode   string `json:"coupon_code,omitempty"`

	// Контактные данные читаются в момент отправки.
	Contact       TransactionContact    `json:"contact"`
	SiteID        int                   `json:"site_id,omitempty"`
	DomainDetails *domain.DomainDetails `json:"domain_details,omitempty"`
}

// TransactionContact — контактные данные плательщика.
type TransactionContact struct {
	CountryCode string `json:"country_code,omitempty"`
	PostalCode  string `json:"postal_code,omitempty"`
	State       string `json:"state,omitempty"`
}

// SubmitRequestFromTransaction конвертирует запрос в checkout.SubmitRequest.
func SubmitRequestFromTransaction(req *TransactionRequest) *checkout.SubmitRequest {
	return &checkout.SubmitRequest{
		Method:         domain.PaymentMethod(req.Method),
		PaymentPartner: domain.CardPartner(req.PaymentPartner),
		GatewayID:      req.GatewayID,
		Cart:           req.Cart,
		CardholderName: req.CardholderName,
		WalletToken:    req.WalletToken,
		StoredCardID:   req.StoredCardID,
		PageURL:        req.PageURL,
		ThankYouPath:   req.ThankYouPath,
		SiteSlug:       req.SiteSlug,
		WhiteGlove:     req.WhiteGlove,
		CouponCode:     req.CouponCode,
	}
}

// TransactionResponse — результат платежа.
type TransactionResponse struct {
	Result *domain.TransactionResult `json:"result"`
}
