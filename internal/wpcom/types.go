package wpcom

import "github.com/shaiso/Concierge/internal/domain"

// Типы запросов и ответов REST API. Имена JSON-полей — контракт,
// они должны проходить сериализацию без изменений.

// NewSiteResponse — ответ sites/new.
type NewSiteResponse struct {
	Success     bool           `json:"success"`
	BlogDetails NewSiteDetails `json:"blog_details"`

	// IsSignupSandbox — сайт создан в signup-песочнице.
	IsSignupSandbox bool `json:"is_signup_sandbox,omitempty"`
}

// NewSiteDetails — секция blog_details ответа sites/new.
type NewSiteDetails struct {
	URL      string `json:"url"`
	BlogID   int    `json:"blogid"`
	BlogName string `json:"blogname"`
	SiteSlug string `json:"site_slug,omitempty"`
	XMLRPC   string `json:"xmlrpc,omitempty"`
}

// NewUserParams — запрос users/new (стандартная регистрация).
type NewUserParams struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`

	Validate       bool   `json:"validate"`
	SignupFlowName string `json:"signup_flow_name,omitempty"`

	// Ответы NUX-опроса, собранные предыдущими шагами.
	NuxQSiteType        string `json:"nux_q_site_type,omitempty"`
	NuxQQuestionPrimary string `json:"nux_q_question_primary,omitempty"`

	// JetpackRedirect — URL в письме подтверждения.
	JetpackRedirect string `json:"jetpack_redirect,omitempty"`

	// OAuth2-поля: заполняются, когда signup инициирован сторонним
	// OAuth2-клиентом.
	OAuth2ClientID string `json:"oauth2_client_id,omitempty"`
	OAuth2Redirect string `json:"oauth2_redirect,omitempty"`
}

// NewSocialUserParams — запрос users/social/new.
type NewSocialUserParams struct {
	Service        string `json:"service"`
	AccessToken    string `json:"access_token,omitempty"`
	IDToken        string `json:"id_token,omitempty"`
	SignupFlowName string `json:"signup_flow_name,omitempty"`
	Username       string `json:"username,omitempty"`
	Email          string `json:"email,omitempty"`
}

// NewUserResponse — ответ users/new и users/social/new.
type NewUserResponse struct {
	Username    string `json:"username,omitempty"`
	UserID      int    `json:"user_id,omitempty"`
	Email       string `json:"email,omitempty"`
	BearerToken string `json:"bearer_token,omitempty"`

	// Значения, подменённые signup-песочницей. При их наличии они
	// предпочитаются отправленным.
	SignupSandboxUsername string `json:"signup_sandbox_username,omitempty"`
	SignupSandboxUserID   int    `json:"signup_sandbox_user_id,omitempty"`

	MarketingPriceGroup string `json:"marketing_price_group,omitempty"`

	// OAuth2Redirect — legacy-формат "%s@<authorize-url>".
	OAuth2Redirect string `json:"oauth2_redirect,omitempty"`
}

// Site — сайт из sites-списка пользователя.
type Site struct {
	ID   int    `json:"ID"`
	Name string `json:"name,omitempty"`
	Slug string `json:"slug,omitempty"`
	URL  string `json:"URL,omitempty"`
}

// User — текущий пользователь (me).
type User struct {
	ID       int    `json:"ID"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}

// TransactionParams — запрос платёжной транзакции.
type TransactionParams struct {
	PaymentMethod string `json:"payment_method"`

	// GatewayID — конкретный шлюз для generic-redirect методов.
	GatewayID string `json:"payment_partner,omitempty"`

	Cart []domain.CartItem `json:"cart,omitempty"`

	// Платёжные реквизиты. Token — токен карточного метода, Wallet —
	// платёжные данные платформенного кошелька, StoredCardID —
	// сохранённая карта.
	PaymentMethodToken string `json:"payment_key,omitempty"`
	WalletToken        string `json:"wallet_token,omitempty"`
	StoredCardID       int    `json:"stored_details_id,omitempty"`
	CardholderName     string `json:"name,omitempty"`

	SiteID        int                   `json:"site_id,omitempty"`
	DomainDetails *domain.DomainDetails `json:"domain_details,omitempty"`

	// Налоговый контекст. Указатели: nil означает «поле намеренно
	// отсутствует» (free/credits-методы не передают страну и индекс,
	// чтобы не считался налог).
	Country         *string `json:"country,omitempty"`
	PostalCode      *string `json:"postal_code,omitempty"`
	SubdivisionCode string  `json:"subdivision_code,omitempty"`

	// URL-ы возврата для redirect-методов.
	SuccessURL string `json:"success_url,omitempty"`
	CancelURL  string `json:"cancel_url,omitempty"`

	// CouponID — код купона (PayPal Express).
	CouponID string `json:"coupon_id,omitempty"`
}

// MediaItem — медиафайл в ответах media-эндпоинтов.
type MediaItem struct {
	ID          int    `json:"ID,omitempty"`
	URL         string `json:"URL,omitempty"`
	GUID        string `json:"guid,omitempty"`
	Date        string `json:"date,omitempty"`
	Title       string `json:"title,omitempty"`
	TransientID string `json:"transient_id,omitempty"`
}

// MediaListResponse — ответ media-списка.
type MediaListResponse struct {
	Media []MediaItem `json:"media"`
	Found int         `json:"found"`
}
