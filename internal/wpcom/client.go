// Package wpcom — клиент REST API WordPress.com для signup- и
// checkout-оркестрации. Выполняет фактический сетевой ввод-вывод;
// решения о том, какие вызовы делать и в каком порядке, принимают
// пакеты signup и checkout.
package wpcom

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/shaiso/Concierge/internal/domain"
)

// Client — операции REST API, нужные оркестрации.
type Client interface {
	// SitesNew создаёт новый сайт.
	SitesNew(ctx context.Context, params *domain.NewSiteParams) (*NewSiteResponse, error)

	// CreateCart создаёт корзину по ключу (site slug либо "no-site").
	CreateCart(ctx context.Context, cartKey string, items []domain.CartItem) error

	// AddToCart добавляет позиции в существующую корзину.
	AddToCart(ctx context.Context, cartKey string, items []domain.CartItem) error

	// UsersNew регистрирует аккаунт по email/паролю.
	UsersNew(ctx context.Context, params *NewUserParams) (*NewUserResponse, error)

	// UsersSocialNew регистрирует аккаунт через социальный сервис.
	UsersSocialNew(ctx context.Context, params *NewSocialUserParams) (*NewUserResponse, error)

	// ChangeTheme устанавливает тему на сайт.
	ChangeTheme(ctx context.Context, siteSlug, theme string) error

	// LaunchSite публикует сайт.
	LaunchSite(ctx context.Context, siteSlug string) error

	// Sites возвращает сайты текущего пользователя.
	Sites(ctx context.Context) ([]Site, error)

	// Products возвращает каталог продуктов, ключ — product_slug.
	Products(ctx context.Context) (map[string]domain.Product, error)

	// Me возвращает текущего пользователя.
	Me(ctx context.Context) (*User, error)

	// Transactions отправляет платёжную транзакцию.
	Transactions(ctx context.Context, params *TransactionParams) (*domain.TransactionResult, error)

	// PayPalExpressURL создаёт PayPal Express-запрос и возвращает
	// redirect URL в результате.
	PayPalExpressURL(ctx context.Context, params *TransactionParams) (*domain.TransactionResult, error)

	// MediaList возвращает медиафайлы сайта.
	MediaList(ctx context.Context, siteID int, query url.Values) (*MediaListResponse, error)

	// MediaAdd загружает медиафайл на сайт.
	MediaAdd(ctx context.Context, siteID int, item *MediaItem) (*MediaListResponse, error)

	// UploadExternalMedia копирует файлы из внешнего сервиса
	// (Google Photos, Pexels) на сайт.
	UploadExternalMedia(ctx context.Context, siteID int, service string, guids []string) (*MediaListResponse, error)
}

// Error — ошибка REST API. Поле Code соответствует полю "error" ответа.
type Error struct {
	Code    string    `json:"error"`
	Message string    `json:"message"`
	Data    ErrorData `json:"data,omitempty"`

	// HTTPStatus — статус ответа; в JSON не входит.
	HTTPStatus int `json:"-"`
}

// ErrorData — дополнительные данные ошибки.
type ErrorData struct {
	// Email — адрес, вызвавший конфликт при социальной регистрации.
	Email string `json:"email,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("wpcom: %s: %s", e.Code, e.Message)
}

// HTTPClient — реализация Client поверх net/http.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient создаёт клиент API. Базовый URL и bearer-токен берутся
// из WPCOM_BASE_URL и WPCOM_TOKEN, если не заданы аргументами.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	if baseURL == "" {
		baseURL = os.Getenv("WPCOM_BASE_URL")
	}
	if baseURL == "" {
		baseURL = "https://public-api.wordpress.com/rest/v1.1"
	}
	if token == "" {
		token = os.Getenv("WPCOM_TOKEN")
	}
	return &HTTPClient{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SitesNew создаёт новый сайт.
func (c *HTTPClient) SitesNew(ctx context.Context, params *domain.NewSiteParams) (*NewSiteResponse, error) {
	var resp NewSiteResponse
	if err := c.post(ctx, "/sites/new", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateCart создаёт корзину по ключу.
func (c *HTTPClient) CreateCart(ctx context.Context, cartKey string, items []domain.CartItem) error {
	body := map[string]any{"products": items}
	return c.post(ctx, "/me/shopping-cart/"+url.PathEscape(cartKey), body, nil)
}

// AddToCart добавляет позиции в корзину.
func (c *HTTPClient) AddToCart(ctx context.Context, cartKey string, items []domain.CartItem) error {
	body := map[string]any{"products": items}
	return c.post(ctx, "/me/shopping-cart/"+url.PathEscape(cartKey)+"/add", body, nil)
}

// UsersNew регистрирует аккаунт.
func (c *HTTPClient) UsersNew(ctx context.Context, params *NewUserParams) (*NewUserResponse, error) {
	var resp NewUserResponse
	if err := c.post(ctx, "/users/new", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UsersSocialNew регистрирует аккаунт через социальный сервис.
func (c *HTTPClient) UsersSocialNew(ctx context.Context, params *NewSocialUserParams) (*NewUserResponse, error) {
	var resp NewUserResponse
	if err := c.post(ctx, "/users/social/new", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ChangeTheme устанавливает тему на сайт.
func (c *HTTPClient) ChangeTheme(ctx context.Context, siteSlug, theme string) error {
	body := map[string]string{"theme": theme}
	return c.post(ctx, "/sites/"+url.PathEscape(siteSlug)+"/themes/mine", body, nil)
}

// LaunchSite публикует сайт.
func (c *HTTPClient) LaunchSite(ctx context.Context, siteSlug string) error {
	return c.post(ctx, "/sites/"+url.PathEscape(siteSlug)+"/launch", nil, nil)
}

// Sites возвращает сайты пользователя.
func (c *HTTPClient) Sites(ctx context.Context) ([]Site, error) {
	var resp struct {
		Sites []Site `json:"sites"`
	}
	if err := c.get(ctx, "/me/sites", &resp); err != nil {
		return nil, err
	}
	return resp.Sites, nil
}

// Products возвращает каталог продуктов, ключ — product_slug.
func (c *HTTPClient) Products(ctx context.Context) (map[string]domain.Product, error) {
	var products map[string]domain.Product
	if err := c.get(ctx, "/products", &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Me возвращает текущего пользователя.
func (c *HTTPClient) Me(ctx context.Context) (*User, error) {
	var u User
	if err := c.get(ctx, "/me", &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Transactions отправляет платёжную транзакцию.
func (c *HTTPClient) Transactions(ctx context.Context, params *TransactionParams) (*domain.TransactionResult, error) {
	var result domain.TransactionResult
	if err := c.post(ctx, "/me/transactions", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// PayPalExpressURL создаёт PayPal Express-запрос.
func (c *HTTPClient) PayPalExpressURL(ctx context.Context, params *TransactionParams) (*domain.TransactionResult, error) {
	var result domain.TransactionResult
	if err := c.post(ctx, "/me/paypal-express-url", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// MediaList возвращает медиафайлы сайта.
func (c *HTTPClient) MediaList(ctx context.Context, siteID int, query url.Values) (*MediaListResponse, error) {
	path := "/sites/" + strconv.Itoa(siteID) + "/media"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	var resp MediaListResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// MediaAdd загружает медиафайл.
func (c *HTTPClient) MediaAdd(ctx context.Context, siteID int, item *MediaItem) (*MediaListResponse, error) {
	var resp MediaListResponse
	err := c.post(ctx, "/sites/"+strconv.Itoa(siteID)+"/media/new", item, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// UploadExternalMedia копирует файлы из внешнего сервиса.
func (c *HTTPClient) UploadExternalMedia(ctx context.Context, siteID int, service string, guids []string) (*MediaListResponse, error) {
	body := map[string]any{"external_ids": guids}
	path := "/sites/" + strconv.Itoa(siteID) + "/external-media-upload?service=" + url.QueryEscape(service)
	var resp MediaListResponse
	if err := c.post(ctx, path, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// --- HTTP helpers ---

func (c *HTTPClient) get(ctx context.Context, path string, result any) error {
	return c.do(ctx, http.MethodGet, path, nil, result)
}

func (c *HTTPClient) post(ctx context.Context, path string, body, result any) error {
	return c.do(ctx, http.MethodPost, path, body, result)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if err := checkError(resp); err != nil {
		return err
	}

	if result == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func checkError(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	apiErr := &Error{HTTPStatus: resp.StatusCode}
	if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil || apiErr.Code == "" {
		return &Error{
			Code:       "http_error",
			Message:    fmt.Sprintf("HTTP %d", resp.StatusCode),
			HTTPStatus: resp.StatusCode,
		}
	}
	return apiErr
}
