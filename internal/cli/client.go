package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// --- Response types (дублируются из api/dto.go, CLI не импортирует internal/api) ---

// FlowResponse — flow из API.
type FlowResponse struct {
	Name                string   `json:"name"`
	Steps               []string `json:"steps"`
	DomainStepSkippable bool     `json:"domain_step_skippable,omitempty"`
}

// StepProgress — запись прохождения шага из API.
type StepProgress struct {
	StepName    string `json:"step_name"`
	WasSkipped  bool   `json:"was_skipped,omitempty"`
	SubmittedAt string `json:"submitted_at"`
}

// SessionResponse — сессия из API.
type SessionResponse struct {
	ID            string                  `json:"id"`
	FlowName      string                  `json:"flow_name"`
	Status        string                  `json:"status"`
	Dependencies  map[string]any          `json:"dependencies,omitempty"`
	ExcludedSteps []string                `json:"excluded_steps,omitempty"`
	Progress      map[string]StepProgress `json:"progress,omitempty"`
	CreatedAt     string                  `json:"created_at"`
	UpdatedAt     string                  `json:"updated_at"`
}

// Outcome — результат fulfillment-проверки из API.
type Outcome struct {
	StepName  string   `json:"step_name"`
	Fulfilled []string `json:"fulfilled,omitempty"`
	Excluded  bool     `json:"excluded"`
}

// EvaluateResponse — результат fulfillment-проверок из API.
type EvaluateResponse struct {
	Outcomes []Outcome       `json:"outcomes"`
	Session  SessionResponse `json:"session"`
}

// ProvidedResponse — зависимости, произведённые шагом.
type ProvidedResponse struct {
	Provided map[string]any  `json:"provided"`
	Session  SessionResponse `json:"session"`
}

// TransactionResult — результат платежа из API.
type TransactionResult struct {
	ReceiptID   int    `json:"receipt_id,omitempty"`
	OrderID     int    `json:"order_id,omitempty"`
	RedirectURL string `json:"redirect_url,omitempty"`
}

// TransactionResponse — обёртка результата платежа.
type TransactionResponse struct {
	Result *TransactionResult `json:"result"`
}

// --- Request types ---

// CreateSessionRequest — создание сессии.
type CreateSessionRequest struct {
	FlowName     string         `json:"flow_name"`
	Dependencies map[string]any `json:"dependencies,omitempty"`
}

// SubmitStepRequest — отправка шага.
type SubmitStepRequest struct {
	Dependencies map[string]any `json:"dependencies,omitempty"`
	WasSkipped   bool           `json:"was_skipped,omitempty"`
}

// EvaluateRequest — контекст fulfillment-проверок.
type EvaluateRequest struct {
	Query               map[string]string `json:"query,omitempty"`
	IsPaidPlan          bool              `json:"is_paid_plan,omitempty"`
	SitePlanSlug        string            `json:"site_plan_slug,omitempty"`
	DefaultDependencies map[string]any    `json:"default_dependencies,omitempty"`
}

// TransactionRequest — отправка платежа.
type TransactionRequest struct {
	Method         string             `json:"method"`
	PaymentPartner string             `json:"payment_partner,omitempty"`
	GatewayID      string             `json:"gateway_id,omitempty"`
	CardholderName string             `json:"cardholder_name,omitempty"`
	StoredCardID   int                `json:"stored_card_id,omitempty"`
	PageURL        string             `json:"page_url,omitempty"`
	ThankYouPath   string             `json:"thank_you_path,omitempty"`
	SiteSlug       string             `json:"site_slug,omitempty"`
	Contact        TransactionContact `json:"contact"`
	SiteID         int                `json:"site_id,omitempty"`
}

// TransactionContact — контактные данные плательщика.
type TransactionContact struct {
	CountryCode string `json:"country_code,omitempty"`
	PostalCode  string `json:"postal_code,omitempty"`
	State       string `json:"state,omitempty"`
}

// ListSessionsOpts — параметры фильтрации сессий.
type ListSessionsOpts struct {
	Flow   string
	Status string
	Limit  int
}

// --- API response wrappers ---

type dataResponse struct {
	Data json.RawMessage `json:"data"`
}

type listResponse struct {
	Data  json.RawMessage `json:"data"`
	Total int             `json:"total"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// --- Client ---

// Client — HTTP-клиент для Concierge API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт клиент для API.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// --- Flows ---

// ListFlows возвращает все flows.
func (c *Client) ListFlows() ([]FlowResponse, error) {
	var flows []FlowResponse
	err := c.list("/api/v1/flows", nil, &flows)
	return flows, err
}

// GetFlow возвращает flow по имени.
func (c *Client) GetFlow(name string) (*FlowResponse, error) {
	var flow FlowResponse
	err := c.get("/api/v1/flows/"+name, &flow)
	return &flow, err
}

// --- Sessions ---

// ListSessions возвращает список сессий с фильтрацией.
func (c *Client) ListSessions(opts ListSessionsOpts) ([]SessionResponse, error) {
	params := url.Values{}
	if opts.Flow != "" {
		params.Set("flow", opts.Flow)
	}
	if opts.Status != "" {
		params.Set("status", opts.Status)
	}
	if opts.Limit > 0 {
		params.Set("limit", fmt.Sprintf("%d", opts.Limit))
	}

	var sessions []SessionResponse
	err := c.list("/api/v1/sessions", params, &sessions)
	return sessions, err
}

// CreateSession создаёт сессию для flow.
func (c *Client) CreateSession(req CreateSessionRequest) (*SessionResponse, error) {
	var sess SessionResponse
	err := c.post("/api/v1/sessions", req, &sess)
	return &sess, err
}

// GetSession возвращает сессию по ID.
func (c *Client) GetSession(id string) (*SessionResponse, error) {
	var sess SessionResponse
	err := c.get("/api/v1/sessions/"+id, &sess)
	return &sess, err
}

// SubmitStep отправляет шаг сессии.
func (c *Client) SubmitStep(id, step string, req SubmitStepRequest) (*SessionResponse, error) {
	var sess SessionResponse
	err := c.post("/api/v1/sessions/"+id+"/steps/"+step, req, &sess)
	return &sess, err
}

// Evaluate прогоняет fulfillment-проверки сессии.
func (c *Client) Evaluate(id string, req EvaluateRequest) (*EvaluateResponse, error) {
	var result EvaluateResponse
	err := c.post("/api/v1/sessions/"+id+"/evaluate", req, &result)
	return &result, err
}

// CompleteSession завершает сессию.
func (c *Client) CompleteSession(id string) (*SessionResponse, error) {
	var sess SessionResponse
	err := c.post("/api/v1/sessions/"+id+"/complete", nil, &sess)
	return &sess, err
}

// AbandonSession переводит сессию в ABANDONED.
func (c *Client) AbandonSession(id string) (*SessionResponse, error) {
	var sess SessionResponse
	err := c.post("/api/v1/sessions/"+id+"/abandon", nil, &sess)
	return &sess, err
}

// CreateSiteOrDomain выполняет шаг выбора домена.
func (c *Client) CreateSiteOrDomain(id string, body map[string]any) (*ProvidedResponse, error) {
	var result ProvidedResponse
	err := c.post("/api/v1/sessions/"+id+"/site", body, &result)
	return &result, err
}

// CreateAccount выполняет шаг создания аккаунта.
func (c *Client) CreateAccount(id string, body map[string]any) (*ProvidedResponse, error) {
	var result ProvidedResponse
	err := c.post("/api/v1/sessions/"+id+"/account", body, &result)
	return &result, err
}

// --- Checkout ---

// SubmitTransaction отправляет платёж.
func (c *Client) SubmitTransaction(req TransactionRequest) (*TransactionResponse, error) {
	var result TransactionResponse
	err := c.post("/api/v1/checkout/transactions", req, &result)
	return &result, err
}

// LatestTransaction возвращает результат последней успешной отправки.
func (c *Client) LatestTransaction() (*TransactionResponse, error) {
	var result TransactionResponse
	err := c.get("/api/v1/checkout/transactions/latest", &result)
	return &result, err
}

// ClearTransaction очищает слот результата.
func (c *Client) ClearTransaction() error {
	return c.delete("/api/v1/checkout/transactions/latest")
}

// --- HTTP helpers ---

func (c *Client) get(path string, result any) error {
	return c.doData(http.MethodGet, path, nil, result)
}

func (c *Client) post(path string, body any, result any) error {
	return c.doData(http.MethodPost, path, body, result)
}

func (c *Client) delete(path string) error {
	resp, err := c.do(http.MethodDelete, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return c.checkError(resp)
}

func (c *Client) list(path string, params url.Values, result any) error {
	if len(params) > 0 {
		path = path + "?" + params.Encode()
	}

	resp, err := c.do(http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	var lr listResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return json.Unmarshal(lr.Data, result)
}

func (c *Client) doData(method, path string, body any, result any) error {
	resp, err := c.do(method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	// 204 No Content
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var dr dataResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if result != nil {
		return json.Unmarshal(dr.Data, result)
	}
	return nil
}

func (c *Client) do(method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req)
}

func (c *Client) checkError(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	var er errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return fmt.Errorf("API error: HTTP %d", resp.StatusCode)
	}

	return fmt.Errorf("%s: %s", er.Error.Code, er.Error.Message)
}
