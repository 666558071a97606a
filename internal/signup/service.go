package signup

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/Concierge/internal/domain"
	"github.com/shaiso/Concierge/internal/engine"
	"github.com/shaiso/Concierge/internal/telemetry"
	"github.com/shaiso/Concierge/internal/wpcom"
)

// Default configuration values.
const (
	defaultSitesPollInterval = 300 * time.Millisecond
	defaultSitesPollAttempts = 10
)

// FallbackStore сохраняет корзину и параметры сайта для
// неаутентифицированного checkout-пути: когда bearer-токена ещё нет,
// создание сайта откладывается до завершения аутентификации, а его
// входные данные записываются сюда.
type FallbackStore interface {
	// SaveShoppingCart сохраняет отложенные позиции корзины сессии.
	SaveShoppingCart(ctx context.Context, sessionID uuid.UUID, items []domain.CartItem) error

	// SaveSiteParams сохраняет отложенные параметры создания сайта.
	SaveSiteParams(ctx context.Context, sessionID uuid.UUID, params *domain.NewSiteParams) error
}

// Service выполняет side-effect-шаги signup-flow.
type Service struct {
	client   wpcom.Client
	flows    *engine.FlowRegistry
	fallback FallbackStore
	recorder telemetry.Recorder
	products map[string]domain.Product
	logger   *slog.Logger

	// Polling configuration для ожидания появления нового сайта
	// в списке сайтов пользователя.
	sitesPollInterval time.Duration
	sitesPollAttempts int
}

// Config — конфигурация Service.
type Config struct {
	// Client — клиент REST API. Обязателен.
	Client wpcom.Client

	// Flows — реестр flows (default: engine.DefaultFlows()).
	Flows *engine.FlowRegistry

	// Fallback — хранилище отложенных корзин/параметров. Без него
	// неаутентифицированный путь создания сайта вернёт ошибку.
	Fallback FallbackStore

	// Recorder — приёмник tracks-событий (default: LogRecorder).
	Recorder telemetry.Recorder

	// Products — каталог продуктов для privacy-protection-проверок.
	Products map[string]domain.Product

	// SitesPollInterval / SitesPollAttempts — параметры ожидания
	// нового сайта (default: 300ms × 10).
	SitesPollInterval time.Duration
	SitesPollAttempts int

	// Logger
	Logger *slog.Logger
}

// New создаёт Service.
func New(cfg Config) *Service {
	flows := cfg.Flows
	if flows == nil {
		flows = engine.DefaultFlows()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	recorder := cfg.Recorder
	if recorder == nil {
		recorder = &telemetry.LogRecorder{Logger: logger}
	}
	interval := cfg.SitesPollInterval
	if interval <= 0 {
		interval = defaultSitesPollInterval
	}
	attempts := cfg.SitesPollAttempts
	if attempts <= 0 {
		attempts = defaultSitesPollAttempts
	}
	return &Service{
		client:            cfg.Client,
		flows:             flows,
		fallback:          cfg.Fallback,
		recorder:          recorder,
		products:          cfg.Products,
		logger:            logger,
		sitesPollInterval: interval,
		sitesPollAttempts: attempts,
	}
}

// authenticated возвращает true, если у сессии уже есть bearer-токен.
func authenticated(sess *domain.SignupSession) bool {
	return sess.StringDependency(domain.DepBearerToken) != ""
}

// cartItemDependency достаёт позицию корзины из dependency store.
// Пропущенные шаги пишут nil — для них возвращается nil. Store
// персистится как JSONB, поэтому после чтения из базы значение
// приходит как map[string]any и декодируется обратно в CartItem.
func cartItemDependency(sess *domain.SignupSession, key string) *domain.CartItem {
	v, ok := sess.Dependency(key)
	if !ok || v == nil {
		return nil
	}
	switch item := v.(type) {
	case *domain.CartItem:
		return item
	case domain.CartItem:
		return &item
	case map[string]any:
		raw, err := json.Marshal(item)
		if err != nil {
			return nil
		}
		var decoded domain.CartItem
		if err := json.Unmarshal(raw, &decoded); err != nil {
			return nil
		}
		return &decoded
	}
	return nil
}
