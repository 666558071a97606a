package api

import (
	"log/slog"

	"github.com/shaiso/Concierge/internal/checkout"
	"github.com/shaiso/Concierge/internal/engine"
	"github.com/shaiso/Concierge/internal/mq"
	"github.com/shaiso/Concierge/internal/repo"
	"github.com/shaiso/Concierge/internal/signup"
	"github.com/shaiso/Concierge/internal/wpcom"
)

// Handler — главный обработчик API с зависимостями.
type Handler struct {
	sessions  *repo.SessionRepo
	engine    *engine.Engine
	signup    *signup.Service
	wpcom     wpcom.Client
	tokenizer checkout.StripeTokenizer
	slot      *checkout.ResponseSlot
	publisher *mq.Publisher
	logger    *slog.Logger
}

// Config — конфигурация для создания Handler.
type Config struct {
	Sessions *repo.SessionRepo
	Engine   *engine.Engine
	Signup   *signup.Service

	// WPCom и Tokenizer нужны платёжным обработчикам; Processor
	// собирается на каждый запрос, слот результата общий.
	WPCom     wpcom.Client
	Tokenizer checkout.StripeTokenizer

	Publisher *mq.Publisher
	Logger    *slog.Logger
}

// NewHandler создаёт новый Handler.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		sessions:  cfg.Sessions,
		engine:    cfg.Engine,
		signup:    cfg.Signup,
		wpcom:     cfg.WPCom,
		tokenizer: cfg.Tokenizer,
		slot:      &checkout.ResponseSlot{},
		publisher: cfg.Publisher,
		logger:    cfg.Logger,
	}
}
