package sweeper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shaiso/Concierge/internal/repo"
)

// Default configuration values.
const (
	defaultSessionTTL = 72 * time.Hour
	defaultRetention  = 30 * 24 * time.Hour
)

// Sweeper переводит брошенные сессии в ABANDONED и удаляет давно
// завершённые.
//
// Сессия считается брошенной, если она ACTIVE и не менялась дольше
// SessionTTL: пользователь закрыл вкладку и не вернулся. Терминальные
// сессии (COMPLETED, ABANDONED) удаляются после Retention.
type Sweeper struct {
	sessions  *repo.SessionRepo
	ttl       time.Duration
	retention time.Duration
	logger    *slog.Logger
}

// Config — конфигурация Sweeper.
type Config struct {
	// Sessions — репозиторий сессий. Обязателен.
	Sessions *repo.SessionRepo

	// SessionTTL — бездействие, после которого ACTIVE-сессия
	// считается брошенной (default: 72h).
	SessionTTL time.Duration

	// Retention — срок хранения терминальных сессий (default: 30d).
	Retention time.Duration

	// Logger
	Logger *slog.Logger
}

// New создаёт новый Sweeper.
func New(cfg Config) *Sweeper {
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}

	retention := cfg.Retention
	if retention <= 0 {
		retention = defaultRetention
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Sweeper{
		sessions:  cfg.Sessions,
		ttl:       ttl,
		retention: retention,
		logger:    logger,
	}
}

// Tick выполняет один проход уборки.
//
// 1. ACTIVE-сессии старше SessionTTL переводятся в ABANDONED
// 2. Терминальные сессии старше Retention удаляются
//
// Ошибка первого шага не блокирует второй.
func (s *Sweeper) Tick(ctx context.Context) error {
	now := time.Now()

	abandoned, abandonErr := s.sessions.MarkAbandonedBefore(ctx, now.Add(-s.ttl))
	if abandonErr != nil {
		s.logger.Error("failed to mark abandoned sessions", "error", abandonErr)
	}

	deleted, deleteErr := s.sessions.DeleteTerminalBefore(ctx, now.Add(-s.retention))
	if deleteErr != nil {
		s.logger.Error("failed to delete terminal sessions", "error", deleteErr)
	}

	s.logger.Info("sweep completed",
		"abandoned", abandoned,
		"deleted", deleted,
	)

	if abandonErr != nil || deleteErr != nil {
		return fmt.Errorf("sweep: abandon=%v delete=%v", abandonErr, deleteErr)
	}
	return nil
}
