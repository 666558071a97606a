package events

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/shaiso/Concierge/internal/mq"
)

// Worker потребляет события из RabbitMQ.
//
// Worker — stateless компонент системы, который:
//   - Получает tracks-события из очереди events.tracks
//   - Получает события жизненного цикла сессий из events.sessions
//   - Экспортирует счётчики по именам событий в Prometheus
//   - Пишет события в structured log
//
// Workers масштабируются горизонтально — несколько экземпляров
// могут потреблять из одной очереди.
type Worker struct {
	conn *mq.Connection

	tracksConsumer   *mq.Consumer
	sessionsConsumer *mq.Consumer

	metrics *Metrics

	logger     *slog.Logger
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	stopped    bool
	stoppedMu  sync.RWMutex
}

// Config — конфигурация Worker.
type Config struct {
	// Conn — соединение с RabbitMQ. Обязательно.
	Conn *mq.Connection

	// Metrics — счётчики событий (default: NewMetrics()).
	Metrics *Metrics

	// Logger
	Logger *slog.Logger
}

// New создаёт новый Worker.
func New(cfg Config) *Worker {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	metrics := cfg.Metrics
	if metrics == nil {
		metrics = NewMetrics()
	}

	return &Worker{
		conn:    cfg.Conn,
		metrics: metrics,
		logger:  logger,
	}
}

// Start запускает Worker.
//
// Запускает consumer для events.tracks и consumer для events.sessions.
func (w *Worker) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	w.cancelFunc = cancel

	w.logger.Info("starting events worker")

	w.tracksConsumer = mq.NewConsumer(w.conn, w.logger, mq.ConsumerConfig{
		Queue:   string(mq.QueueEventsTracks),
		Handler: w.handleTracksEvent,
	})

	w.sessionsConsumer = mq.NewConsumer(w.conn, w.logger, mq.ConsumerConfig{
		Queue:   string(mq.QueueEventsSessions),
		Handler: w.handleSessionEvent,
	})

	for _, consumer := range []*mq.Consumer{w.tracksConsumer, w.sessionsConsumer} {
		c := consumer
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			if err := c.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				w.logger.Error("event consumer error", "error", err)
			}
		}()
	}

	w.logger.Info("events worker started")
	return nil
}

// Stop останавливает Worker.
func (w *Worker) Stop() {
	w.stoppedMu.Lock()
	w.stopped = true
	w.stoppedMu.Unlock()

	w.logger.Info("stopping events worker...")

	if w.cancelFunc != nil {
		w.cancelFunc()
	}

	if w.tracksConsumer != nil {
		w.tracksConsumer.Stop()
	}
	if w.sessionsConsumer != nil {
		w.sessionsConsumer.Stop()
	}

	w.wg.Wait()

	w.logger.Info("events worker stopped")
}

// IsStopped проверяет, остановлен ли Worker.
func (w *Worker) IsStopped() bool {
	w.stoppedMu.RLock()
	defer w.stoppedMu.RUnlock()
	return w.stopped
}
