package mq

import (
	"context"
	"log/slog"

	"github.com/shaiso/Concierge/internal/telemetry"
)

// Recorder публикует tracks-события в RabbitMQ.
//
// При недоступности брокера событие не теряется молча: оно пишется
// в лог, а вызывающая сторона продолжает работу без ошибки.
type Recorder struct {
	publisher *Publisher
	logger    *slog.Logger
}

// NewRecorder создаёт Recorder поверх publisher.
func NewRecorder(publisher *Publisher, logger *slog.Logger) *Recorder {
	return &Recorder{
		publisher: publisher,
		logger:    logger,
	}
}

// Record публикует событие в concierge.events.
func (r *Recorder) Record(ctx context.Context, event telemetry.Event) {
	if err := r.publisher.PublishTracksEvent(ctx, event.Name, event.Properties); err != nil {
		r.logger.Warn("tracks event not published, falling back to log",
			"name", event.Name,
			"properties", event.Properties,
			"error", err,
		)
	}
}
