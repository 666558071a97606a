package events

import (
	"context"

	"github.com/shaiso/Concierge/internal/mq"
)

// handleTracksEvent обрабатывает tracks-событие из очереди events.tracks.
func (w *Worker) handleTracksEvent(ctx context.Context, delivery *mq.Delivery) error {
	payload, err := mq.ParsePayload[mq.TracksEventPayload](&delivery.Message)
	if err != nil {
		w.logger.Error("failed to parse tracks.event payload", "error", err)
		return err
	}

	if payload.Name == "" {
		// Без имени событие бесполезно для аналитики; в DLQ его не
		// отправляем, просто фиксируем.
		w.logger.Warn("tracks event without a name", "message_id", delivery.Message.ID)
		return nil
	}

	w.metrics.TracksEvents.WithLabelValues(payload.Name).Inc()

	w.logger.Info("tracks event",
		"name", payload.Name,
		"properties", payload.Properties,
	)

	return nil
}

// handleSessionEvent обрабатывает событие жизненного цикла сессии.
func (w *Worker) handleSessionEvent(ctx context.Context, delivery *mq.Delivery) error {
	payload, err := mq.ParsePayload[mq.SessionEventPayload](&delivery.Message)
	if err != nil {
		w.logger.Error("failed to parse session event payload", "error", err)
		return err
	}

	w.metrics.SessionEvents.WithLabelValues(
		string(delivery.Message.Type),
		payload.FlowName,
	).Inc()

	w.logger.Info("session event",
		"type", delivery.Message.Type,
		"session_id", payload.SessionID,
		"flow", payload.FlowName,
		"status", payload.Status,
	)

	return nil
}
