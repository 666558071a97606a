package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/shaiso/Concierge/internal/domain"
	"github.com/shaiso/Concierge/internal/mq"
)

func newTestWorker(t *testing.T) *Worker {
	t.Helper()
	return New(Config{
		Metrics: NewMetricsWith(prometheus.NewRegistry()),
		Logger:  slog.Default(),
	})
}

// delivery собирает Delivery так, как его видит handler: payload уже
// сериализован в JSON внутри Message.
func delivery(t *testing.T, msgType mq.MessageType, payload any) *mq.Delivery {
	t.Helper()

	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}

	return &mq.Delivery{
		Message: mq.Message{
			ID:      uuid.New().String(),
			Type:    msgType,
			Payload: generic,
		},
	}
}

func TestHandleTracksEvent(t *testing.T) {
	w := newTestWorker(t)

	d := delivery(t, mq.MessageTypeTracksEvent, mq.TracksEventPayload{
		Name:       "calypso_signup_actions_exclude_step",
		Properties: map[string]any{"step": "domains"},
	})

	if err := w.handleTracksEvent(context.Background(), d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := testutil.ToFloat64(w.metrics.TracksEvents.WithLabelValues("calypso_signup_actions_exclude_step"))
	if got != 1 {
		t.Errorf("expected counter 1, got %v", got)
	}
}

func TestHandleTracksEvent_NamelessIsAcked(t *testing.T) {
	w := newTestWorker(t)

	d := delivery(t, mq.MessageTypeTracksEvent, mq.TracksEventPayload{})

	if err := w.handleTracksEvent(context.Background(), d); err != nil {
		t.Fatalf("nameless event should not be an error: %v", err)
	}
}

func TestHandleSessionEvent(t *testing.T) {
	w := newTestWorker(t)

	d := delivery(t, mq.MessageTypeSessionCompleted, mq.SessionEventPayload{
		SessionID: uuid.New(),
		FlowName:  "onboarding",
		Status:    domain.SessionStatusCompleted,
	})

	if err := w.handleSessionEvent(context.Background(), d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := testutil.ToFloat64(w.metrics.SessionEvents.WithLabelValues("session.completed", "onboarding"))
	if got != 1 {
		t.Errorf("expected counter 1, got %v", got)
	}
}
