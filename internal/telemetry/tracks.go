package telemetry

import (
	"context"
	"log/slog"
	"sync"
)

// Имена tracks-событий. Входят в контракт аналитики: переименование
// разорвёт непрерывность исторических данных.
const (
	// EventExcludeStep — шаг исключён из flow. Payload: step, value.
	EventExcludeStep = "calypso_signup_actions_exclude_step"

	// EventVerticalLandingPage — вход через landing page вертикали.
	// Payload: vertical, flow.
	EventVerticalLandingPage = "calypso_signup_vertical_landing_page"

	// EventRegistration — зарегистрирован новый пользователь.
	// Payload: flow, type ("default" | "social").
	EventRegistration = "calypso_user_registration_complete"
)

// Event — одно tracks-событие.
type Event struct {
	// Name — имя события (см. константы выше).
	Name string `json:"name"`

	// Properties — payload события.
	Properties map[string]any `json:"properties,omitempty"`
}

// Recorder — приёмник tracks-событий.
//
// Запись не должна блокировать оркестрацию: реализациям следует
// деградировать в логирование при недоступности транспорта.
type Recorder interface {
	Record(ctx context.Context, event Event)
}

// ExcludeStepEvent строит событие исключения шага.
// value может быть nil — для шагов, исключённых без значения-причины.
func ExcludeStepEvent(step string, value any) Event {
	return Event{
		Name: EventExcludeStep,
		Properties: map[string]any{
			"step":  step,
			"value": value,
		},
	}
}

// LogRecorder пишет события в лог. Используется как fallback, когда
// брокер событий не сконфигурирован.
type LogRecorder struct {
	Logger *slog.Logger
}

// Record пишет событие в лог.
func (r *LogRecorder) Record(_ context.Context, event Event) {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("tracks event", "name", event.Name, "properties", event.Properties)
}

// MemoryRecorder накапливает события в памяти. Используется в тестах.
type MemoryRecorder struct {
	mu     sync.Mutex
	events []Event
}

// Record сохраняет событие.
func (r *MemoryRecorder) Record(_ context.Context, event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events возвращает копию накопленных событий.
func (r *MemoryRecorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// ByName возвращает события с указанным именем.
func (r *MemoryRecorder) ByName(name string) []Event {
	var out []Event
	for _, e := range r.Events() {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}
