package events

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics — Prometheus-счётчики событий.
type Metrics struct {
	// TracksEvents — счётчик tracks-событий по имени события.
	TracksEvents *prometheus.CounterVec

	// SessionEvents — счётчик событий жизненного цикла по типу и flow.
	SessionEvents *prometheus.CounterVec
}

// NewMetrics регистрирует счётчики в default-реестре.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith регистрирует счётчики в указанном реестре.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		TracksEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "concierge_tracks_events_total",
			Help: "Total tracks events consumed, by event name",
		}, []string{"name"}),
		SessionEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "concierge_session_events_total",
			Help: "Total session lifecycle events consumed, by type and flow",
		}, []string{"type", "flow"}),
	}
}
