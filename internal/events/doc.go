// Package events реализует потребителя аналитических событий.
//
// Worker подписывается на очереди events.tracks и events.sessions,
// экспортирует счётчики в Prometheus и пишет события в structured log.
// Необработанные tracks-сообщения уходят в DLQ (dlq.events).
//
// Структура:
//   - worker.go   — жизненный цикл Worker (Start, Stop)
//   - handlers.go — обработчики сообщений очередей
//   - metrics.go  — Prometheus-счётчики
package events
