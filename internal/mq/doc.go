// Package mq предоставляет инфраструктуру для работы с RabbitMQ.
//
// Структура:
//   - connection.go — управление соединением с RabbitMQ (reconnect, graceful shutdown)
//   - topology.go   — объявление exchanges, queues, bindings
//   - publisher.go  — публикация сообщений в очереди
//   - consumer.go   — потребление сообщений из очередей
//   - recorder.go   — telemetry.Recorder поверх Publisher
//
// Типы сообщений:
//   - tracks.event       — аналитическое событие
//   - session.created    — создана signup-сессия
//   - session.completed  — сессия завершена
//   - session.abandoned  — сессия брошена
//
// Exchanges:
//   - concierge.events — аналитика и жизненный цикл сессий
//   - concierge.dlq    — dead letter queue
//
// Consumer забирает события пачками (DefaultPrefetch) и при повторной
// ошибке обработки отправляет сообщение в DLQ вместо бесконечного
// requeue.
package mq
