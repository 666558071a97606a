// Package api содержит HTTP API сервер.
//
// Структура:
//   - handler.go          — Handler с DI (репозиторий, engine, signup, publisher)
//   - routes.go           — регистрация маршрутов
//   - middleware.go       — middleware (logging, recovery)
//   - response.go         — унифицированные JSON-ответы и обработка ошибок
//   - dto.go              — Data Transfer Objects (request/response)
//   - flow_handler.go     — обработчики для /flows
//   - session_handler.go  — обработчики для /sessions
//   - signup_handler.go   — шаги создания сайта и аккаунта
//   - checkout_handler.go — отправка платежей и слот результата
//
// API предоставляет REST endpoints для управления signup-сессиями,
// fulfillment-проверками и checkout-платежами.
package api
