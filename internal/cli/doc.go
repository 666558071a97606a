// Package cli реализует инструмент командной строки Concierge.
//
// # Обзор
//
// CLI — клиентская утилита для взаимодействия с Concierge API.
// Работает через HTTP, не импортирует внутренние пакеты системы.
// CLI используется для управления signup-сессиями, fulfillment-проверками
// и checkout-платежами.
//
// # Ключевые компоненты
//
// ## Client
//
// HTTP-клиент для Concierge API. Инкапсулирует все HTTP-запросы,
// парсинг ответов (DataResponse, ListResponse, ErrorResponse)
// и обработку ошибок.
//
//	client := cli.NewClient("http://localhost:8080")
//	flows, err := client.ListFlows()
//
// ## Output
//
// Форматирование вывода. Поддерживает два режима:
//   - Таблицы (text/tabwriter) — по умолчанию
//   - JSON (json.MarshalIndent) — с флагом --json
//
// Данные выводятся в stdout, сообщения (Success/Error) — в stderr.
// Это позволяет использовать pipe: concierge session list --json | jq .
//
// ## Commands
//
// Cobra-команды организованы по ресурсам:
//   - flow: list, show
//   - session: list, start, show, submit, evaluate, complete, abandon
//   - signup: create-site, create-account
//   - checkout: pay, latest, clear
//
// Каждая группа создаётся через фабричную функцию (NewSessionCmd и т.д.),
// принимающую clientFn и outputFn — замыкания для ленивого создания
// Client и Output после парсинга PersistentFlags.
package cli
