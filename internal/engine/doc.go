// Package engine содержит движок шаговой оркестрации signup-flow.
//
// Включает:
//   - steps.go       — реестр шагов (provides/optional зависимости)
//   - flows.go       — реестр flow-определений
//   - exclude.go     — контракт исключения шага (shouldExcludeStep)
//   - fulfillment.go — fulfillment-проверки, по одной на пропускаемый шаг
//   - sitetype.go    — таблица типов сайта
//   - verticals.go   — landing page вертикали
//
// Engine решает, какие шаги flow необходимы: шаг исключается, когда его
// ответ уже известен из контекста (query-string, выбранные позиции
// корзины, известные домены сайта). Сам движок сетевых вызовов не
// делает — побочные эффекты ограничены dependency store сессии и
// tracks-событиями.
package engine
