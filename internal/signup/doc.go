// Package signup реализует side-effect-шаги signup-flow: создание
// сайтов и аккаунтов, наполнение корзины, установку темы и запуск сайта.
//
// Сетевой ввод-вывод выполняет клиент wpcom; этот пакет решает, какие
// вызовы делать, в каком порядке и как сложить их результаты в
// зависимости для следующего шага. Решения об исключении шагов
// принимает пакет engine.
package signup
