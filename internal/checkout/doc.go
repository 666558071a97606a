// Package checkout нормализует разнородные платёжные шлюзы (карта,
// redirect-методы, платформенный кошелёк, сохранённая карта,
// бесплатные покупки и кредиты) в один контракт отправки транзакции.
//
// Каждому платёжному методу соответствует ровно одна ветка диспетчера
// Processor.Submit. Результат каждой отправки фиксируется в
// ResponseSlot — единственном слоте, из которого его читает страница
// "thank you"; при конкурирующих отправках побеждает последняя.
package checkout
