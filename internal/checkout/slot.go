package checkout

import (
	"sync"

	"github.com/shaiso/Concierge/internal/domain"
)

// ResponseSlot — единственный слот результата транзакции.
//
// Новая отправка перекрывает предыдущую: каждой выдаётся порядковый
// номер, и зафиксировать результат может только отправка с последним
// выданным номером. Опоздавший результат более ранней отправки
// отбрасывается — побеждает последняя отправка, а не последний ответ.
type ResponseSlot struct {
	mu     sync.Mutex
	issued uint64
	seq    uint64
	result *domain.TransactionResult
}

// Issue выдаёт порядковый номер новой отправки.
func (s *ResponseSlot) Issue() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// Commit фиксирует результат отправки seq. Возвращает false, если с
// момента выдачи seq была начата более новая отправка.
func (s *ResponseSlot) Commit(seq uint64, result *domain.TransactionResult) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.issued {
		return false
	}
	s.seq = seq
	s.result = result
	return true
}

// Latest возвращает последний зафиксированный результат.
func (s *ResponseSlot) Latest() (*domain.TransactionResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result, s.result != nil
}

// Clear сбрасывает слот (новая checkout-сессия).
func (s *ResponseSlot) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq = 0
	s.result = nil
}
