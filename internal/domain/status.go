package domain

// SessionStatus — статус signup-сессии.
//
// Жизненный цикл:
//
//	ACTIVE → COMPLETED
//	       ↘ ABANDONED
type SessionStatus string

const (
	// SessionStatusActive — сессия в процессе прохождения flow.
	SessionStatusActive SessionStatus = "ACTIVE"

	// SessionStatusCompleted — flow пройден до конца.
	SessionStatusCompleted SessionStatus = "COMPLETED"

	// SessionStatusAbandoned — пользователь покинул flow.
	SessionStatusAbandoned SessionStatus = "ABANDONED"
)

// IsTerminal возвращает true, если статус финальный (сессия завершена).
func (s SessionStatus) IsTerminal() bool {
	switch s {
	case SessionStatusCompleted, SessionStatusAbandoned:
		return true
	default:
		return false
	}
}
