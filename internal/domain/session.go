package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// SignupSession — состояние одной signup-сессии.
//
// Сессия создаётся при входе пользователя в flow и живёт до завершения
// или отказа (abandonment). Содержит два накопительных хранилища:
//
//   - Dependencies — значения, собранные предыдущими шагами (dependency
//     store). Ключи добавляются монотонно: каждый ключ производится ровно
//     одним шагом либо подставляется извне (query-string fulfillment).
//   - ExcludedSteps — шаги, исключённые из активного flow. Множество
//     append-only; сброс возможен только явным ResetExcludedStep.
//
// Сессия не даёт транзакционных гарантий: вызывающие стороны обязаны
// отправлять зависимости ровно одного шага за раз.
type SignupSession struct {
	// ID — уникальный идентификатор сессии.
	ID uuid.UUID `json:"id"`

	// FlowName — имя flow, в котором находится сессия
	// (например, "onboarding-new").
	FlowName string `json:"flow_name"`

	// Status — текущий статус сессии.
	Status SessionStatus `json:"status"`

	// Dependencies — dependency store: ключ → значение.
	Dependencies map[string]any `json:"dependencies,omitempty"`

	// ExcludedSteps — шаги, исключённые из flow.
	ExcludedSteps []string `json:"excluded_steps,omitempty"`

	// Progress — отправленные шаги (имя шага → запись прохождения).
	Progress map[string]StepProgress `json:"progress,omitempty"`

	// CreatedAt — время входа в flow.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt — время последнего изменения.
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSignupSession создаёт сессию для указанного flow.
func NewSignupSession(flowName string) *SignupSession {
	now := time.Now()
	return &SignupSession{
		ID:           uuid.New(),
		FlowName:     flowName,
		Status:       SessionStatusActive,
		Dependencies: make(map[string]any),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Provide добавляет зависимости в dependency store.
// Существующие ключи перезаписываются (повторная отправка шага).
func (s *SignupSession) Provide(deps map[string]any) {
	if s.Dependencies == nil {
		s.Dependencies = make(map[string]any, len(deps))
	}
	for k, v := range deps {
		s.Dependencies[k] = v
	}
	s.UpdatedAt = time.Now()
}

// Has возвращает true, если ключ присутствует в dependency store.
// Значение nil считается присутствующим: шаг мог явно произвести
// «пустую» зависимость (например, пропущенный plan-шаг).
func (s *SignupSession) Has(key string) bool {
	_, ok := s.Dependencies[key]
	return ok
}

// Dependency возвращает значение зависимости и признак её наличия.
func (s *SignupSession) Dependency(key string) (any, bool) {
	v, ok := s.Dependencies[key]
	return v, ok
}

// StringDependency возвращает строковую зависимость либо "".
func (s *SignupSession) StringDependency(key string) string {
	if v, ok := s.Dependencies[key].(string); ok {
		return v
	}
	return ""
}

// BoolDependency возвращает булеву зависимость либо false.
func (s *SignupSession) BoolDependency(key string) bool {
	if v, ok := s.Dependencies[key].(bool); ok {
		return v
	}
	return false
}

// ExcludeStep добавляет шаг в множество исключённых. Идемпотентно.
func (s *SignupSession) ExcludeStep(stepName string) {
	if s.IsExcluded(stepName) {
		return
	}
	s.ExcludedSteps = append(s.ExcludedSteps, stepName)
	s.UpdatedAt = time.Now()
}

// ResetExcludedStep убирает шаг из множества исключённых.
// Единственный способ вернуть исключённый шаг в flow.
func (s *SignupSession) ResetExcludedStep(stepName string) {
	i := slices.Index(s.ExcludedSteps, stepName)
	if i < 0 {
		return
	}
	s.ExcludedSteps = slices.Delete(s.ExcludedSteps, i, i+1)
	s.UpdatedAt = time.Now()
}

// IsExcluded возвращает true, если шаг исключён из flow.
func (s *SignupSession) IsExcluded(stepName string) bool {
	return slices.Contains(s.ExcludedSteps, stepName)
}

// MarkCompleted переводит сессию в статус COMPLETED.
func (s *SignupSession) MarkCompleted() {
	s.Status = SessionStatusCompleted
	s.UpdatedAt = time.Now()
}

// MarkAbandoned переводит сессию в статус ABANDONED.
func (s *SignupSession) MarkAbandoned() {
	s.Status = SessionStatusAbandoned
	s.UpdatedAt = time.Now()
}
