package domain

import "time"

// StepProgress — запись о прохождении шага в рамках сессии.
//
// Запись создаётся при отправке шага (в том числе при пропуске шага
// fulfillment-проверкой) и удаляется только явным RemoveStep.
type StepProgress struct {
	// StepName — имя шага.
	StepName string `json:"step_name"`

	// WasSkipped — шаг отправлен fulfillment-проверкой, а не
	// пользователем.
	WasSkipped bool `json:"was_skipped,omitempty"`

	// SubmittedAt — время отправки.
	SubmittedAt time.Time `json:"submitted_at"`
}

// SubmitStep записывает прохождение шага и добавляет произведённые им
// зависимости в dependency store.
func (s *SignupSession) SubmitStep(stepName string, wasSkipped bool, deps map[string]any) {
	if s.Progress == nil {
		s.Progress = make(map[string]StepProgress)
	}
	s.Progress[stepName] = StepProgress{
		StepName:    stepName,
		WasSkipped:  wasSkipped,
		SubmittedAt: time.Now(),
	}
	if len(deps) > 0 {
		s.Provide(deps)
	}
	s.UpdatedAt = time.Now()
}

// RemoveStep удаляет запись о прохождении шага.
// Зависимости из dependency store не удаляются: store монотонен.
func (s *SignupSession) RemoveStep(stepName string) {
	delete(s.Progress, stepName)
	s.UpdatedAt = time.Now()
}
