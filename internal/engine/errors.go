package engine

import "errors"

// Ошибки реестров.
var (
	// ErrUnknownFlow — flow с таким именем не зарегистрирован.
	ErrUnknownFlow = errors.New("unknown flow")

	// ErrUnknownStep — шаг с таким именем не зарегистрирован.
	ErrUnknownStep = errors.New("unknown step")

	// ErrStepNotInFlow — шаг не входит в указанный flow.
	ErrStepNotInFlow = errors.New("step not in flow")
)
