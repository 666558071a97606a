package signup

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shaiso/Concierge/internal/wpcom"
)

// Error — одна нормализованная ошибка REST-вызова.
type Error struct {
	// Code — машинный код ошибки (поле "error" ответа API).
	Code string `json:"error"`

	// Message — человекочитаемое сообщение.
	Message string `json:"message"`

	// Email — адрес, вызвавший конфликт. Заполняется только для
	// социальной регистрации.
	Email string `json:"email,omitempty"`
}

func (e Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Errors — список нормализованных ошибок. API возвращает одну ошибку
// на вызов, но контракт вызывающих сторон — список.
type Errors []Error

func (es Errors) Error() string {
	msgs := make([]string, len(es))
	for i, e := range es {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// normalizeError приводит ошибку REST-вызова к Errors.
// social управляет переносом конфликтного email из данных ошибки.
func normalizeError(err error, social bool) Errors {
	if err == nil {
		return nil
	}
	var apiErr *wpcom.Error
	if errors.As(err, &apiErr) {
		e := Error{Code: apiErr.Code, Message: apiErr.Message}
		if social {
			e.Email = apiErr.Data.Email
		}
		return Errors{e}
	}
	return Errors{{Code: "transport_error", Message: err.Error()}}
}
