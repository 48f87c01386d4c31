package loader

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport - запрос не удалось выполнить (сеть, DNS, таймаут).
	ErrTransport = errors.New("news request failed")
	// ErrStatus - сервер ответил статусом не из диапазона 2xx.
	ErrStatus = errors.New("unsuccessful news response")
	// ErrPayload - тело ответа не является массивом новостей.
	ErrPayload = errors.New("malformed news payload")
	// ErrNoContainer - на странице нет контейнера для новостей.
	ErrNoContainer = errors.New("news container not found")
)

// StatusError хранит код неуспешного ответа.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status %d", ErrStatus, e.Code)
}

func (e *StatusError) Unwrap() error {
	return ErrStatus
}

// Outcome возвращает метку исхода загрузки для метрик.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrNoContainer):
		return "no_container"
	case errors.Is(err, ErrStatus):
		return "status"
	case errors.Is(err, ErrPayload):
		return "payload"
	default:
		return "transport"
	}
}
