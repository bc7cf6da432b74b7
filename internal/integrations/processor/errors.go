package processor

import "errors"

var (
	// ErrUnavailable процессор не ответил или вернул техническую ошибку
	ErrUnavailable = errors.New("processor: unavailable")

	// ErrCircuitOpen запросы к процессору временно не отправляются
	ErrCircuitOpen = errors.New("processor: circuit breaker is open")
)
