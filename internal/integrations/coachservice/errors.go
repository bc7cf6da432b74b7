package coachservice

import "errors"

var (
	// ErrCoachNotFound возвращается, когда тренер не найден в каталоге
	ErrCoachNotFound = errors.New("coach not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("coachservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("coachservice client: invalid response")
)
