package sessions

import "errors"

var (
	// ErrSessionNotFound сессии нет или истек ее TTL
	ErrSessionNotFound = errors.New("sessions.store: session not found")

	// ErrSessionExists сессия с таким ID уже создана
	ErrSessionExists = errors.New("sessions.store: session already exists")

	// ErrConcurrentUpdate сессию изменил параллельный запрос
	ErrConcurrentUpdate = errors.New("sessions.store: concurrent update")

	// ErrStore ошибка Redis или сериализации
	ErrStore = errors.New("sessions.store: redis error")
)
