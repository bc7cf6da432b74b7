package payment_intent

import "errors"

var (
	// ErrIntentNotFound возвращается, когда платежное намерение не найдено
	ErrIntentNotFound = errors.New("payment_intent.repository: intent not found")

	// ErrDuplicateIdempotencyKey возвращается, когда намерение с таким ключом уже создано
	ErrDuplicateIdempotencyKey = errors.New("payment_intent.repository: duplicate idempotency key")

	// ErrTransitionRejected возвращается, когда статус уже изменился и переход невозможен
	ErrTransitionRejected = errors.New("payment_intent.repository: status transition rejected")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("payment_intent.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("payment_intent.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("payment_intent.repository: failed to scan row")
)
