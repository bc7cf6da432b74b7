package payments

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
)

var (
	// ErrIntentNotFound возвращается, когда платежное намерение не найдено
	ErrIntentNotFound = fmt.Errorf("payment intent %w", domain.ErrNotFound)

	// ErrIdempotencyInFlight возвращается, когда запрос с тем же ключом идемпотентности еще выполняется
	ErrIdempotencyInFlight = errors.New("request with this idempotency key is still in progress")

	// ErrConfirmationInProgress возвращается, когда намерение уже подтверждается другим запросом
	ErrConfirmationInProgress = errors.New("payment intent confirmation already in progress")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = fmt.Errorf("payments service: %w", domain.ErrInternal)
)
