package checkout

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
)

var (
	// ErrSessionNotFound возвращается, когда сессии нет или она истекла
	ErrSessionNotFound = fmt.Errorf("checkout session %w", domain.ErrNotFound)

	// ErrConcurrentUpdate возвращается, когда сессию одновременно изменил другой запрос
	ErrConcurrentUpdate = errors.New("checkout: session was modified by another request")

	// ErrNotAtPaymentStep возвращается при попытке оплаты до последнего шага
	ErrNotAtPaymentStep = errors.New("checkout: session is not at the payment step")

	// ErrNotSubmitted возвращается при завершении оформления без созданного платежа
	ErrNotSubmitted = errors.New("checkout: payment has not been submitted")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = fmt.Errorf("checkout: %w", domain.ErrInternal)
)
