package finalize_booking

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
)

var (
	// ErrIntentNotSucceeded возвращается, когда бронирование пытаются создать по неоплаченному намерению
	ErrIntentNotSucceeded = fmt.Errorf("finalize_booking: payment intent has not succeeded: %w", domain.ErrInvariantViolation)

	// ErrInvalidDraft возвращается, когда данные черновика нельзя сохранить
	ErrInvalidDraft = errors.New("finalize_booking: invalid draft")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = fmt.Errorf("finalize_booking: %w", domain.ErrInternal)
)
