package confirm_intent

import (
	"context"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
)

type PaymentService interface {
	ConfirmIntent(ctx context.Context, id, paymentMethodID string) (*domain.PaymentIntent, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
