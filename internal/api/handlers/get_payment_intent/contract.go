package get_payment_intent

import (
	"context"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
)

type PaymentService interface {
	GetIntent(ctx context.Context, id string) (*domain.PaymentIntent, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
