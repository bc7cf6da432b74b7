package payment_webhook

import (
	"context"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
)

type PaymentService interface {
	HandleEvent(ctx context.Context, event domain.PaymentEvent) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
