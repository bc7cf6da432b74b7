package process_payment

import (
	"context"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
	"github.com/m04kA/SMC-CoachBookingService/internal/service/payments/models"
)

type PaymentService interface {
	Process(ctx context.Context, req *models.ProcessRequest) (*domain.PaymentIntent, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
