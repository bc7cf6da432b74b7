package checkout

import (
	"context"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
	checkoutUC "github.com/m04kA/SMC-CoachBookingService/internal/usecase/checkout"
)

type CheckoutUseCase interface {
	Start(ctx context.Context) (*checkoutUC.View, error)
	Get(ctx context.Context, id string) (*checkoutUC.View, error)
	SetField(ctx context.Context, req *checkoutUC.SetFieldRequest) (*checkoutUC.View, error)
	Next(ctx context.Context, id string) (*checkoutUC.View, error)
	Previous(ctx context.Context, id string) (*checkoutUC.View, error)
	Quote(ctx context.Context, id string) (*domain.PricingBreakdown, error)
	Submit(ctx context.Context, id string) (*checkoutUC.SubmitResponse, error)
	Complete(ctx context.Context, id, paymentMethodID string) (*checkoutUC.CompleteResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
