package checkout

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
	"github.com/m04kA/SMC-CoachBookingService/internal/integrations/coachservice"
	paymentModels "github.com/m04kA/SMC-CoachBookingService/internal/service/payments/models"
	"github.com/m04kA/SMC-CoachBookingService/internal/usecase/finalize_booking"
)

// SessionStore хранилище сессий оформления
type SessionStore interface {
	Create(ctx context.Context, session *domain.CheckoutSession) error
	Get(ctx context.Context, id string) (*domain.CheckoutSession, error)
	Update(ctx context.Context, id string, fn func(session *domain.CheckoutSession) error) (*domain.CheckoutSession, error)
	Delete(ctx context.Context, id string) error
}

// StepValidator проверка шагов оформления
type StepValidator interface {
	Validate(step domain.StepID, draft domain.BookingDraft) domain.StepResult
	ValidateAll(draft domain.BookingDraft) []domain.StepResult
}

// PricingService расчет стоимости
type PricingService interface {
	ComputeTotal(coach domain.Coach, addOnCodes []string) domain.PricingBreakdown
}

// CoachDirectory каталог тренеров
type CoachDirectory interface {
	GetCoachWithGracefulDegradation(ctx context.Context, coachID string) (*coachservice.Coach, error)
}

// PaymentService платежные намерения
type PaymentService interface {
	CreateIntent(ctx context.Context, req *paymentModels.CreateIntentRequest) (*domain.PaymentIntent, error)
	GetIntent(ctx context.Context, id string) (*domain.PaymentIntent, error)
	ConfirmIntent(ctx context.Context, id, paymentMethodID string) (*domain.PaymentIntent, error)
}

// BookingFinalizer создание бронирования после оплаты
type BookingFinalizer interface {
	Execute(ctx context.Context, draft domain.BookingDraft, intent *domain.PaymentIntent) (*finalize_booking.Response, error)
}

// Metrics счетчик попыток перехода между шагами
type Metrics interface {
	IncCheckoutStep(step string, valid bool)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
