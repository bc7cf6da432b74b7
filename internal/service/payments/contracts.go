package payments

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
	"github.com/m04kA/SMC-CoachBookingService/internal/integrations/processor"
)

// IntentRepository интерфейс репозитория платежных намерений
type IntentRepository interface {
	Create(ctx context.Context, intent *domain.PaymentIntent) error
	GetByID(ctx context.Context, id string) (*domain.PaymentIntent, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*domain.PaymentIntent, error)
	TransitionStatus(ctx context.Context, id string, to domain.IntentStatus, upd domain.IntentUpdate) (*domain.PaymentIntent, error)
	ReclaimConfirmation(ctx context.Context, id string, staleBefore time.Time) (*domain.PaymentIntent, error)
}

// EventRepository журнал обработанных событий процессора
type EventRepository interface {
	IsProcessed(ctx context.Context, eventID string) (bool, error)
	MarkProcessed(ctx context.Context, event domain.PaymentEvent) (bool, error)
}

// BookingStatusUpdater синхронизация статуса бронирования с платежом
type BookingStatusUpdater interface {
	UpdateStatusByPaymentIntent(ctx context.Context, paymentIntentID string, from []domain.BookingStatus, to domain.BookingStatus) (bool, error)
}

// IdempotencyStore резервирование ключей идемпотентности
type IdempotencyStore interface {
	Reserve(ctx context.Context, key, intentID string) (string, bool, error)
	Release(ctx context.Context, key, intentID string) error
}

// Charger платежный процессор
type Charger interface {
	Charge(ctx context.Context, req processor.ChargeRequest) (*processor.ChargeResult, error)
}

// NotificationPublisher публикация уведомлений
type NotificationPublisher interface {
	Publish(ctx context.Context, n domain.Notification) error
}

// Metrics счетчики переходов статусов
type Metrics interface {
	IncIntentTransition(from, to string)
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реализация TimeProvider
type RealTimeProvider struct{}

func (RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
