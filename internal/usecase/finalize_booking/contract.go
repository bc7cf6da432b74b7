package finalize_booking

import (
	"context"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	CreateOnce(ctx context.Context, booking *domain.Booking) (*domain.Booking, bool, error)
}

// NotificationPublisher публикация уведомлений
type NotificationPublisher interface {
	Publish(ctx context.Context, n domain.Notification) error
}

// Metrics счетчик созданных бронирований
type Metrics interface {
	IncBookingsFinalized()
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
