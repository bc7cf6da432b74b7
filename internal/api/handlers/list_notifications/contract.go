package list_notifications

import "github.com/m04kA/SMC-CoachBookingService/internal/domain"

type NotificationStore interface {
	Recent(limit int) []domain.Notification
}

type Logger interface {
	Warn(format string, v ...interface{})
}
