package stream_notifications

import "github.com/m04kA/SMC-CoachBookingService/internal/domain"

type NotificationStore interface {
	Subscribe(buffer int) (<-chan domain.Notification, func())
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
