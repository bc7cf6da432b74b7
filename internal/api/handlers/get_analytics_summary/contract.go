package get_analytics_summary

import (
	"context"

	"github.com/m04kA/SMC-CoachBookingService/internal/analytics"
)

type AnalyticsProvider interface {
	Summary(ctx context.Context) (*analytics.Summary, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}
