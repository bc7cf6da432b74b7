package health

import (
	"context"
	"time"
)

// Pinger зависимость, доступность которой проверяется в /health
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingFunc адаптер для клиентов без PingContext (redis)
type PingFunc func(ctx context.Context) error

func (f PingFunc) PingContext(ctx context.Context) error {
	return f(ctx)
}

type TimeProvider interface {
	Now() time.Time
}

type RealTimeProvider struct{}

func (RealTimeProvider) Now() time.Time {
	return time.Now()
}

type Logger interface {
	Warn(format string, v ...interface{})
}
