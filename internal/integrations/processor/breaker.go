package processor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"
)

// Charger процессор, к которому обращается платежный сервис
type Charger interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// BreakerSettings параметры размыкателя
type BreakerSettings struct {
	MaxFailures   uint32        // подряд неудачных вызовов до размыкания
	OpenTimeout   time.Duration // сколько цепь остается разомкнутой
	HalfOpenProbe uint32        // сколько пробных вызовов пропускается в half-open
	CallTimeout   time.Duration // таймаут одного вызова процессора
}

// Breaker оборачивает процессор в circuit breaker.
// Срабатывает только на технические ошибки: отказы банка не размыкают цепь
type Breaker struct {
	next        Charger
	cb          *gobreaker.CircuitBreaker[*ChargeResult]
	callTimeout time.Duration
}

// NewBreaker создает обертку над процессором
func NewBreaker(next Charger, settings BreakerSettings, log Logger) *Breaker {
	cb := gobreaker.NewCircuitBreaker[*ChargeResult](gobreaker.Settings{
		Name:        "payment-processor",
		MaxRequests: settings.HalfOpenProbe,
		Timeout:     settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= settings.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("Circuit breaker %s: %s -> %s", name, from, to)
		},
	})

	return &Breaker{
		next:        next,
		cb:          cb,
		callTimeout: settings.CallTimeout,
	}
}

// Charge вызывает процессор через размыкатель
func (b *Breaker) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	result, err := b.cb.Execute(func() (*ChargeResult, error) {
		callCtx := ctx
		if b.callTimeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, b.callTimeout)
			defer cancel()
		}
		return b.next.Charge(callCtx, req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: intent=%s", ErrCircuitOpen, req.IntentID)
		}
		return nil, err
	}
	return result, nil
}

// State текущее состояние размыкателя (для health-check)
func (b *Breaker) State() string {
	return b.cb.State().String()
}
