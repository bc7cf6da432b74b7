package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
	"github.com/m04kA/SMC-CoachBookingService/internal/infra/storage/booking"
)

const (
	ProviderSample = "sample"
	ProviderSQL    = "sql"

	// monthsWindow глубина помесячной статистики
	monthsWindow = 6
)

var (
	// ErrUnknownProvider неизвестное значение analytics.provider
	ErrUnknownProvider = errors.New("analytics: unknown provider")

	// ErrAggregate ошибка построения сводки
	ErrAggregate = errors.New("analytics: failed to aggregate bookings")
)

// MonthCount число бронирований за месяц
type MonthCount struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

// Summary сводка по бронированиям для дашборда
type Summary struct {
	TotalBookings   int64                          `json:"totalBookings"`
	ByStatus        map[domain.BookingStatus]int64 `json:"byStatus"`
	RevenueMinor    int64                          `json:"revenueMinor"`
	Currency        string                         `json:"currency"`
	MonthlyBookings []MonthCount                   `json:"monthlyBookings"`
	GeneratedAt     time.Time                      `json:"generatedAt"`
}

// Provider источник сводки
type Provider interface {
	Summary(ctx context.Context) (*Summary, error)
}

// BookingStats агрегаты из таблицы бронирований
type BookingStats interface {
	CountByStatus(ctx context.Context) (map[domain.BookingStatus]int64, error)
	RevenueMinor(ctx context.Context, currency string) (int64, error)
	MonthlyCounts(ctx context.Context, since time.Time) ([]booking.MonthCount, error)
}

// New выбирает реализацию по имени из конфига
func New(name string, stats BookingStats, currency string) (Provider, error) {
	switch name {
	case ProviderSample, "":
		return NewSampleProvider(currency), nil
	case ProviderSQL:
		return NewSQLProvider(stats, currency), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
}

// SampleProvider статические демо-данные
type SampleProvider struct {
	currency string
	now      func() time.Time
}

func NewSampleProvider(currency string) *SampleProvider {
	return &SampleProvider{currency: currency, now: time.Now}
}

func (p *SampleProvider) Summary(_ context.Context) (*Summary, error) {
	now := p.now().UTC()
	byStatus := map[domain.BookingStatus]int64{
		domain.StatusActive:        42,
		domain.StatusPaused:        3,
		domain.StatusCompleted:     118,
		domain.StatusCancelled:     9,
		domain.StatusPaymentFailed: 4,
	}

	monthly := make([]MonthCount, 0, monthsWindow)
	for i := monthsWindow - 1; i >= 0; i-- {
		month := firstOfMonth(now).AddDate(0, -i, 0)
		monthly = append(monthly, MonthCount{
			Month: month.Format("2006-01"),
			Count: int64(20 + 3*(monthsWindow-i)),
		})
	}

	return &Summary{
		TotalBookings:   sum(byStatus),
		ByStatus:        byStatus,
		RevenueMinor:    1_850_400,
		Currency:        p.currency,
		MonthlyBookings: monthly,
		GeneratedAt:     now,
	}, nil
}

// SQLProvider считает сводку по таблице bookings
type SQLProvider struct {
	stats    BookingStats
	currency string
	now      func() time.Time
}

func NewSQLProvider(stats BookingStats, currency string) *SQLProvider {
	return &SQLProvider{stats: stats, currency: currency, now: time.Now}
}

func (p *SQLProvider) Summary(ctx context.Context) (*Summary, error) {
	now := p.now().UTC()

	byStatus, err := p.stats.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: count by status: %v", ErrAggregate, err)
	}

	revenue, err := p.stats.RevenueMinor(ctx, p.currency)
	if err != nil {
		return nil, fmt.Errorf("%w: revenue: %v", ErrAggregate, err)
	}

	since := firstOfMonth(now).AddDate(0, -(monthsWindow - 1), 0)
	counts, err := p.stats.MonthlyCounts(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("%w: monthly counts: %v", ErrAggregate, err)
	}

	monthly := make([]MonthCount, 0, len(counts))
	for _, c := range counts {
		monthly = append(monthly, MonthCount{Month: c.Month.Format("2006-01"), Count: c.Count})
	}

	return &Summary{
		TotalBookings:   sum(byStatus),
		ByStatus:        byStatus,
		RevenueMinor:    revenue,
		Currency:        p.currency,
		MonthlyBookings: monthly,
		GeneratedAt:     now,
	}, nil
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func sum(byStatus map[domain.BookingStatus]int64) int64 {
	var total int64
	for _, c := range byStatus {
		total += c
	}
	return total
}
