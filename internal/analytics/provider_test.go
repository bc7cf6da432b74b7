package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
	"github.com/m04kA/SMC-CoachBookingService/internal/infra/storage/booking"
)

type fakeStats struct {
	byStatus map[domain.BookingStatus]int64
	revenue  int64
	monthly  []booking.MonthCount
	err      error
	since    time.Time
	currency string
}

func (f *fakeStats) CountByStatus(context.Context) (map[domain.BookingStatus]int64, error) {
	return f.byStatus, f.err
}

func (f *fakeStats) RevenueMinor(_ context.Context, currency string) (int64, error) {
	f.currency = currency
	return f.revenue, nil
}

func (f *fakeStats) MonthlyCounts(_ context.Context, since time.Time) ([]booking.MonthCount, error) {
	f.since = since
	return f.monthly, nil
}

func TestNew(t *testing.T) {
	p, err := New(ProviderSample, nil, "usd")
	require.NoError(t, err)
	assert.IsType(t, &SampleProvider{}, p)

	p, err = New(ProviderSQL, &fakeStats{}, "usd")
	require.NoError(t, err)
	assert.IsType(t, &SQLProvider{}, p)

	_, err = New("clickhouse", nil, "usd")
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestSampleProvider_Consistent(t *testing.T) {
	p := NewSampleProvider("usd")

	s, err := p.Summary(context.Background())
	require.NoError(t, err)

	var total int64
	for _, c := range s.ByStatus {
		total += c
	}
	assert.Equal(t, total, s.TotalBookings)
	assert.Len(t, s.MonthlyBookings, monthsWindow)
	assert.Equal(t, "usd", s.Currency)
}

func TestSQLProvider_Summary(t *testing.T) {
	stats := &fakeStats{
		byStatus: map[domain.BookingStatus]int64{domain.StatusActive: 2, domain.StatusCancelled: 1},
		revenue:  18900,
		monthly: []booking.MonthCount{
			{Month: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), Count: 1},
			{Month: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), Count: 2},
		},
	}
	p := NewSQLProvider(stats, "usd")
	p.now = func() time.Time { return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC) }

	s, err := p.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(3), s.TotalBookings)
	assert.Equal(t, int64(18900), s.RevenueMinor)
	assert.Equal(t, "usd", stats.currency)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), stats.since)
	assert.Equal(t, []MonthCount{{Month: "2025-05", Count: 1}, {Month: "2025-06", Count: 2}}, s.MonthlyBookings)
}

func TestSQLProvider_Error(t *testing.T) {
	p := NewSQLProvider(&fakeStats{err: errors.New("connection reset")}, "usd")

	_, err := p.Summary(context.Background())
	assert.ErrorIs(t, err, ErrAggregate)
}
