package processor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
	"github.com/m04kA/SMC-CoachBookingService/pkg/logger"
)

func TestMock_Charge(t *testing.T) {
	m := NewMock()
	ctx := context.Background()

	tests := []struct {
		method   string
		approved bool
		code     string
	}{
		{MethodVisa, true, ""},
		{"", true, ""},
		{"pm_custom_token", true, ""},
		{MethodDeclined, false, domain.DeclineCardDeclined},
		{MethodInsufficientFunds, false, domain.DeclineInsufficientFunds},
		{MethodExpiredCard, false, domain.DeclineExpiredCard},
		{MethodIncorrectCVC, false, domain.DeclineIncorrectCVC},
		{MethodProcessingError, false, domain.DeclineProcessingError},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			res, err := m.Charge(ctx, ChargeRequest{IntentID: "pi_1", Amount: 7500, Currency: "gbp", PaymentMethodID: tt.method})

			require.NoError(t, err)
			assert.Equal(t, tt.approved, res.Approved)
			assert.Equal(t, tt.code, res.DeclineCode)
			assert.NotEmpty(t, res.ProcessorRef)
		})
	}
}

func TestMock_Unavailable(t *testing.T) {
	_, err := NewMock().Charge(context.Background(), ChargeRequest{PaymentMethodID: MethodProcessorUnavailable})
	assert.ErrorIs(t, err, ErrUnavailable)
}

type countingCharger struct {
	calls int
	err   error
}

func (c *countingCharger) Charge(_ context.Context, _ ChargeRequest) (*ChargeResult, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return &ChargeResult{Approved: false, DeclineCode: domain.DeclineCardDeclined}, nil
}

func TestBreaker_OpensOnTechnicalFailures(t *testing.T) {
	next := &countingCharger{err: errors.New("connection reset")}
	b := NewBreaker(next, BreakerSettings{MaxFailures: 2, OpenTimeout: time.Minute, HalfOpenProbe: 1}, logger.NewNop())

	for i := 0; i < 2; i++ {
		_, err := b.Charge(context.Background(), ChargeRequest{IntentID: "pi_1"})
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrCircuitOpen)
	}

	_, err := b.Charge(context.Background(), ChargeRequest{IntentID: "pi_1"})

	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, 2, next.calls)
	assert.Equal(t, "open", b.State())
}

func TestBreaker_DeclinesDoNotTrip(t *testing.T) {
	next := &countingCharger{}
	b := NewBreaker(next, BreakerSettings{MaxFailures: 1, OpenTimeout: time.Minute, HalfOpenProbe: 1}, logger.NewNop())

	for i := 0; i < 5; i++ {
		res, err := b.Charge(context.Background(), ChargeRequest{IntentID: "pi_1"})
		require.NoError(t, err)
		assert.False(t, res.Approved)
	}

	assert.Equal(t, 5, next.calls)
	assert.Equal(t, "closed", b.State())
}
