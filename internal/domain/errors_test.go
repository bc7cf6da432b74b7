package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError(map[string]string{
		"currency": "currency is required",
		"amount":   "amount must be greater than 0",
	})

	wrapped := fmt.Errorf("CreateIntent: %w", err)
	assert.True(t, errors.Is(wrapped, ErrValidation))
	assert.Equal(t, "validation failed: amount: amount must be greater than 0; currency: currency is required", err.Error())

	var target *ValidationError
	assert.True(t, errors.As(wrapped, &target))
	assert.Len(t, target.Fields, 2)
}

func TestDeclineError(t *testing.T) {
	err := NewDeclineError(DeclineInsufficientFunds)

	assert.True(t, errors.Is(err, ErrPaymentDeclined))
	assert.Equal(t, "Your card has insufficient funds.", err.Reason)

	unknown := NewDeclineError("do_not_honor")
	assert.Equal(t, DeclineReason(DeclineCardDeclined), unknown.Reason)
}

func TestPaymentDetails_Scrub(t *testing.T) {
	p := PaymentDetails{CardNumber: "4242 4242 4242 4242", Expiry: "12/30", CVV: "123", ZIP: "10001"}

	p.Scrub()

	assert.Empty(t, p.CardNumber)
	assert.Empty(t, p.CVV)
	assert.Equal(t, "4242", p.CardLast4)
	assert.Equal(t, "12/30", p.Expiry)
}

func TestNewPricingBreakdown(t *testing.T) {
	p := NewPricingBreakdown(12000, 2500, 1160, 0.08, "usd")

	assert.Equal(t, int64(15660), p.AmountMinor())
	assert.Equal(t, 120.0, p.SessionPrice)
	assert.Equal(t, 11.6, p.TaxAmount)
	assert.Equal(t, 156.6, p.Total)
}

func TestToMinor(t *testing.T) {
	assert.Equal(t, int64(12960), ToMinor(129.6))
	assert.Equal(t, int64(1), ToMinor(0.005))
	assert.Equal(t, 0.29, FromMinor(ToMinor(0.29)))
}
