package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntentStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from IntentStatus
		to   IntentStatus
		want bool
	}{
		{IntentRequiresPaymentMethod, IntentRequiresConfirmation, true},
		{IntentRequiresPaymentMethod, IntentSucceeded, true},
		{IntentRequiresPaymentMethod, IntentFailed, true},
		{IntentRequiresConfirmation, IntentSucceeded, true},
		{IntentRequiresConfirmation, IntentFailed, true},
		{IntentRequiresConfirmation, IntentRequiresPaymentMethod, false},
		{IntentSucceeded, IntentFailed, false},
		{IntentSucceeded, IntentRequiresPaymentMethod, false},
		{IntentFailed, IntentSucceeded, false},
		{IntentFailed, IntentRequiresConfirmation, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestPredecessorsOf(t *testing.T) {
	assert.ElementsMatch(t,
		[]IntentStatus{IntentRequiresPaymentMethod, IntentRequiresConfirmation},
		PredecessorsOf(IntentSucceeded),
	)
	assert.Equal(t, []IntentStatus{IntentRequiresPaymentMethod}, PredecessorsOf(IntentRequiresConfirmation))
	assert.Empty(t, PredecessorsOf(IntentRequiresPaymentMethod))
}

func TestBookingStatus_CanTransitionTo(t *testing.T) {
	assert.True(t, StatusActive.CanTransitionTo(StatusPaused))
	assert.True(t, StatusPaused.CanTransitionTo(StatusActive))
	assert.True(t, StatusPaused.CanTransitionTo(StatusCancelled))
	assert.False(t, StatusCancelled.CanTransitionTo(StatusActive))
	assert.False(t, StatusCompleted.CanTransitionTo(StatusPaused))
	assert.False(t, StatusPaused.CanTransitionTo(StatusPaymentFailed))

	_, ok := ParseBookingStatus("confirmed")
	assert.False(t, ok)
	status, ok := ParseBookingStatus("paused")
	assert.True(t, ok)
	assert.Equal(t, StatusPaused, status)
}
