package domain

import "time"

// IntentStatus represents the status of a payment intent
// Transitions only move forward: requires_payment_method -> requires_confirmation -> {succeeded | failed}
type IntentStatus string

const (
	IntentRequiresPaymentMethod IntentStatus = "requires_payment_method"
	IntentRequiresConfirmation  IntentStatus = "requires_confirmation"
	IntentSucceeded             IntentStatus = "succeeded"
	IntentFailed                IntentStatus = "failed"
)

// IsTerminal returns true for succeeded and failed intents
func (s IntentStatus) IsTerminal() bool {
	return s == IntentSucceeded || s == IntentFailed
}

// CanTransitionTo reports whether the intent may move from s to next.
// A webhook may finalize an intent that the client never confirmed,
// so requires_payment_method may jump straight to a terminal status.
func (s IntentStatus) CanTransitionTo(next IntentStatus) bool {
	switch s {
	case IntentRequiresPaymentMethod:
		return next == IntentRequiresConfirmation || next == IntentSucceeded || next == IntentFailed
	case IntentRequiresConfirmation:
		return next == IntentSucceeded || next == IntentFailed
	default:
		return false
	}
}

// PredecessorsOf returns every status from which next is reachable in one step
func PredecessorsOf(next IntentStatus) []IntentStatus {
	all := []IntentStatus{IntentRequiresPaymentMethod, IntentRequiresConfirmation, IntentSucceeded, IntentFailed}

	result := make([]IntentStatus, 0, 2)
	for _, s := range all {
		if s.CanTransitionTo(next) {
			result = append(result, s)
		}
	}
	return result
}

// PaymentIntent is a server-tracked record of an attempted charge
type PaymentIntent struct {
	ID              string
	ClientSecret    string
	Amount          int64 // minor units (cents/pence)
	Currency        string
	Description     string
	Status          IntentStatus
	Metadata        map[string]string
	PaymentMethodID *string
	FailureCode     *string
	FailureMessage  *string
	IdempotencyKey  *string
	ConfirmedAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IntentUpdate fields stamped together with a status transition
type IntentUpdate struct {
	PaymentMethodID *string
	FailureCode     *string
	FailureMessage  *string
	ConfirmedAt     *time.Time
}
