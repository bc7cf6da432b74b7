package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Error taxonomy shared by every layer. Handlers map these to HTTP status codes.
var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrPaymentDeclined    = errors.New("payment declined")
	ErrInvariantViolation = errors.New("invariant violation")
	ErrInternal           = errors.New("internal error")
)

// ValidationError carries field-level messages for a rejected request
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError builds a validation error from field -> message pairs
func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}

	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Decline codes reported by the processor
const (
	DeclineCardDeclined      = "card_declined"
	DeclineInsufficientFunds = "insufficient_funds"
	DeclineExpiredCard       = "expired_card"
	DeclineIncorrectCVC      = "incorrect_cvc"
	DeclineProcessingError   = "processing_error"
)

// declineReasons maps processor codes to user-facing messages
var declineReasons = map[string]string{
	DeclineCardDeclined:      "Your card was declined.",
	DeclineInsufficientFunds: "Your card has insufficient funds.",
	DeclineExpiredCard:       "Your card has expired.",
	DeclineIncorrectCVC:      "Your card's security code is incorrect.",
	DeclineProcessingError:   "An error occurred while processing your card. Try again in a little bit.",
}

// DeclineReason returns the user-facing message for a decline code
func DeclineReason(code string) string {
	if reason, ok := declineReasons[code]; ok {
		return reason
	}
	return declineReasons[DeclineCardDeclined]
}

// DeclineError processor-reported decline
type DeclineError struct {
	Code   string
	Reason string
}

// NewDeclineError builds a decline error with the reason taken from the code table
func NewDeclineError(code string) *DeclineError {
	return &DeclineError{Code: code, Reason: DeclineReason(code)}
}

func (e *DeclineError) Error() string {
	return fmt.Sprintf("%s: %s", ErrPaymentDeclined.Error(), e.Code)
}

func (e *DeclineError) Unwrap() error {
	return ErrPaymentDeclined
}
