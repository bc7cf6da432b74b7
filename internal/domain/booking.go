package domain

import "time"

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusActive        BookingStatus = "active"
	StatusPaused        BookingStatus = "paused"
	StatusCompleted     BookingStatus = "completed"
	StatusCancelled     BookingStatus = "cancelled"
	StatusPaymentFailed BookingStatus = "payment_failed"
)

// ParseBookingStatus converts a raw string into a known status
func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch BookingStatus(s) {
	case StatusActive, StatusPaused, StatusCompleted, StatusCancelled, StatusPaymentFailed:
		return BookingStatus(s), true
	default:
		return "", false
	}
}

// IsTerminal returns true if no further transitions are possible
func (s BookingStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusPaymentFailed
}

// CanTransitionTo reports whether the booking may move from s to next
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case StatusActive:
		return next == StatusPaused || next == StatusCompleted || next == StatusCancelled || next == StatusPaymentFailed
	case StatusPaused:
		return next == StatusActive || next == StatusCompleted || next == StatusCancelled
	default:
		return false
	}
}

// Booking is the persisted record created once a payment intent has succeeded
type Booking struct {
	ID              int64
	PaymentIntentID string
	Status          BookingStatus

	// Denormalized checkout data
	CoachID     string
	CoachName   string
	PlayerName  string
	PlayerAge   int
	Location    string
	SessionDate time.Time
	TimeSlot    string
	Recurring   bool
	Frequency   *string
	Notes       *string

	Amount   int64 // minor units
	Currency string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking still occupies the coach's slot
func (b *Booking) IsActive() bool {
	return b.Status == StatusActive || b.Status == StatusPaused
}

// BookingsFilter filters for listing bookings
type BookingsFilter struct {
	Status          *BookingStatus
	CoachID         *string
	SessionDate     *time.Time
	IncludeInactive bool
	Limit           int
}
