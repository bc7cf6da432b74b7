package domain

import "time"

// NotificationKind doubles as the broker routing key
type NotificationKind string

const (
	NotificationBookingConfirmed NotificationKind = "booking.confirmed"
	NotificationBookingUpdated   NotificationKind = "booking.updated"
	NotificationPaymentFailed    NotificationKind = "payment.failed"
)

// Notification message surfaced to dashboards and mirrored to the broker
type Notification struct {
	ID              string           `json:"id"`
	Kind            NotificationKind `json:"kind"`
	BookingID       *int64           `json:"bookingId,omitempty"`
	PaymentIntentID string           `json:"paymentIntentId,omitempty"`
	Message         string           `json:"message"`
	CreatedAt       time.Time        `json:"createdAt"`
}
