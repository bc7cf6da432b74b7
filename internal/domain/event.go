package domain

// Payment event kinds delivered to the webhook
const (
	EventIntentSucceeded = "payment_intent.succeeded"
	EventIntentFailed    = "payment_intent.payment_failed"
)

// PaymentEvent processor notification about a payment intent
type PaymentEvent struct {
	ID   string           `json:"id"`
	Type string           `json:"type"`
	Data PaymentEventData `json:"data"`
}

// PaymentEventData wraps the object the event refers to
type PaymentEventData struct {
	Object PaymentEventObject `json:"object"`
}

// PaymentEventObject the payment intent as seen by the processor
type PaymentEventObject struct {
	ID               string            `json:"id"`
	LastPaymentError *PaymentErrorInfo `json:"last_payment_error,omitempty"`
}

// PaymentErrorInfo failure details attached to a failed intent
type PaymentErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
