package domain

import "time"

// CheckoutSession server-held state of one booking checkout
type CheckoutSession struct {
	ID              string                       `json:"id"`
	Draft           BookingDraft                 `json:"draft"`
	StepIndex       int                          `json:"stepIndex"`
	Errors          map[StepID]map[string]string `json:"errors,omitempty"`
	PaymentIntentID *string                      `json:"paymentIntentId,omitempty"`
	ReadyToFinalize bool                         `json:"readyToFinalize"`
	CreatedAt       time.Time                    `json:"createdAt"`
	UpdatedAt       time.Time                    `json:"updatedAt"`
}

// CurrentStep step the session is positioned on
func (s *CheckoutSession) CurrentStep() StepID {
	if s.StepIndex < 0 || s.StepIndex >= len(Steps) {
		return Steps[0]
	}
	return Steps[s.StepIndex]
}
