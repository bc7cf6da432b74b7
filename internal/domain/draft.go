package domain

import "strings"

// StepID identifies one step of the booking flow
type StepID string

const (
	StepLocation StepID = "location"
	StepDateTime StepID = "datetime"
	StepCoach    StepID = "coach"
	StepPlayer   StepID = "player"
	StepPayment  StepID = "payment"
)

// Steps the booking flow in navigation order
var Steps = []StepID{StepLocation, StepDateTime, StepCoach, StepPlayer, StepPayment}

// Valid returns true if the step is part of the flow
func (s StepID) Valid() bool {
	for _, step := range Steps {
		if step == s {
			return true
		}
	}
	return false
}

// Draft field names, shared by the form store and the validator
const (
	FieldLocation        = "location"
	FieldDate            = "date"
	FieldTimeSlot        = "timeSlot"
	FieldRecurring       = "recurring"
	FieldFrequency       = "frequency"
	FieldCoachID         = "coachId"
	FieldCoachName       = "coachName"
	FieldPricePerSession = "pricePerSession"
	FieldAddOns          = "addOns"
	FieldPlayerName      = "playerName"
	FieldPlayerAge       = "playerAge"
	FieldNotes           = "notes"
	FieldCardNumber      = "cardNumber"
	FieldExpiry          = "expiry"
	FieldCVV             = "cvv"
	FieldZIP             = "zip"
	FieldAcceptTerms     = "acceptTerms"
)

// Coach selected for the session
type Coach struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	PricePerSession *float64 `json:"pricePerSession,omitempty"`
}

// Player attending the session
type Player struct {
	Name  string `json:"name"`
	Age   int    `json:"age"`
	Notes string `json:"notes,omitempty"`
}

// PaymentDetails card data entered on the payment step
type PaymentDetails struct {
	CardNumber  string `json:"cardNumber,omitempty"`
	CardLast4   string `json:"cardLast4,omitempty"`
	Expiry      string `json:"expiry,omitempty"`
	CVV         string `json:"cvv,omitempty"`
	ZIP         string `json:"zip,omitempty"`
	AcceptTerms bool   `json:"acceptTerms"`
}

// Scrub drops the card number and CVV, keeping only the last four digits
func (p *PaymentDetails) Scrub() {
	digits := DigitsOnly(p.CardNumber)
	if len(digits) >= 4 {
		p.CardLast4 = digits[len(digits)-4:]
	}
	p.CardNumber = ""
	p.CVV = ""
}

// IsScrubbed reports whether the card was already removed after a submit
func (p PaymentDetails) IsScrubbed() bool {
	return p.CardLast4 != "" && p.CardNumber == "" && p.CVV == ""
}

// BookingDraft in-progress reservation state for one checkout session
type BookingDraft struct {
	Location  string         `json:"location"`
	Date      string         `json:"date"`     // YYYY-MM-DD
	TimeSlot  string         `json:"timeSlot"` // HH:MM
	Recurring bool           `json:"recurring"`
	Frequency string         `json:"frequency,omitempty"`
	Coach     Coach          `json:"coach"`
	AddOns    []string       `json:"addOns,omitempty"`
	Player    Player         `json:"player"`
	Payment   PaymentDetails `json:"payment"`
}

// StepResult outcome of validating one step
type StepResult struct {
	StepID  StepID            `json:"stepId"`
	IsValid bool              `json:"isValid"`
	Errors  map[string]string `json:"errors"`
}

// NewStepResult builds a result; an empty error map means the step is valid
func NewStepResult(step StepID, errs map[string]string) StepResult {
	if errs == nil {
		errs = map[string]string{}
	}
	return StepResult{
		StepID:  step,
		IsValid: len(errs) == 0,
		Errors:  errs,
	}
}

// DigitsOnly strips spaces and dashes from a card-like string
func DigitsOnly(s string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(s)
}
