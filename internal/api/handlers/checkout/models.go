package checkout

import (
	"time"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
	bookingModels "github.com/m04kA/SMC-CoachBookingService/internal/service/bookings/models"
	paymentModels "github.com/m04kA/SMC-CoachBookingService/internal/service/payments/models"
	checkoutUC "github.com/m04kA/SMC-CoachBookingService/internal/usecase/checkout"
)

// SetFieldRequest тело PUT .../fields
type SetFieldRequest struct {
	Step  string      `json:"step"`
	Name  string      `json:"name"`
	Value interface{} `json:"value"`
}

// CompleteRequest тело POST .../complete
type CompleteRequest struct {
	PaymentMethodID string `json:"paymentMethodId"`
}

// SessionResponse состояние сессии оформления
type SessionResponse struct {
	SessionID       string                              `json:"sessionId"`
	Step            string                              `json:"step"`
	StepIndex       int                                 `json:"stepIndex"`
	Percent         int                                 `json:"percent"`
	Draft           domain.BookingDraft                 `json:"draft"`
	Errors          map[domain.StepID]map[string]string `json:"errors"`
	ReadyToFinalize bool                                `json:"readyToFinalize"`
	PaymentIntentID *string                             `json:"paymentIntentId,omitempty"`
	StepResult      *domain.StepResult                  `json:"stepResult,omitempty"`
	UpdatedAt       time.Time                           `json:"updatedAt"`
}

// SubmitResponse созданное платежное намерение и расчет стоимости
type SubmitResponse struct {
	ClientSecret  string                        `json:"clientSecret"`
	PaymentIntent *paymentModels.IntentResponse `json:"paymentIntent"`
	Pricing       domain.PricingBreakdown       `json:"pricing"`
}

// CompleteResponse созданное бронирование
type CompleteResponse struct {
	Booking       *bookingModels.BookingResponse `json:"booking"`
	PaymentIntent *paymentModels.IntentResponse  `json:"paymentIntent"`
}

// FromView конвертирует состояние use case в ответ
func FromView(v *checkoutUC.View) *SessionResponse {
	errs := v.Session.Errors
	if errs == nil {
		errs = map[domain.StepID]map[string]string{}
	}

	return &SessionResponse{
		SessionID:       v.Session.ID,
		Step:            string(v.Step),
		StepIndex:       v.Session.StepIndex,
		Percent:         v.Percent,
		Draft:           v.Session.Draft,
		Errors:          errs,
		ReadyToFinalize: v.Session.ReadyToFinalize,
		PaymentIntentID: v.Session.PaymentIntentID,
		StepResult:      v.StepResult,
		UpdatedAt:       v.Session.UpdatedAt,
	}
}
