package confirm_intent

import "github.com/m04kA/SMC-CoachBookingService/internal/service/payments/models"

// ConfirmIntentRequest тело запроса
type ConfirmIntentRequest struct {
	PaymentIntentID string `json:"paymentIntentId"`
	PaymentMethodID string `json:"paymentMethodId"`
}

// ConfirmIntentResponse тело ответа
type ConfirmIntentResponse struct {
	PaymentIntent *models.IntentResponse `json:"paymentIntent"`
	Success       bool                   `json:"success"`
}
