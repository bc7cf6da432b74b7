package process_payment

import (
	"github.com/m04kA/SMC-CoachBookingService/internal/api/handlers/create_intent"
	"github.com/m04kA/SMC-CoachBookingService/internal/service/payments/models"
)

// ProcessRequest тело запроса
type ProcessRequest struct {
	PaymentMethodID string                 `json:"paymentMethodId"`
	Amount          int64                  `json:"amount"`
	Currency        string                 `json:"currency"`
	Description     string                 `json:"description"`
	Metadata        map[string]interface{} `json:"metadata"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *ProcessRequest) ToServiceRequest(idempotencyKey string) *models.ProcessRequest {
	return &models.ProcessRequest{
		CreateIntentRequest: models.CreateIntentRequest{
			Amount:         r.Amount,
			Currency:       r.Currency,
			Description:    r.Description,
			Metadata:       create_intent.StringMetadata(r.Metadata),
			IdempotencyKey: idempotencyKey,
		},
		PaymentMethodID: r.PaymentMethodID,
	}
}

// ProcessResponse тело ответа
type ProcessResponse struct {
	PaymentIntent *models.IntentResponse `json:"paymentIntent"`
	Success       bool                   `json:"success"`
}
