package create_intent

import (
	"fmt"

	"github.com/m04kA/SMC-CoachBookingService/internal/service/payments/models"
)

// idempotencyHeader заголовок с ключом идемпотентности
const idempotencyHeader = "Idempotency-Key"

// CreateIntentRequest тело запроса
type CreateIntentRequest struct {
	Amount      int64                  `json:"amount"`
	Currency    string                 `json:"currency"`
	Description string                 `json:"description"`
	Metadata    map[string]interface{} `json:"metadata"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CreateIntentRequest) ToServiceRequest(idempotencyKey string) *models.CreateIntentRequest {
	return &models.CreateIntentRequest{
		Amount:         r.Amount,
		Currency:       r.Currency,
		Description:    r.Description,
		Metadata:       StringMetadata(r.Metadata),
		IdempotencyKey: idempotencyKey,
	}
}

// CreateIntentResponse тело ответа
type CreateIntentResponse struct {
	ClientSecret  string                 `json:"clientSecret"`
	PaymentIntent *models.IntentResponse `json:"paymentIntent"`
}

// StringMetadata приводит значения метаданных к строкам
func StringMetadata(in map[string]interface{}) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		switch val := v.(type) {
		case nil:
			continue
		case string:
			out[k] = val
		default:
			out[k] = fmt.Sprint(val)
		}
	}
	return out
}
