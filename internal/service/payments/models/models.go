package models

import (
	"time"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
)

// CreateIntentRequest параметры нового платежного намерения
type CreateIntentRequest struct {
	Amount         int64 // минимальные единицы валюты
	Currency       string
	Description    string
	Metadata       map[string]string
	IdempotencyKey string
}

// ProcessRequest создание и подтверждение за один вызов
type ProcessRequest struct {
	CreateIntentRequest
	PaymentMethodID string
}

// IntentResponse платежное намерение в ответах API
type IntentResponse struct {
	ID              string            `json:"id"`
	ClientSecret    string            `json:"clientSecret"`
	Amount          int64             `json:"amount"`
	Currency        string            `json:"currency"`
	Description     string            `json:"description,omitempty"`
	Status          string            `json:"status"`
	Metadata        map[string]string `json:"metadata"`
	PaymentMethodID *string           `json:"paymentMethodId,omitempty"`
	FailureCode     *string           `json:"failureCode,omitempty"`
	FailureMessage  *string           `json:"failureMessage,omitempty"`
	ConfirmedAt     *time.Time        `json:"confirmedAt,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
}

// FromDomainIntent конвертирует domain модель в DTO
func FromDomainIntent(pi *domain.PaymentIntent) *IntentResponse {
	if pi == nil {
		return nil
	}

	metadata := pi.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}

	return &IntentResponse{
		ID:              pi.ID,
		ClientSecret:    pi.ClientSecret,
		Amount:          pi.Amount,
		Currency:        pi.Currency,
		Description:     pi.Description,
		Status:          string(pi.Status),
		Metadata:        metadata,
		PaymentMethodID: pi.PaymentMethodID,
		FailureCode:     pi.FailureCode,
		FailureMessage:  pi.FailureMessage,
		ConfirmedAt:     pi.ConfirmedAt,
		CreatedAt:       pi.CreatedAt,
	}
}
