package create_intent

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CoachBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-CoachBookingService/internal/service/payments"
	"github.com/m04kA/SMC-CoachBookingService/internal/service/payments/models"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgInFlight           = "a request with this idempotency key is still in progress"
)

type Handler struct {
	service PaymentService
	logger  Logger
}

func NewHandler(service PaymentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/payments/create-intent
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateIntentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /api/payments/create-intent - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	intent, err := h.service.CreateIntent(r.Context(), req.ToServiceRequest(r.Header.Get(idempotencyHeader)))
	if err != nil {
		if vErr, ok := handlers.AsValidation(err); ok {
			h.logger.Warn("POST /api/payments/create-intent - Validation failed: %v", vErr)
			handlers.RespondValidation(w, vErr)
			return
		}
		switch {
		case errors.Is(err, payments.ErrIdempotencyInFlight):
			h.logger.Warn("POST /api/payments/create-intent - Idempotency key in flight")
			handlers.RespondConflict(w, msgInFlight)

		default:
			h.logger.Error("POST /api/payments/create-intent - Failed to create intent: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /api/payments/create-intent - Intent created: id=%s, amount=%d %s",
		intent.ID, intent.Amount, intent.Currency)
	handlers.RespondJSON(w, http.StatusOK, CreateIntentResponse{
		ClientSecret:  intent.ClientSecret,
		PaymentIntent: models.FromDomainIntent(intent),
	})
}
