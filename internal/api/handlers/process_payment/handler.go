package process_payment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CoachBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-CoachBookingService/internal/service/payments"
	"github.com/m04kA/SMC-CoachBookingService/internal/service/payments/models"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgConflict           = "payment is already being processed"
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

// Handle POST /api/payments/process
// Создание и подтверждение намерения одним запросом
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req ProcessRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /api/payments/process - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	intent, err := h.service.Process(r.Context(), req.ToServiceRequest(r.Header.Get("Idempotency-Key")))
	if err != nil {
		if vErr, ok := handlers.AsValidation(err); ok {
			h.logger.Warn("POST /api/payments/process - Validation failed: %v", vErr)
			handlers.RespondValidation(w, vErr)
			return
		}
		if dErr, ok := handlers.AsDecline(err); ok {
			h.logger.Warn("POST /api/payments/process - Payment declined: code=%s", dErr.Code)
			handlers.RespondDeclined(w, dErr, models.FromDomainIntent(intent))
			return
		}
		switch {
		case errors.Is(err, payments.ErrIdempotencyInFlight),
			errors.Is(err, payments.ErrConfirmationInProgress):
			h.logger.Warn("POST /api/payments/process - Conflict: %v", err)
			handlers.RespondConflict(w, msgConflict)

		default:
			h.logger.Error("POST /api/payments/process - Failed to process payment: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /api/payments/process - Payment processed: id=%s, status=%s", intent.ID, intent.Status)
	handlers.RespondJSON(w, http.StatusOK, ProcessResponse{
		PaymentIntent: models.FromDomainIntent(intent),
		Success:       true,
	})
}
