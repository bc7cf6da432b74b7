package confirm_intent

import (
	"errors"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-CoachBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
	"github.com/m04kA/SMC-CoachBookingService/internal/service/payments"
	"github.com/m04kA/SMC-CoachBookingService/internal/service/payments/models"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgIntentIDRequired   = "paymentIntentId is required"
	msgNotFound           = "payment intent not found"
	msgInProgress         = "payment intent confirmation already in progress"
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

// Handle POST /api/payments/confirm
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req ConfirmIntentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /api/payments/confirm - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	intentID := strings.TrimSpace(req.PaymentIntentID)
	if intentID == "" {
		h.logger.Warn("POST /api/payments/confirm - Missing paymentIntentId")
		handlers.RespondValidation(w, domain.NewValidationError(map[string]string{"paymentIntentId": msgIntentIDRequired}))
		return
	}

	intent, err := h.service.ConfirmIntent(r.Context(), intentID, req.PaymentMethodID)
	if err != nil {
		if dErr, ok := handlers.AsDecline(err); ok {
			h.logger.Warn("POST /api/payments/confirm - Payment declined: id=%s, code=%s", intentID, dErr.Code)
			handlers.RespondDeclined(w, dErr, models.FromDomainIntent(intent))
			return
		}
		switch {
		case errors.Is(err, domain.ErrNotFound):
			h.logger.Warn("POST /api/payments/confirm - Intent not found: id=%s", intentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, payments.ErrConfirmationInProgress):
			h.logger.Warn("POST /api/payments/confirm - Confirmation in progress: id=%s", intentID)
			handlers.RespondConflict(w, msgInProgress)

		default:
			h.logger.Error("POST /api/payments/confirm - Failed to confirm intent: id=%s, error=%v", intentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /api/payments/confirm - Intent confirmed: id=%s, status=%s", intent.ID, intent.Status)
	handlers.RespondJSON(w, http.StatusOK, ConfirmIntentResponse{
		PaymentIntent: models.FromDomainIntent(intent),
		Success:       true,
	})
}
