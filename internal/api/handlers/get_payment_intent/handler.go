package get_payment_intent

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CoachBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
	"github.com/m04kA/SMC-CoachBookingService/internal/service/payments/models"
)

const msgNotFound = "payment intent not found"

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

// Handle GET /api/payments/{paymentIntentId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	intentID := mux.Vars(r)["paymentIntentId"]

	intent, err := h.service.GetIntent(r.Context(), intentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.logger.Warn("GET /api/payments/{id} - Intent not found: id=%s", intentID)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("GET /api/payments/{id} - Failed to get intent: id=%s, error=%v", intentID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, models.FromDomainIntent(intent))
}
