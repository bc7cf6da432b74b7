package payment_webhook

import (
	"net/http"

	"github.com/m04kA/SMC-CoachBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
)

const msgInvalidRequestBody = "invalid event payload"

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

// Handle POST /api/payments/webhook
// Неизвестные типы событий подтверждаются, чтобы процессор не повторял доставку
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var event domain.PaymentEvent
	if err := handlers.DecodeJSON(r, &event); err != nil {
		h.logger.Warn("POST /api/payments/webhook - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := h.service.HandleEvent(r.Context(), event); err != nil {
		if vErr, ok := handlers.AsValidation(err); ok {
			h.logger.Warn("POST /api/payments/webhook - Invalid event: id=%s, %v", event.ID, vErr)
			handlers.RespondValidation(w, vErr)
			return
		}
		h.logger.Error("POST /api/payments/webhook - Failed to handle event: id=%s, type=%s, error=%v",
			event.ID, event.Type, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /api/payments/webhook - Event accepted: id=%s, type=%s", event.ID, event.Type)
	handlers.RespondJSON(w, http.StatusOK, WebhookResponse{Received: true})
}
