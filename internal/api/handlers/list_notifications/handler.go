package list_notifications

import (
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-CoachBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
)

const (
	defaultLimit    = 20
	msgInvalidLimit = "limit must be a positive integer"
)

// ListNotificationsResponse последние уведомления, от новых к старым
type ListNotificationsResponse struct {
	Notifications []domain.Notification `json:"notifications"`
}

type Handler struct {
	store  NotificationStore
	logger Logger
}

func NewHandler(store NotificationStore, logger Logger) *Handler {
	return &Handler{
		store:  store,
		logger: logger,
	}
}

// Handle GET /api/v1/notifications?limit=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	limit := defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			h.logger.Warn("GET /notifications - Invalid limit: %q", raw)
			handlers.RespondBadRequest(w, msgInvalidLimit)
			return
		}
		limit = parsed
	}

	handlers.RespondJSON(w, http.StatusOK, ListNotificationsResponse{Notifications: h.store.Recent(limit)})
}
