package get_analytics_summary

import (
	"net/http"

	"github.com/m04kA/SMC-CoachBookingService/internal/api/handlers"
)

type Handler struct {
	provider AnalyticsProvider
	logger   Logger
}

func NewHandler(provider AnalyticsProvider, logger Logger) *Handler {
	return &Handler{
		provider: provider,
		logger:   logger,
	}
}

// Handle GET /api/v1/analytics/summary
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	summary, err := h.provider.Summary(r.Context())
	if err != nil {
		h.logger.Error("GET /analytics/summary - Failed to build summary: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /analytics/summary - Summary built: total=%d", summary.TotalBookings)
	handlers.RespondJSON(w, http.StatusOK, summary)
}
