package health

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/m04kA/SMC-CoachBookingService/internal/api/handlers"
)

const (
	statusOK       = "ok"
	statusDegraded = "degraded"
	pingTimeout    = 2 * time.Second
)

type Handler struct {
	environment  string
	startedAt    time.Time
	checks       map[string]Pinger
	timeProvider TimeProvider
	logger       Logger
}

// NewHandler checks может быть пустым; тогда проверяется только сам процесс
func NewHandler(environment string, checks map[string]Pinger, logger Logger) *Handler {
	tp := RealTimeProvider{}
	return &Handler{
		environment:  environment,
		startedAt:    tp.Now(),
		checks:       checks,
		timeProvider: tp,
		logger:       logger,
	}
}

// Handle GET /health
// Недоступная зависимость не меняет код ответа: статус degraded, 200
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	now := h.timeProvider.Now()
	resp := HealthResponse{
		Status:      statusOK,
		Timestamp:   now.UTC(),
		Uptime:      now.Sub(h.startedAt).Seconds(),
		Environment: h.environment,
	}

	if len(h.checks) > 0 {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()

		names := make([]string, 0, len(h.checks))
		for name := range h.checks {
			names = append(names, name)
		}
		sort.Strings(names)

		resp.Checks = make(map[string]string, len(names))
		for _, name := range names {
			if err := h.checks[name].PingContext(ctx); err != nil {
				h.logger.Warn("GET /health - %s unavailable: %v", name, err)
				resp.Checks[name] = err.Error()
				resp.Status = statusDegraded
				continue
			}
			resp.Checks[name] = statusOK
		}
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}
