package stream_notifications

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const (
	subscriberBuffer  = 16
	keepAliveInterval = 25 * time.Second
)

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

// Handle GET /api/v1/notifications/stream
// Server-Sent Events: каждое новое уведомление отправляется отдельным событием
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)

	// Поток живет дольше WriteTimeout сервера
	if err := rc.SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		h.logger.Warn("GET /notifications/stream - Failed to reset write deadline: %v", err)
	}

	events, cancel := h.store.Subscribe(subscriberBuffer)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		h.logger.Error("GET /notifications/stream - ResponseWriter does not support flushing: %v", err)
		return
	}

	h.logger.Info("GET /notifications/stream - Subscriber connected: remote=%s", r.RemoteAddr)

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			h.logger.Info("GET /notifications/stream - Subscriber disconnected: remote=%s", r.RemoteAddr)
			return

		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
			_ = rc.Flush()

		case n, ok := <-events:
			if !ok {
				return
			}
			payload, err := json.Marshal(n)
			if err != nil {
				h.logger.Warn("GET /notifications/stream - Failed to encode notification id=%s: %v", n.ID, err)
				continue
			}
			if _, err := fmt.Fprintf(w, "id: %s\nevent: %s\ndata: %s\n\n", n.ID, n.Kind, payload); err != nil {
				return
			}
			_ = rc.Flush()
		}
	}
}
