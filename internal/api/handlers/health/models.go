package health

import "time"

// HealthResponse состояние сервиса
type HealthResponse struct {
	Status      string            `json:"status"`
	Timestamp   time.Time         `json:"timestamp"`
	Uptime      float64           `json:"uptime"` // секунды
	Environment string            `json:"environment"`
	Checks      map[string]string `json:"checks,omitempty"`
}
