package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	CoachID string    // ID тренера в каталоге
	Date    time.Time // Дата для получения слотов (без времени)
}

// Response модель ответа со списком слотов
type Response struct {
	CoachID string
	Date    time.Time
	Slots   []domain.AvailableSlot
}
