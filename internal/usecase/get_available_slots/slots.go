package get_available_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
)

// minutesOfDay переводит "HH:MM" в минуты от начала дня
func minutesOfDay(hhmm string) (int, error) {
	t, err := time.Parse(domain.TimeFormat, hhmm)
	if err != nil {
		return 0, fmt.Errorf("parse time %q: %w", hhmm, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

func formatMinutes(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// generateSlots генерирует слоты рабочего окна тренера с шагом в длительность занятия.
// Слот недоступен, если его занимает активное бронирование или он начинается
// раньше, чем через minBookingNoticeMinutes от текущего момента
func generateSlots(cfg domain.SlotConfig, requestDate, now time.Time, bookings []*domain.Booking) ([]domain.AvailableSlot, error) {
	dayStart, err := minutesOfDay(cfg.DayStart)
	if err != nil {
		return nil, err
	}
	dayEnd, err := minutesOfDay(cfg.DayEnd)
	if err != nil {
		return nil, err
	}
	if cfg.SessionMinutes <= 0 {
		return nil, fmt.Errorf("session length must be positive, got %d", cfg.SessionMinutes)
	}

	// Для сегодняшней даты отсекаем слоты внутри окна минимального уведомления
	earliest := -1
	if isSameDay(requestDate, now) {
		earliest = now.Hour()*60 + now.Minute() + cfg.MinBookingNoticeMinutes
	}

	slots := make([]domain.AvailableSlot, 0)
	for start := dayStart; start+cfg.SessionMinutes <= dayEnd; start += cfg.SessionMinutes {
		available := start >= earliest && !isTaken(start, cfg.SessionMinutes, bookings)
		slots = append(slots, domain.AvailableSlot{
			StartTime:       formatMinutes(start),
			DurationMinutes: cfg.SessionMinutes,
			Available:       available,
		})
	}

	return slots, nil
}

// isTaken проверяет пересечение слота с активными бронированиями.
// Интервалы, которые только граничат друг с другом, не пересекаются
func isTaken(slotStart, duration int, bookings []*domain.Booking) bool {
	slotEnd := slotStart + duration

	for _, booking := range bookings {
		if !booking.IsActive() {
			continue
		}

		bookingStart, err := minutesOfDay(booking.TimeSlot)
		if err != nil {
			continue
		}
		bookingEnd := bookingStart + duration

		if bookingStart < slotEnd && bookingEnd > slotStart {
			return true
		}
	}

	return false
}
