package coachservice

// Coach модель тренера из каталога тренеров
type Coach struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	PricePerSession *float64       `json:"price_per_session"`
	Schedule        *CoachSchedule `json:"schedule"`
}

// CoachSchedule рабочее окно тренера для генерации слотов
type CoachSchedule struct {
	DayStart                string `json:"day_start"`                  // HH:MM
	DayEnd                  string `json:"day_end"`                    // HH:MM
	SessionMinutes          int    `json:"session_minutes"`            // длительность занятия
	AdvanceBookingDays      int    `json:"advance_booking_days"`       // 0 - без ограничений
	MinBookingNoticeMinutes int    `json:"min_booking_notice_minutes"` // минимум до начала слота
}
