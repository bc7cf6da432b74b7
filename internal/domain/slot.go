package domain

// AvailableSlot represents a coach time slot on a given date
type AvailableSlot struct {
	StartTime       string // HH:MM
	DurationMinutes int
	Available       bool
}

// SlotConfig working window used to generate coach slots
type SlotConfig struct {
	DayStart                string
	DayEnd                  string
	SessionMinutes          int
	AdvanceBookingDays      int
	MinBookingNoticeMinutes int
}

// HasAdvanceBookingLimit returns true if there's a limit on how far in advance bookings can be made
func (c *SlotConfig) HasAdvanceBookingLimit() bool {
	return c.AdvanceBookingDays > 0
}
