package domain

// Pricing defaults
const (
	DefaultSessionPrice = 75.0 // fallback when the coach carries no explicit rate
	DefaultSetupFee     = 25.0
	DefaultTaxRate      = 0.08
	DefaultCurrency     = "usd"
)

// Player and booking validation constants
const (
	MinPlayerAge       = 3
	MaxPlayerAge       = 18
	MaxNotesLength     = 500
	MaxLocationLength  = 200
	CardNumberLength   = 16
	MinCVVLength       = 3
	MaxCVVLength       = 4
	MaxDescriptionSize = 500
)

// Default slot configuration
const (
	DefaultDayStart                = "08:00"
	DefaultDayEnd                  = "20:00"
	DefaultSessionMinutes          = 60
	DefaultAdvanceBookingDays      = 0  // 0 = unlimited
	DefaultMinBookingNoticeMinutes = 60 // 1 hour
)

// Time format constants
const (
	TimeFormat   = "15:04"      // HH:MM
	DateFormat   = "2006-01-02" // YYYY-MM-DD
	ExpiryFormat = "01/06"      // MM/YY
)

// Recurring session frequencies
const (
	FrequencyWeekly   = "weekly"
	FrequencyBiweekly = "biweekly"
	FrequencyMonthly  = "monthly"
)

// Frequencies allowed values for a recurring booking
var Frequencies = []string{FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly}

// InactiveStatuses bookings that no longer occupy a coach slot
var InactiveStatuses = []BookingStatus{
	StatusCancelled,
	StatusPaymentFailed,
}

// RevenueStatuses bookings whose amount counts as earned revenue
var RevenueStatuses = []BookingStatus{
	StatusActive,
	StatusPaused,
	StatusCompleted,
}
