package validator

// Сообщения об ошибках, показываемые пользователю
const (
	msgLocationRequired   = "location is required"
	msgLocationTooLong    = "location is too long"
	msgDateRequired       = "date is required"
	msgDateInvalid        = "date must be in YYYY-MM-DD format"
	msgDateInPast         = "date cannot be in the past"
	msgTimeSlotRequired   = "time slot is required"
	msgTimeSlotInvalid    = "time slot must be in HH:MM format"
	msgFrequencyRequired  = "frequency must be weekly, biweekly or monthly"
	msgCoachRequired      = "please select a coach"
	msgPriceNegative      = "price per session cannot be negative"
	msgPlayerNameRequired = "player name is required"
	msgPlayerAgeRequired  = "player age is required"
	msgPlayerAgeRange     = "player age must be between 3 and 18"
	msgNotesTooLong       = "notes are too long"
	msgCardNumber         = "valid card number required"
	msgExpiry             = "valid expiry date required"
	msgCVV                = "CVV must be 3 or 4 digits"
	msgZIPRequired        = "ZIP code is required"
	msgTermsRequired      = "you must accept the terms and conditions"
	msgUnknownStep        = "unknown step"
)
