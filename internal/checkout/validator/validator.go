package validator

import (
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
)

// Validator проверяет данные шага перед переходом дальше
// Возвращает все нарушения сразу, а не первое найденное
type Validator struct {
	timeProvider TimeProvider
}

// New создает валидатор; timeProvider нужен для проверок даты и срока действия карты
func New(timeProvider TimeProvider) *Validator {
	return &Validator{timeProvider: timeProvider}
}

// Validate проверяет шаг. Пустой набор ошибок означает, что шаг валиден
func (v *Validator) Validate(step domain.StepID, draft domain.BookingDraft) domain.StepResult {
	errs := make(map[string]string)

	switch step {
	case domain.StepLocation:
		validateLocation(draft, errs)
	case domain.StepDateTime:
		v.validateDateTime(draft, errs)
	case domain.StepCoach:
		validateCoach(draft, errs)
	case domain.StepPlayer:
		validatePlayer(draft, errs)
	case domain.StepPayment:
		v.validatePayment(draft.Payment, errs)
	default:
		errs["step"] = msgUnknownStep
	}

	return domain.NewStepResult(step, errs)
}

// ValidateAll проверяет все шаги по порядку, возвращает результаты только невалидных
func (v *Validator) ValidateAll(draft domain.BookingDraft) []domain.StepResult {
	var failed []domain.StepResult
	for _, step := range domain.Steps {
		if res := v.Validate(step, draft); !res.IsValid {
			failed = append(failed, res)
		}
	}
	return failed
}

func validateLocation(draft domain.BookingDraft, errs map[string]string) {
	location := strings.TrimSpace(draft.Location)
	switch {
	case location == "":
		errs[domain.FieldLocation] = msgLocationRequired
	case len(location) > domain.MaxLocationLength:
		errs[domain.FieldLocation] = msgLocationTooLong
	}
}

func (v *Validator) validateDateTime(draft domain.BookingDraft, errs map[string]string) {
	now := v.timeProvider.Now()

	if strings.TrimSpace(draft.Date) == "" {
		errs[domain.FieldDate] = msgDateRequired
	} else if date, err := time.Parse(domain.DateFormat, draft.Date); err != nil {
		errs[domain.FieldDate] = msgDateInvalid
	} else {
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		if date.Before(today) {
			errs[domain.FieldDate] = msgDateInPast
		}
	}

	if strings.TrimSpace(draft.TimeSlot) == "" {
		errs[domain.FieldTimeSlot] = msgTimeSlotRequired
	} else if _, err := time.Parse(domain.TimeFormat, draft.TimeSlot); err != nil {
		errs[domain.FieldTimeSlot] = msgTimeSlotInvalid
	}

	if draft.Recurring && !isFrequency(draft.Frequency) {
		errs[domain.FieldFrequency] = msgFrequencyRequired
	}
}

func validateCoach(draft domain.BookingDraft, errs map[string]string) {
	if strings.TrimSpace(draft.Coach.ID) == "" {
		errs[domain.FieldCoachID] = msgCoachRequired
	}
	if draft.Coach.PricePerSession != nil && *draft.Coach.PricePerSession < 0 {
		errs[domain.FieldPricePerSession] = msgPriceNegative
	}
}

func validatePlayer(draft domain.BookingDraft, errs map[string]string) {
	if strings.TrimSpace(draft.Player.Name) == "" {
		errs[domain.FieldPlayerName] = msgPlayerNameRequired
	}

	switch age := draft.Player.Age; {
	case age == 0:
		errs[domain.FieldPlayerAge] = msgPlayerAgeRequired
	case age < domain.MinPlayerAge || age > domain.MaxPlayerAge:
		errs[domain.FieldPlayerAge] = msgPlayerAgeRange
	}

	if len(draft.Player.Notes) > domain.MaxNotesLength {
		errs[domain.FieldNotes] = msgNotesTooLong
	}
}

func (v *Validator) validatePayment(p domain.PaymentDetails, errs map[string]string) {
	if !isCardNumber(p.CardNumber) {
		errs[domain.FieldCardNumber] = msgCardNumber
	}
	if !v.isFutureExpiry(p.Expiry) {
		errs[domain.FieldExpiry] = msgExpiry
	}
	if !isCVV(p.CVV) {
		errs[domain.FieldCVV] = msgCVV
	}
	if strings.TrimSpace(p.ZIP) == "" {
		errs[domain.FieldZIP] = msgZIPRequired
	}
	if !p.AcceptTerms {
		errs[domain.FieldAcceptTerms] = msgTermsRequired
	}
}

func isFrequency(f string) bool {
	for _, allowed := range domain.Frequencies {
		if f == allowed {
			return true
		}
	}
	return false
}

// isCardNumber 16 цифр (пробелы и дефисы допускаются) с корректной контрольной суммой Луна
func isCardNumber(raw string) bool {
	digits := domain.DigitsOnly(raw)
	if len(digits) != domain.CardNumberLength || !isDigits(digits) {
		return false
	}
	return luhnValid(digits)
}

func luhnValid(digits string) bool {
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// isFutureExpiry MM/YY не раньше текущего месяца
func (v *Validator) isFutureExpiry(expiry string) bool {
	parts := strings.Split(strings.TrimSpace(expiry), "/")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 || !isDigits(parts[0]) || !isDigits(parts[1]) {
		return false
	}

	month, _ := strconv.Atoi(parts[0])
	if month < 1 || month > 12 {
		return false
	}
	year, _ := strconv.Atoi(parts[1])
	year += 2000

	now := v.timeProvider.Now()
	if year != now.Year() {
		return year > now.Year()
	}
	return month >= int(now.Month())
}

func isCVV(cvv string) bool {
	return len(cvv) >= domain.MinCVVLength && len(cvv) <= domain.MaxCVVLength && isDigits(cvv)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
