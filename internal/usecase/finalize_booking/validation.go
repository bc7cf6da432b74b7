package finalize_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
)

// bookingFromDraft собирает запись бронирования из черновика и оплаченного намерения
func bookingFromDraft(draft domain.BookingDraft, intent *domain.PaymentIntent) (*domain.Booking, error) {
	sessionDate, err := time.Parse(domain.DateFormat, draft.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: date %q: %v", ErrInvalidDraft, draft.Date, err)
	}

	if _, err := time.Parse(domain.TimeFormat, draft.TimeSlot); err != nil {
		return nil, fmt.Errorf("%w: time slot %q: %v", ErrInvalidDraft, draft.TimeSlot, err)
	}

	if strings.TrimSpace(draft.Coach.ID) == "" {
		return nil, fmt.Errorf("%w: coach is required", ErrInvalidDraft)
	}

	booking := &domain.Booking{
		PaymentIntentID: intent.ID,
		Status:          domain.StatusActive,
		CoachID:         draft.Coach.ID,
		CoachName:       draft.Coach.Name,
		PlayerName:      strings.TrimSpace(draft.Player.Name),
		PlayerAge:       draft.Player.Age,
		Location:        strings.TrimSpace(draft.Location),
		SessionDate:     sessionDate,
		TimeSlot:        draft.TimeSlot,
		Recurring:       draft.Recurring,
		Amount:          intent.Amount,
		Currency:        intent.Currency,
	}

	if draft.Recurring && draft.Frequency != "" {
		frequency := draft.Frequency
		booking.Frequency = &frequency
	}
	if notes := strings.TrimSpace(draft.Player.Notes); notes != "" {
		booking.Notes = &notes
	}

	return booking, nil
}
