package finalize_booking

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
)

// UseCase use case финализации бронирования после успешной оплаты
type UseCase struct {
	bookingRepo   BookingRepository
	notifications NotificationPublisher
	metrics       Metrics
	txManager     TransactionManager
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	notifications NotificationPublisher,
	metrics Metrics,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:   bookingRepo,
		notifications: notifications,
		metrics:       metrics,
		txManager:     txManager,
		logger:        logger,
	}
}

// Execute создает запись бронирования по оплаченному намерению.
// Повторный вызов с тем же намерением возвращает уже созданную запись
func (uc *UseCase) Execute(ctx context.Context, draft domain.BookingDraft, intent *domain.PaymentIntent) (*Response, error) {
	if intent == nil || intent.Status != domain.IntentSucceeded {
		status := "<nil>"
		if intent != nil {
			status = string(intent.Status)
		}
		uc.logger.Error("FinalizeBooking: refusing to book on intent with status=%s", status)
		return nil, ErrIntentNotSucceeded
	}

	uc.logger.Info("FinalizeBooking: intent=%s, coach=%s, date=%s, time=%s",
		intent.ID, draft.Coach.ID, draft.Date, draft.TimeSlot)

	booking, err := bookingFromDraft(draft, intent)
	if err != nil {
		uc.logger.Error("FinalizeBooking: invalid draft for intent=%s: %v", intent.ID, err)
		return nil, err
	}

	var (
		result  *domain.Booking
		created bool
	)
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		result, created, err = uc.bookingRepo.CreateOnce(txCtx, booking)
		return err
	})
	if err != nil {
		uc.logger.Error("FinalizeBooking: failed to persist booking for intent=%s: %v", intent.ID, err)
		return nil, fmt.Errorf("%w: persist booking: %v", ErrInternal, err)
	}

	if !created {
		uc.logger.Info("FinalizeBooking: booking id=%d already exists for intent=%s", result.ID, intent.ID)
		return &Response{Booking: result, Created: false}, nil
	}

	uc.metrics.IncBookingsFinalized()

	id := result.ID
	notification := domain.Notification{
		Kind:            domain.NotificationBookingConfirmed,
		BookingID:       &id,
		PaymentIntentID: intent.ID,
		Message: fmt.Sprintf("Session with %s on %s at %s confirmed for %s",
			result.CoachName, result.SessionDate.Format(domain.DateFormat), result.TimeSlot, result.PlayerName),
	}
	if err := uc.notifications.Publish(ctx, notification); err != nil {
		uc.logger.Error("FinalizeBooking: failed to publish notification for booking id=%d: %v", id, err)
	}

	uc.logger.Info("FinalizeBooking: booking id=%d created for intent=%s", id, intent.ID)
	return &Response{Booking: result, Created: true}, nil
}
