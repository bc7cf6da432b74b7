package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
	intentRepo "github.com/m04kA/SMC-CoachBookingService/internal/infra/storage/payment_intent"
)

// HandleEvent обрабатывает событие процессора.
// Повторная доставка события с тем же ID ничего не меняет,
// неизвестные типы событий логируются и подтверждаются
func (s *Service) HandleEvent(ctx context.Context, event domain.PaymentEvent) error {
	if event.Type == "" {
		return domain.NewValidationError(map[string]string{"type": "event type is required"})
	}

	if event.ID != "" {
		processed, err := s.events.IsProcessed(ctx, event.ID)
		if err != nil {
			s.logger.Error("HandleEvent: failed to check event=%s: %v", event.ID, err)
			return fmt.Errorf("%w: HandleEvent - check processed: %v", ErrInternal, err)
		}
		if processed {
			s.logger.Info("HandleEvent: event=%s already processed, skipping", event.ID)
			return nil
		}
	}

	switch event.Type {
	case domain.EventIntentSucceeded, domain.EventIntentFailed:
		if event.Data.Object.ID == "" {
			return domain.NewValidationError(map[string]string{"data.object.id": "payment intent id is required"})
		}
		if err := s.applyEvent(ctx, event); err != nil {
			return err
		}
	default:
		s.logger.Warn("HandleEvent: ignoring unknown event type=%s id=%s", event.Type, event.ID)
	}

	if event.ID != "" {
		if _, err := s.events.MarkProcessed(ctx, event); err != nil {
			s.logger.Error("HandleEvent: failed to mark event=%s processed: %v", event.ID, err)
			return fmt.Errorf("%w: HandleEvent - mark processed: %v", ErrInternal, err)
		}
	}

	return nil
}

func (s *Service) applyEvent(ctx context.Context, event domain.PaymentEvent) error {
	id := event.Data.Object.ID

	current, err := s.intents.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, intentRepo.ErrIntentNotFound) {
			s.logger.Warn("HandleEvent: event=%s refers to unknown intent=%s", event.ID, id)
			return nil
		}
		s.logger.Error("HandleEvent: repository error for intent=%s: %v", id, err)
		return fmt.Errorf("%w: HandleEvent - repository error: %v", ErrInternal, err)
	}

	to := domain.IntentSucceeded
	upd := domain.IntentUpdate{}
	if event.Type == domain.EventIntentFailed {
		to = domain.IntentFailed
		code, message := domain.DeclineCardDeclined, ""
		if info := event.Data.Object.LastPaymentError; info != nil {
			if info.Code != "" {
				code = info.Code
			}
			message = info.Message
		}
		if message == "" {
			message = domain.DeclineReason(code)
		}
		upd.FailureCode = &code
		upd.FailureMessage = &message
	} else {
		now := s.timeProvider.Now().UTC()
		upd.ConfirmedAt = &now
	}

	if current.Status != to {
		updated, err := s.intents.TransitionStatus(ctx, id, to, upd)
		switch {
		case errors.Is(err, intentRepo.ErrTransitionRejected):
			// Намерение уже в другом терминальном статусе: событие устарело
			s.logger.Warn("HandleEvent: event=%s type=%s conflicts with settled intent=%s", event.ID, event.Type, id)
			return nil
		case err != nil:
			s.logger.Error("HandleEvent: failed to move intent=%s to %s: %v", id, to, err)
			return fmt.Errorf("%w: HandleEvent - transition: %v", ErrInternal, err)
		}
		s.metrics.IncIntentTransition(string(current.Status), string(updated.Status))
		s.logger.Info("HandleEvent: intent=%s moved %s -> %s", id, current.Status, to)

		if to == domain.IntentFailed {
			s.notify(ctx, domain.Notification{
				Kind:            domain.NotificationPaymentFailed,
				PaymentIntentID: id,
				Message:         fmt.Sprintf("Payment %s failed: %s", id, *upd.FailureMessage),
			})
		}
	}

	// Бронирование создается уже в статусе active, поэтому синхронизировать нужно только отказ
	if to == domain.IntentFailed {
		changed, err := s.bookings.UpdateStatusByPaymentIntent(ctx, id, []domain.BookingStatus{domain.StatusActive}, domain.StatusPaymentFailed)
		if err != nil {
			s.logger.Error("HandleEvent: failed to mark booking for intent=%s as payment_failed: %v", id, err)
			return fmt.Errorf("%w: HandleEvent - booking update: %v", ErrInternal, err)
		}
		if changed {
			s.logger.Warn("HandleEvent: booking for intent=%s marked payment_failed", id)
		}
	}

	return nil
}
