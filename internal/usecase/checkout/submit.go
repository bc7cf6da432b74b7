package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
	paymentModels "github.com/m04kA/SMC-CoachBookingService/internal/service/payments/models"
)

// Submit создает платежное намерение для черновика.
// Все шаги проверяются заново; незавершенное намерение с той же суммой переиспользуется,
// а ключ идемпотентности защищает от дублей при повторной отправке формы.
// После создания намерения номер карты и CVV удаляются из черновика
func (uc *UseCase) Submit(ctx context.Context, id string) (*SubmitResponse, error) {
	session, err := uc.sessions.Get(ctx, id)
	if err != nil {
		return nil, uc.mapStoreError("Submit", id, err)
	}

	if session.CurrentStep() != domain.StepPayment {
		uc.logger.Warn("Checkout.Submit: session=%s is on step=%s", id, session.CurrentStep())
		return nil, ErrNotAtPaymentStep
	}

	// После первой отправки карта уже удалена из черновика: шаг оплаты
	// проверяется только если намерение нельзя переиспользовать
	scrubbed := session.PaymentIntentID != nil && session.Draft.Payment.IsScrubbed()

	failed := uc.validator.ValidateAll(session.Draft)
	if scrubbed {
		failed = withoutStep(failed, domain.StepPayment)
	}
	if len(failed) > 0 {
		return nil, uc.rejectSubmit(ctx, id, failed)
	}

	pricing := uc.quote(ctx, session.Draft)
	amount := pricing.AmountMinor()

	intent, err := uc.reusableIntent(ctx, session, amount)
	if err != nil {
		return nil, err
	}

	if intent == nil && scrubbed {
		result := uc.validator.Validate(domain.StepPayment, session.Draft)
		return nil, uc.rejectSubmit(ctx, id, []domain.StepResult{result})
	}

	if intent == nil {
		previous := "none"
		if session.PaymentIntentID != nil {
			previous = *session.PaymentIntentID
		}

		draft := session.Draft
		intent, err = uc.payments.CreateIntent(ctx, &paymentModels.CreateIntentRequest{
			Amount:   amount,
			Currency: pricing.Currency,
			Description: fmt.Sprintf("Coaching session with %s on %s at %s",
				draft.Coach.Name, draft.Date, draft.TimeSlot),
			Metadata: map[string]string{
				"sessionId":  session.ID,
				"coachId":    draft.Coach.ID,
				"playerName": draft.Player.Name,
			},
			IdempotencyKey: fmt.Sprintf("checkout:%s:%s:%d", session.ID, previous, amount),
		})
		if err != nil {
			uc.logger.Error("Checkout.Submit: failed to create intent for session=%s: %v", id, err)
			return nil, err
		}
	}

	_, err = uc.sessions.Update(ctx, id, func(s *domain.CheckoutSession) error {
		intentID := intent.ID
		s.PaymentIntentID = &intentID
		s.Draft.Payment.Scrub()
		s.Errors = map[domain.StepID]map[string]string{}
		s.ReadyToFinalize = true
		s.UpdatedAt = uc.timeProvider.Now().UTC()
		return nil
	})
	if err != nil {
		return nil, uc.mapStoreError("Submit", id, err)
	}

	uc.logger.Info("Checkout.Submit: session=%s intent=%s amount=%d %s", id, intent.ID, intent.Amount, intent.Currency)
	return &SubmitResponse{Intent: intent, Pricing: pricing}, nil
}

// Complete подтверждает платеж и создает бронирование.
// При отказе банка сессия сохраняется, чтобы можно было повторить оплату
func (uc *UseCase) Complete(ctx context.Context, id, paymentMethodID string) (*CompleteResponse, error) {
	session, err := uc.sessions.Get(ctx, id)
	if err != nil {
		return nil, uc.mapStoreError("Complete", id, err)
	}

	if session.PaymentIntentID == nil {
		uc.logger.Warn("Checkout.Complete: session=%s has no payment intent", id)
		return nil, ErrNotSubmitted
	}

	intent, err := uc.payments.ConfirmIntent(ctx, *session.PaymentIntentID, paymentMethodID)
	if err != nil {
		var decline *domain.DeclineError
		if errors.As(err, &decline) {
			uc.logger.Warn("Checkout.Complete: session=%s payment declined: %s", id, decline.Code)
			return &CompleteResponse{Intent: intent}, err
		}
		uc.logger.Error("Checkout.Complete: failed to confirm intent for session=%s: %v", id, err)
		return nil, err
	}

	result, err := uc.finalizer.Execute(ctx, session.Draft, intent)
	if err != nil {
		uc.logger.Error("Checkout.Complete: failed to finalize booking for session=%s: %v", id, err)
		return nil, err
	}

	if err := uc.sessions.Delete(ctx, id); err != nil {
		uc.logger.Warn("Checkout.Complete: failed to delete session=%s: %v", id, err)
	}

	uc.logger.Info("Checkout.Complete: session=%s finished with booking id=%d", id, result.Booking.ID)
	return &CompleteResponse{Booking: result.Booking, Intent: intent}, nil
}

// reusableIntent возвращает ранее созданное намерение, если его еще можно оплатить на ту же сумму
func (uc *UseCase) reusableIntent(ctx context.Context, session *domain.CheckoutSession, amount int64) (*domain.PaymentIntent, error) {
	if session.PaymentIntentID == nil {
		return nil, nil
	}

	intent, err := uc.payments.GetIntent(ctx, *session.PaymentIntentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	switch {
	case intent.Status == domain.IntentSucceeded:
		// Оплата уже прошла, осталось завершить оформление
		return intent, nil
	case intent.Status.IsTerminal() || intent.Amount != amount:
		return nil, nil
	default:
		return intent, nil
	}
}

func withoutStep(results []domain.StepResult, step domain.StepID) []domain.StepResult {
	kept := results[:0:0]
	for _, result := range results {
		if result.StepID != step {
			kept = append(kept, result)
		}
	}
	return kept
}

// rejectSubmit сохраняет ошибки шагов в сессии и возвращает их одной ошибкой валидации
func (uc *UseCase) rejectSubmit(ctx context.Context, id string, failed []domain.StepResult) error {
	fields := make(map[string]string)
	for _, result := range failed {
		for name, msg := range result.Errors {
			fields[name] = msg
		}
		uc.metrics.IncCheckoutStep(string(result.StepID), false)
	}

	_, err := uc.sessions.Update(ctx, id, func(s *domain.CheckoutSession) error {
		if s.Errors == nil {
			s.Errors = map[domain.StepID]map[string]string{}
		}
		for _, result := range failed {
			s.Errors[result.StepID] = result.Errors
		}
		s.ReadyToFinalize = false
		s.UpdatedAt = uc.timeProvider.Now().UTC()
		return nil
	})
	if err != nil {
		uc.logger.Warn("Checkout.Submit: failed to store step errors for session=%s: %v", id, err)
	}

	uc.logger.Info("Checkout.Submit: session=%s rejected, %d steps invalid", id, len(failed))
	return domain.NewValidationError(fields)
}
