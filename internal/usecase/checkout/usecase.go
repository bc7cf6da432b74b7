package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CoachBookingService/internal/checkout/form"
	"github.com/m04kA/SMC-CoachBookingService/internal/checkout/progress"
	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
	"github.com/m04kA/SMC-CoachBookingService/internal/infra/cache/sessions"
)

// UseCase оформление бронирования: черновик, пошаговая навигация, расчет цены и оплата
type UseCase struct {
	sessions     SessionStore
	validator    StepValidator
	pricing      PricingService
	coaches      CoachDirectory
	payments     PaymentService
	finalizer    BookingFinalizer
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	sessions SessionStore,
	validator StepValidator,
	pricing PricingService,
	coaches CoachDirectory,
	payments PaymentService,
	finalizer BookingFinalizer,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		sessions:     sessions,
		validator:    validator,
		pricing:      pricing,
		coaches:      coaches,
		payments:     payments,
		finalizer:    finalizer,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Start открывает новую сессию на первом шаге
func (uc *UseCase) Start(ctx context.Context) (*View, error) {
	now := uc.timeProvider.Now().UTC()
	session := &domain.CheckoutSession{
		ID:        uuid.NewString(),
		Errors:    map[domain.StepID]map[string]string{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.sessions.Create(ctx, session); err != nil {
		uc.logger.Error("Checkout.Start: failed to create session: %v", err)
		return nil, fmt.Errorf("%w: create session: %v", ErrInternal, err)
	}

	uc.logger.Info("Checkout.Start: session=%s created", session.ID)
	return uc.view(session, nil), nil
}

// Get текущее состояние сессии
func (uc *UseCase) Get(ctx context.Context, id string) (*View, error) {
	session, err := uc.sessions.Get(ctx, id)
	if err != nil {
		return nil, uc.mapStoreError("Get", id, err)
	}
	return uc.view(session, nil), nil
}

// SetField меняет поле черновика и снимает с него ошибку валидации
func (uc *UseCase) SetField(ctx context.Context, req *SetFieldRequest) (*View, error) {
	if !req.Step.Valid() {
		return nil, domain.NewValidationError(map[string]string{"step": "unknown step"})
	}

	session, err := uc.sessions.Update(ctx, req.SessionID, func(s *domain.CheckoutSession) error {
		store := form.Restore(s.Draft, s.Errors)
		if err := store.SetField(req.Step, req.Name, req.Value); err != nil {
			switch {
			case errors.Is(err, form.ErrUnknownField):
				return domain.NewValidationError(map[string]string{req.Name: "unknown field"})
			case errors.Is(err, form.ErrInvalidValue):
				return domain.NewValidationError(map[string]string{req.Name: "invalid value"})
			default:
				return err
			}
		}

		s.Draft = store.Draft()
		s.Errors = store.AllErrors()
		s.ReadyToFinalize = false
		s.UpdatedAt = uc.timeProvider.Now().UTC()
		return nil
	})
	if err != nil {
		return nil, uc.mapStoreError("SetField", req.SessionID, err)
	}

	return uc.view(session, nil), nil
}

// Next проверяет текущий шаг и при успехе переходит к следующему
func (uc *UseCase) Next(ctx context.Context, id string) (*View, error) {
	var result domain.StepResult

	session, err := uc.sessions.Update(ctx, id, func(s *domain.CheckoutSession) error {
		ctrl := progress.Restore(uc.validator, s.StepIndex, s.ReadyToFinalize)
		store := form.Restore(s.Draft, s.Errors)

		result = ctrl.Next(s.Draft)
		store.SetErrors(result.StepID, result.Errors)
		uc.metrics.IncCheckoutStep(string(result.StepID), result.IsValid)

		s.StepIndex = ctrl.Index()
		s.ReadyToFinalize = ctrl.ReadyToFinalize()
		s.Errors = store.AllErrors()
		s.UpdatedAt = uc.timeProvider.Now().UTC()
		return nil
	})
	if err != nil {
		return nil, uc.mapStoreError("Next", id, err)
	}

	if !result.IsValid {
		uc.logger.Info("Checkout.Next: session=%s blocked on step=%s with %d errors", id, result.StepID, len(result.Errors))
	}
	return uc.view(session, &result), nil
}

// Previous возвращает на шаг назад без проверки
func (uc *UseCase) Previous(ctx context.Context, id string) (*View, error) {
	session, err := uc.sessions.Update(ctx, id, func(s *domain.CheckoutSession) error {
		ctrl := progress.Restore(uc.validator, s.StepIndex, s.ReadyToFinalize)
		ctrl.Previous()

		s.StepIndex = ctrl.Index()
		s.ReadyToFinalize = ctrl.ReadyToFinalize()
		s.UpdatedAt = uc.timeProvider.Now().UTC()
		return nil
	})
	if err != nil {
		return nil, uc.mapStoreError("Previous", id, err)
	}

	return uc.view(session, nil), nil
}

// Quote стоимость текущего черновика
func (uc *UseCase) Quote(ctx context.Context, id string) (*domain.PricingBreakdown, error) {
	session, err := uc.sessions.Get(ctx, id)
	if err != nil {
		return nil, uc.mapStoreError("Quote", id, err)
	}

	pricing := uc.quote(ctx, session.Draft)
	return &pricing, nil
}

// quote считает цену. Ставка берется только из каталога тренеров:
// значение из черновика пишет клиент, поэтому оно не учитывается.
// Без ставки в каталоге действует ставка по умолчанию
func (uc *UseCase) quote(ctx context.Context, draft domain.BookingDraft) domain.PricingBreakdown {
	coach := draft.Coach
	coach.PricePerSession = nil

	if coach.ID != "" {
		// Ошибка каталога уже залогирована клиентом
		if fromDirectory, _ := uc.coaches.GetCoachWithGracefulDegradation(ctx, coach.ID); fromDirectory != nil {
			if fromDirectory.PricePerSession != nil {
				price := *fromDirectory.PricePerSession
				coach.PricePerSession = &price
			}
			if coach.Name == "" {
				coach.Name = fromDirectory.Name
			}
		}
	}

	return uc.pricing.ComputeTotal(coach, draft.AddOns)
}

func (uc *UseCase) view(session *domain.CheckoutSession, result *domain.StepResult) *View {
	ctrl := progress.Restore(uc.validator, session.StepIndex, session.ReadyToFinalize)
	return &View{
		Session:    session,
		Step:       ctrl.Current(),
		Percent:    ctrl.Percent(),
		StepResult: result,
	}
}

// mapStoreError переводит ошибки хранилища сессий в ошибки use case.
// Ошибки валидации и прочие ошибки домена возвращаются как есть
func (uc *UseCase) mapStoreError(op, id string, err error) error {
	switch {
	case errors.Is(err, sessions.ErrSessionNotFound):
		uc.logger.Warn("Checkout.%s: session=%s not found", op, id)
		return ErrSessionNotFound
	case errors.Is(err, sessions.ErrConcurrentUpdate):
		uc.logger.Warn("Checkout.%s: session=%s updated concurrently", op, id)
		return ErrConcurrentUpdate
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrPaymentDeclined),
		errors.Is(err, ErrNotAtPaymentStep),
		errors.Is(err, ErrNotSubmitted):
		return err
	default:
		uc.logger.Error("Checkout.%s: session=%s: %v", op, id, err)
		return fmt.Errorf("%w: %s: %v", ErrInternal, op, err)
	}
}
