package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
	intentRepo "github.com/m04kA/SMC-CoachBookingService/internal/infra/storage/payment_intent"
	"github.com/m04kA/SMC-CoachBookingService/internal/integrations/processor"
	"github.com/m04kA/SMC-CoachBookingService/internal/service/payments/models"
)

const (
	// settleTimeout ограничивает списание и запись результата после отмены запроса клиентом
	settleTimeout = 30 * time.Second

	// staleConfirmationAfter через сколько зависшее подтверждение можно повторить
	staleConfirmationAfter = 2 * time.Minute
)

// Service сервис платежных намерений.
// Статусы меняются только compare-and-set в хранилище, поэтому подтверждение
// клиентом и webhook процессора сходятся к одному терминальному состоянию
type Service struct {
	intents       IntentRepository
	events        EventRepository
	bookings      BookingStatusUpdater
	idempotency   IdempotencyStore
	processor     Charger
	notifications NotificationPublisher
	metrics       Metrics
	timeProvider  TimeProvider
	logger        Logger
}

// NewService создает новый экземпляр платежного сервиса
func NewService(
	intents IntentRepository,
	events EventRepository,
	bookings BookingStatusUpdater,
	idempotency IdempotencyStore,
	processor Charger,
	notifications NotificationPublisher,
	metrics Metrics,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		intents:       intents,
		events:        events,
		bookings:      bookings,
		idempotency:   idempotency,
		processor:     processor,
		notifications: notifications,
		metrics:       metrics,
		timeProvider:  timeProvider,
		logger:        logger,
	}
}

// CreateIntent создает платежное намерение в статусе requires_payment_method.
// Повторный запрос с тем же ключом идемпотентности возвращает исходное намерение
func (s *Service) CreateIntent(ctx context.Context, req *models.CreateIntentRequest) (*domain.PaymentIntent, error) {
	currency := strings.ToLower(strings.TrimSpace(req.Currency))
	if fields := validateCreate(req.Amount, currency); len(fields) > 0 {
		return nil, domain.NewValidationError(fields)
	}

	intent := newIntent(req, currency)
	key := strings.TrimSpace(req.IdempotencyKey)

	if key != "" {
		existing, reserved, err := s.idempotency.Reserve(ctx, key, intent.ID)
		if err != nil {
			s.logger.Error("CreateIntent: failed to reserve idempotency key: %v", err)
			return nil, fmt.Errorf("%w: CreateIntent - reserve idempotency key: %v", ErrInternal, err)
		}
		if !reserved {
			s.logger.Info("CreateIntent: idempotency key already used by intent=%s", existing)
			return s.replayIdempotent(ctx, key, existing)
		}
		intent.IdempotencyKey = &key
	}

	if err := s.intents.Create(ctx, intent); err != nil {
		if key != "" {
			if relErr := s.idempotency.Release(ctx, key, intent.ID); relErr != nil {
				s.logger.Warn("CreateIntent: failed to release idempotency key: %v", relErr)
			}
		}
		if errors.Is(err, intentRepo.ErrDuplicateIdempotencyKey) {
			return s.replayIdempotent(ctx, key, "")
		}
		s.logger.Error("CreateIntent: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateIntent - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateIntent: created intent=%s amount=%d %s", intent.ID, intent.Amount, intent.Currency)
	return intent, nil
}

// ConfirmIntent подтверждает намерение и списывает средства через процессор.
// Для уже завершенного намерения возвращает сохраненное состояние без повторного списания.
// Подтверждение, зависшее в requires_confirmation дольше staleConfirmationAfter, можно повторить.
// Отказ банка возвращается вместе с намерением как *domain.DeclineError
func (s *Service) ConfirmIntent(ctx context.Context, id, paymentMethodID string) (*domain.PaymentIntent, error) {
	intent, err := s.GetIntent(ctx, id)
	if err != nil {
		return nil, err
	}

	if intent.Status.IsTerminal() {
		s.logger.Info("ConfirmIntent: intent=%s already %s", id, intent.Status)
		return terminalResult(intent)
	}

	var confirming *domain.PaymentIntent
	if intent.Status == domain.IntentRequiresConfirmation {
		confirming, err = s.reclaim(ctx, intent)
	} else {
		confirming, err = s.startConfirmation(ctx, intent, paymentMethodID)
	}
	if err != nil || confirming.Status != domain.IntentRequiresConfirmation {
		return confirming, err
	}

	method := paymentMethodID
	if method == "" && confirming.PaymentMethodID != nil {
		method = *confirming.PaymentMethodID
	}

	// После начала списания отмена запроса клиентом не должна оставить намерение незавершенным
	settleCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), settleTimeout)
	defer cancel()

	result, err := s.processor.Charge(settleCtx, processor.ChargeRequest{
		IntentID:        confirming.ID,
		Amount:          confirming.Amount,
		Currency:        confirming.Currency,
		PaymentMethodID: method,
	})
	switch {
	case err != nil:
		s.logger.Error("ConfirmIntent: processor error for intent=%s: %v", id, err)
		return s.complete(settleCtx, confirming, domain.IntentFailed, domain.DeclineProcessingError)
	case !result.Approved:
		s.logger.Warn("ConfirmIntent: intent=%s declined with code=%s", id, result.DeclineCode)
		return s.complete(settleCtx, confirming, domain.IntentFailed, result.DeclineCode)
	default:
		s.logger.Info("ConfirmIntent: intent=%s approved, ref=%s", id, result.ProcessorRef)
		return s.complete(settleCtx, confirming, domain.IntentSucceeded, "")
	}
}

// startConfirmation переводит намерение в requires_confirmation.
// Проигранная гонка возвращает результат победителя
func (s *Service) startConfirmation(ctx context.Context, intent *domain.PaymentIntent, paymentMethodID string) (*domain.PaymentIntent, error) {
	var upd domain.IntentUpdate
	if paymentMethodID != "" {
		upd.PaymentMethodID = &paymentMethodID
	}

	confirming, err := s.intents.TransitionStatus(ctx, intent.ID, domain.IntentRequiresConfirmation, upd)
	if err != nil {
		if errors.Is(err, intentRepo.ErrTransitionRejected) {
			s.logger.Info("ConfirmIntent: intent=%s changed concurrently, re-reading", intent.ID)
			return s.settled(ctx, intent.ID)
		}
		s.logger.Error("ConfirmIntent: failed to move intent=%s to requires_confirmation: %v", intent.ID, err)
		return nil, fmt.Errorf("%w: ConfirmIntent - transition: %v", ErrInternal, err)
	}
	s.metrics.IncIntentTransition(string(intent.Status), string(confirming.Status))
	return confirming, nil
}

// reclaim забирает подтверждение, которое не было завершено.
// Пока подтверждение свежее, оно считается выполняющимся
func (s *Service) reclaim(ctx context.Context, intent *domain.PaymentIntent) (*domain.PaymentIntent, error) {
	staleBefore := s.timeProvider.Now().Add(-staleConfirmationAfter)
	if intent.UpdatedAt.After(staleBefore) {
		return nil, ErrConfirmationInProgress
	}

	confirming, err := s.intents.ReclaimConfirmation(ctx, intent.ID, staleBefore)
	if err != nil {
		if errors.Is(err, intentRepo.ErrTransitionRejected) {
			return s.settled(ctx, intent.ID)
		}
		s.logger.Error("ConfirmIntent: failed to reclaim intent=%s: %v", intent.ID, err)
		return nil, fmt.Errorf("%w: ConfirmIntent - reclaim: %v", ErrInternal, err)
	}

	s.logger.Warn("ConfirmIntent: intent=%s was stuck in requires_confirmation since %s, retrying",
		intent.ID, intent.UpdatedAt.Format(time.RFC3339))
	return confirming, nil
}

// Process создает и сразу подтверждает намерение
func (s *Service) Process(ctx context.Context, req *models.ProcessRequest) (*domain.PaymentIntent, error) {
	currency := strings.ToLower(strings.TrimSpace(req.Currency))
	fields := validateCreate(req.Amount, currency)
	if strings.TrimSpace(req.PaymentMethodID) == "" {
		fields["paymentMethodId"] = "paymentMethodId is required"
	}
	if len(fields) > 0 {
		return nil, domain.NewValidationError(fields)
	}

	intent, err := s.CreateIntent(ctx, &req.CreateIntentRequest)
	if err != nil {
		return nil, err
	}

	return s.ConfirmIntent(ctx, intent.ID, req.PaymentMethodID)
}

// GetIntent возвращает намерение по ID
func (s *Service) GetIntent(ctx context.Context, id string) (*domain.PaymentIntent, error) {
	intent, err := s.intents.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, intentRepo.ErrIntentNotFound) {
			s.logger.Warn("GetIntent: intent=%s not found", id)
			return nil, ErrIntentNotFound
		}
		s.logger.Error("GetIntent: repository error for intent=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetIntent - repository error: %v", ErrInternal, err)
	}
	return intent, nil
}

// complete переводит намерение в терминальный статус.
// Проигрыш гонки означает, что webhook успел раньше: возвращается его результат
func (s *Service) complete(ctx context.Context, intent *domain.PaymentIntent, to domain.IntentStatus, code string) (*domain.PaymentIntent, error) {
	upd := domain.IntentUpdate{}
	if to == domain.IntentSucceeded {
		now := s.timeProvider.Now().UTC()
		upd.ConfirmedAt = &now
	} else {
		reason := domain.DeclineReason(code)
		upd.FailureCode = &code
		upd.FailureMessage = &reason
	}

	updated, err := s.intents.TransitionStatus(ctx, intent.ID, to, upd)
	if err != nil {
		if errors.Is(err, intentRepo.ErrTransitionRejected) {
			s.logger.Info("complete: intent=%s was settled concurrently", intent.ID)
			return s.settled(ctx, intent.ID)
		}
		s.logger.Error("complete: failed to move intent=%s to %s: %v", intent.ID, to, err)
		return nil, fmt.Errorf("%w: complete - transition: %v", ErrInternal, err)
	}
	s.metrics.IncIntentTransition(string(intent.Status), string(updated.Status))

	if to == domain.IntentFailed {
		s.notify(ctx, domain.Notification{
			Kind:            domain.NotificationPaymentFailed,
			PaymentIntentID: updated.ID,
			Message:         fmt.Sprintf("Payment %s failed: %s", updated.ID, domain.DeclineReason(code)),
		})
	}

	return terminalResult(updated)
}

// settled перечитывает намерение после проигранного compare-and-set
func (s *Service) settled(ctx context.Context, id string) (*domain.PaymentIntent, error) {
	intent, err := s.GetIntent(ctx, id)
	if err != nil {
		return nil, err
	}
	if !intent.Status.IsTerminal() {
		return nil, ErrConfirmationInProgress
	}
	return terminalResult(intent)
}

// replayIdempotent возвращает намерение, ранее созданное с тем же ключом
func (s *Service) replayIdempotent(ctx context.Context, key, intentID string) (*domain.PaymentIntent, error) {
	if intentID != "" {
		intent, err := s.intents.GetByID(ctx, intentID)
		if err == nil {
			return intent, nil
		}
		if !errors.Is(err, intentRepo.ErrIntentNotFound) {
			s.logger.Error("CreateIntent: repository error for intent=%s: %v", intentID, err)
			return nil, fmt.Errorf("%w: CreateIntent - repository error: %v", ErrInternal, err)
		}
	}

	intent, err := s.intents.GetByIdempotencyKey(ctx, key)
	if err != nil {
		if errors.Is(err, intentRepo.ErrIntentNotFound) {
			return nil, ErrIdempotencyInFlight
		}
		s.logger.Error("CreateIntent: repository error for idempotency key: %v", err)
		return nil, fmt.Errorf("%w: CreateIntent - repository error: %v", ErrInternal, err)
	}
	return intent, nil
}

func (s *Service) notify(ctx context.Context, n domain.Notification) {
	if err := s.notifications.Publish(ctx, n); err != nil {
		s.logger.Error("notify: failed to publish %s: %v", n.Kind, err)
	}
}

// terminalResult для failed намерения добавляет ошибку отказа с сохраненным кодом
func terminalResult(intent *domain.PaymentIntent) (*domain.PaymentIntent, error) {
	if intent.Status == domain.IntentFailed {
		code := domain.DeclineCardDeclined
		if intent.FailureCode != nil {
			code = *intent.FailureCode
		}
		return intent, domain.NewDeclineError(code)
	}
	return intent, nil
}

func validateCreate(amount int64, currency string) map[string]string {
	fields := make(map[string]string)
	if amount <= 0 {
		fields["amount"] = "amount must be a positive integer in minor units"
	}
	if currency == "" {
		fields["currency"] = "currency is required"
	}
	return fields
}

func newIntent(req *models.CreateIntentRequest, currency string) *domain.PaymentIntent {
	id := "pi_" + hexID()
	metadata := req.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}

	return &domain.PaymentIntent{
		ID:           id,
		ClientSecret: id + "_secret_" + hexID(),
		Amount:       req.Amount,
		Currency:     currency,
		Description:  req.Description,
		Status:       domain.IntentRequiresPaymentMethod,
		Metadata:     metadata,
	}
}

func hexID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
