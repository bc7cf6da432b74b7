package payments

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
	"github.com/m04kA/SMC-CoachBookingService/internal/infra/cache/idempotency"
	intentRepo "github.com/m04kA/SMC-CoachBookingService/internal/infra/storage/payment_intent"
	"github.com/m04kA/SMC-CoachBookingService/internal/integrations/processor"
	"github.com/m04kA/SMC-CoachBookingService/internal/notifications"
	"github.com/m04kA/SMC-CoachBookingService/pkg/logger"
)

// memIntents хранилище намерений в памяти с той же семантикой compare-and-set, что и в SQL
type memIntents struct {
	mu      sync.Mutex
	intents map[string]*domain.PaymentIntent
	// beforeTransition вызывается перед CAS, чтобы смоделировать гонку
	beforeTransition func(id string, to domain.IntentStatus)
}

func newMemIntents() *memIntents {
	return &memIntents{intents: make(map[string]*domain.PaymentIntent)}
}

func (m *memIntents) Create(_ context.Context, intent *domain.PaymentIntent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if intent.IdempotencyKey != nil {
		for _, existing := range m.intents {
			if existing.IdempotencyKey != nil && *existing.IdempotencyKey == *intent.IdempotencyKey {
				return intentRepo.ErrDuplicateIdempotencyKey
			}
		}
	}
	intent.CreatedAt = time.Now()
	intent.UpdatedAt = intent.CreatedAt
	cp := *intent
	m.intents[intent.ID] = &cp
	return nil
}

func (m *memIntents) GetByID(_ context.Context, id string) (*domain.PaymentIntent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pi, ok := m.intents[id]
	if !ok {
		return nil, intentRepo.ErrIntentNotFound
	}
	cp := *pi
	return &cp, nil
}

func (m *memIntents) GetByIdempotencyKey(_ context.Context, key string) (*domain.PaymentIntent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, pi := range m.intents {
		if pi.IdempotencyKey != nil && *pi.IdempotencyKey == key {
			cp := *pi
			return &cp, nil
		}
	}
	return nil, intentRepo.ErrIntentNotFound
}

func (m *memIntents) TransitionStatus(ctx context.Context, id string, to domain.IntentStatus, upd domain.IntentUpdate) (*domain.PaymentIntent, error) {
	if m.beforeTransition != nil {
		m.beforeTransition(id, to)
	}
	// Как и драйвер БД, отмененный контекст не доходит до хранилища
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	pi, ok := m.intents[id]
	if !ok {
		return nil, intentRepo.ErrIntentNotFound
	}
	if !pi.Status.CanTransitionTo(to) {
		return nil, intentRepo.ErrTransitionRejected
	}

	pi.Status = to
	if upd.PaymentMethodID != nil {
		pi.PaymentMethodID = upd.PaymentMethodID
	}
	if upd.FailureCode != nil {
		pi.FailureCode = upd.FailureCode
	}
	if upd.FailureMessage != nil {
		pi.FailureMessage = upd.FailureMessage
	}
	if upd.ConfirmedAt != nil {
		pi.ConfirmedAt = upd.ConfirmedAt
	}
	pi.UpdatedAt = time.Now()
	cp := *pi
	return &cp, nil
}

func (m *memIntents) ReclaimConfirmation(ctx context.Context, id string, staleBefore time.Time) (*domain.PaymentIntent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	pi, ok := m.intents[id]
	if !ok {
		return nil, intentRepo.ErrIntentNotFound
	}
	if pi.Status != domain.IntentRequiresConfirmation || !pi.UpdatedAt.Before(staleBefore) {
		return nil, intentRepo.ErrTransitionRejected
	}

	pi.UpdatedAt = time.Now()
	cp := *pi
	return &cp, nil
}

// forceConfirming оставляет намерение в requires_confirmation с заданным временем изменения
func (m *memIntents) forceConfirming(id string, updatedAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.intents[id].Status = domain.IntentRequiresConfirmation
	m.intents[id].UpdatedAt = updatedAt
}

func (m *memIntents) forceStatus(id string, status domain.IntentStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.intents[id].Status = status
}

type memEvents struct {
	processed map[string]bool
}

func (m *memEvents) IsProcessed(_ context.Context, id string) (bool, error) {
	return m.processed[id], nil
}

func (m *memEvents) MarkProcessed(_ context.Context, event domain.PaymentEvent) (bool, error) {
	if m.processed[event.ID] {
		return false, nil
	}
	m.processed[event.ID] = true
	return true, nil
}

type bookingUpdate struct {
	intentID string
	to       domain.BookingStatus
}

type fakeBookings struct {
	updates []bookingUpdate
}

func (f *fakeBookings) UpdateStatusByPaymentIntent(_ context.Context, id string, _ []domain.BookingStatus, to domain.BookingStatus) (bool, error) {
	f.updates = append(f.updates, bookingUpdate{intentID: id, to: to})
	return true, nil
}

// countingCharger считает обращения к процессору
type countingCharger struct {
	mu    sync.Mutex
	calls int
	next  Charger
	// afterCharge вызывается после ответа процессора
	afterCharge func()
}

func (c *countingCharger) Charge(ctx context.Context, req processor.ChargeRequest) (*processor.ChargeResult, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()

	result, err := c.next.Charge(ctx, req)
	if c.afterCharge != nil {
		c.afterCharge()
	}
	return result, err
}

type recordingMetrics struct {
	mu          sync.Mutex
	transitions []string
}

func (r *recordingMetrics) IncIntentTransition(from, to string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transitions = append(r.transitions, from+"->"+to)
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type testEnv struct {
	svc           *Service
	intents       *memIntents
	events        *memEvents
	bookings      *fakeBookings
	charger       *countingCharger
	notifications *notifications.Memory
	metrics       *recordingMetrics
	clock         fixedClock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	env := &testEnv{
		intents:       newMemIntents(),
		events:        &memEvents{processed: make(map[string]bool)},
		bookings:      &fakeBookings{},
		charger:       &countingCharger{next: processor.NewMock()},
		notifications: notifications.NewMemory(20),
		metrics:       &recordingMetrics{},
		clock:         fixedClock{now: time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)},
	}
	env.svc = NewService(
		env.intents,
		env.events,
		env.bookings,
		idempotency.NewStore(client, time.Hour),
		env.charger,
		env.notifications,
		env.metrics,
		env.clock,
		logger.NewNop(),
	)
	return env
}
