package checkout

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CoachBookingService/internal/checkout/validator"
	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
	"github.com/m04kA/SMC-CoachBookingService/internal/infra/cache/sessions"
	"github.com/m04kA/SMC-CoachBookingService/internal/integrations/coachservice"
	"github.com/m04kA/SMC-CoachBookingService/internal/integrations/processor"
	"github.com/m04kA/SMC-CoachBookingService/internal/service/pricing"
	paymentModels "github.com/m04kA/SMC-CoachBookingService/internal/service/payments/models"
	"github.com/m04kA/SMC-CoachBookingService/internal/usecase/finalize_booking"
	"github.com/m04kA/SMC-CoachBookingService/pkg/logger"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type fakeCoaches struct{ coach *coachservice.Coach }

func (f *fakeCoaches) GetCoachWithGracefulDegradation(context.Context, string) (*coachservice.Coach, error) {
	return f.coach, nil
}

// fakePayments платежи в памяти: ключ идемпотентности, отказ для тестовой карты
type fakePayments struct {
	intents map[string]*domain.PaymentIntent
	byKey   map[string]string
	created int
}

func (f *fakePayments) CreateIntent(_ context.Context, req *paymentModels.CreateIntentRequest) (*domain.PaymentIntent, error) {
	if id, ok := f.byKey[req.IdempotencyKey]; ok {
		return f.intents[id], nil
	}
	f.created++
	id := fmt.Sprintf("pi_%d", f.created)
	pi := &domain.PaymentIntent{
		ID:           id,
		ClientSecret: id + "_secret_x",
		Amount:       req.Amount,
		Currency:     req.Currency,
		Status:       domain.IntentRequiresPaymentMethod,
		Metadata:     req.Metadata,
	}
	f.intents[id] = pi
	f.byKey[req.IdempotencyKey] = id
	return pi, nil
}

func (f *fakePayments) GetIntent(_ context.Context, id string) (*domain.PaymentIntent, error) {
	return f.intents[id], nil
}

func (f *fakePayments) ConfirmIntent(_ context.Context, id, method string) (*domain.PaymentIntent, error) {
	pi := f.intents[id]
	if pi.Status == domain.IntentFailed {
		return pi, domain.NewDeclineError(*pi.FailureCode)
	}
	if pi.Status == domain.IntentSucceeded {
		return pi, nil
	}
	if method == processor.MethodDeclined {
		code := domain.DeclineCardDeclined
		pi.Status = domain.IntentFailed
		pi.FailureCode = &code
		return pi, domain.NewDeclineError(code)
	}
	pi.Status = domain.IntentSucceeded
	return pi, nil
}

type fakeFinalizer struct {
	calls []string
}

func (f *fakeFinalizer) Execute(_ context.Context, draft domain.BookingDraft, intent *domain.PaymentIntent) (*finalize_booking.Response, error) {
	f.calls = append(f.calls, intent.ID)
	return &finalize_booking.Response{
		Booking: &domain.Booking{ID: 1, PaymentIntentID: intent.ID, CoachID: draft.Coach.ID, Status: domain.StatusActive},
		Created: true,
	}, nil
}

type stepMetrics struct{ blocked int }

func (m *stepMetrics) IncCheckoutStep(_ string, valid bool) {
	if !valid {
		m.blocked++
	}
}

type testEnv struct {
	uc        *UseCase
	payments  *fakePayments
	finalizer *fakeFinalizer
	coaches   *fakeCoaches
	redis     *miniredis.Miniredis
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	clock := fixedClock{now: time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)}
	price := 100.0

	env := &testEnv{
		payments:  &fakePayments{intents: map[string]*domain.PaymentIntent{}, byKey: map[string]string{}},
		finalizer: &fakeFinalizer{},
		coaches:   &fakeCoaches{coach: &coachservice.Coach{ID: "coach-1", Name: "Sam Lee", PricePerSession: &price}},
		redis:     mr,
	}
	env.uc = NewUseCase(
		sessions.NewStore(client, 30*time.Minute),
		validator.New(clock),
		pricing.NewService(pricing.DefaultConfig(), logger.NewNop()),
		env.coaches,
		env.payments,
		env.finalizer,
		&stepMetrics{},
		logger.NewNop(),
	)
	env.uc.timeProvider = clock
	return env
}

func (e *testEnv) set(t *testing.T, id string, step domain.StepID, name string, value interface{}) {
	t.Helper()
	_, err := e.uc.SetField(context.Background(), &SetFieldRequest{SessionID: id, Step: step, Name: name, Value: value})
	require.NoError(t, err)
}

func (e *testEnv) next(t *testing.T, id string) *View {
	t.Helper()
	view, err := e.uc.Next(context.Background(), id)
	require.NoError(t, err)
	require.True(t, view.StepResult.IsValid, view.StepResult.Errors)
	return view
}

func (e *testEnv) enterCard(t *testing.T, id string) {
	e.set(t, id, domain.StepPayment, domain.FieldCardNumber, "4242 4242 4242 4242")
	e.set(t, id, domain.StepPayment, domain.FieldExpiry, "12/27")
	e.set(t, id, domain.StepPayment, domain.FieldCVV, "123")
	e.set(t, id, domain.StepPayment, domain.FieldZIP, "94107")
	e.set(t, id, domain.StepPayment, domain.FieldAcceptTerms, true)
}

// walkToPayment заполняет шаги до оплаты и возвращает ID сессии
func (e *testEnv) walkToPayment(t *testing.T) string {
	t.Helper()
	view, err := e.uc.Start(context.Background())
	require.NoError(t, err)
	id := view.Session.ID

	e.set(t, id, domain.StepLocation, domain.FieldLocation, "Riverside Courts")
	e.next(t, id)
	e.set(t, id, domain.StepDateTime, domain.FieldDate, "2025-07-01")
	e.set(t, id, domain.StepDateTime, domain.FieldTimeSlot, "10:00")
	e.next(t, id)
	e.set(t, id, domain.StepCoach, domain.FieldCoachID, "coach-1")
	e.set(t, id, domain.StepCoach, domain.FieldAddOns, []interface{}{"video_analysis"})
	e.next(t, id)
	e.set(t, id, domain.StepPlayer, domain.FieldPlayerName, "Alex")
	e.set(t, id, domain.StepPlayer, domain.FieldPlayerAge, float64(12))
	view = e.next(t, id)
	require.Equal(t, domain.StepPayment, view.Step)
	return id
}

func TestNext_BlocksOnInvalidStep(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	view, err := env.uc.Start(ctx)
	require.NoError(t, err)
	id := view.Session.ID
	assert.Equal(t, domain.StepLocation, view.Step)
	assert.Equal(t, 0, view.Percent)

	view, err = env.uc.Next(ctx, id)
	require.NoError(t, err)
	assert.False(t, view.StepResult.IsValid)
	assert.Equal(t, 0, view.Session.StepIndex)
	assert.Contains(t, view.Session.Errors[domain.StepLocation], domain.FieldLocation)

	// Изменение поля снимает его ошибку
	view, err = env.uc.SetField(ctx, &SetFieldRequest{SessionID: id, Step: domain.StepLocation, Name: domain.FieldLocation, Value: "Court 3"})
	require.NoError(t, err)
	assert.Empty(t, view.Session.Errors)

	view = env.next(t, id)
	assert.Equal(t, domain.StepDateTime, view.Step)

	// Назад без проверки
	view, err = env.uc.Previous(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StepLocation, view.Step)
}

func TestSetField_Rejects(t *testing.T) {
	env := newTestEnv(t)
	view, err := env.uc.Start(context.Background())
	require.NoError(t, err)

	_, err = env.uc.SetField(context.Background(), &SetFieldRequest{SessionID: view.Session.ID, Step: domain.StepPlayer, Name: "shoeSize", Value: "42"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = env.uc.SetField(context.Background(), &SetFieldRequest{SessionID: view.Session.ID, Step: domain.StepPlayer, Name: domain.FieldPlayerAge, Value: "twelve"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = env.uc.SetField(context.Background(), &SetFieldRequest{SessionID: view.Session.ID, Step: "review", Name: "x", Value: "y"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = env.uc.SetField(context.Background(), &SetFieldRequest{SessionID: "missing", Step: domain.StepLocation, Name: domain.FieldLocation, Value: "x"})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestQuote_UsesDirectoryRate(t *testing.T) {
	env := newTestEnv(t)
	id := env.walkToPayment(t)

	quote, err := env.uc.Quote(context.Background(), id)
	require.NoError(t, err)

	// 100 + 20 (видеоанализ) + 25 сбор = 145; налог 11.60
	assert.Equal(t, 120.0, quote.SessionPrice)
	assert.Equal(t, 11.6, quote.TaxAmount)
	assert.Equal(t, 156.6, quote.Total)
}

func TestQuote_IgnoresRateFromDraft(t *testing.T) {
	env := newTestEnv(t)
	id := env.walkToPayment(t)
	env.set(t, id, domain.StepCoach, domain.FieldPricePerSession, 0.5)

	// Ставка каталога важнее значения, записанного клиентом
	quote, err := env.uc.Quote(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 120.0, quote.SessionPrice)

	// Тренер без ставки и недоступный каталог: ставка по умолчанию 75
	for name, coach := range map[string]*coachservice.Coach{
		"no rate":     {ID: "coach-1", Name: "Sam Lee"},
		"unreachable": nil,
	} {
		t.Run(name, func(t *testing.T) {
			env.coaches.coach = coach

			quote, err := env.uc.Quote(context.Background(), id)
			require.NoError(t, err)
			assert.Equal(t, 95.0, quote.SessionPrice)
			assert.Equal(t, int64(12960), quote.AmountMinor())
		})
	}
}

func TestSubmit_ScrubbedCardNeedsReentryForNewAmount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.walkToPayment(t)
	env.enterCard(t, id)

	first, err := env.uc.Submit(ctx, id)
	require.NoError(t, err)

	// Сумма изменилась: намерение не переиспользуется, а карта уже удалена
	env.set(t, id, domain.StepCoach, domain.FieldAddOns, []interface{}{})
	_, err = env.uc.Submit(ctx, id)
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, domain.FieldCardNumber)
	assert.Equal(t, 1, env.payments.created)

	env.enterCard(t, id)
	second, err := env.uc.Submit(ctx, id)
	require.NoError(t, err)
	assert.NotEqual(t, first.Intent.ID, second.Intent.ID)
	assert.Equal(t, int64(13500), second.Intent.Amount)
}

func TestSubmit_RequiresValidPayment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	view, err := env.uc.Start(ctx)
	require.NoError(t, err)
	_, err = env.uc.Submit(ctx, view.Session.ID)
	assert.ErrorIs(t, err, ErrNotAtPaymentStep)

	id := env.walkToPayment(t)
	env.set(t, id, domain.StepPayment, domain.FieldCardNumber, "4242")

	_, err = env.uc.Submit(ctx, id)
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "valid card number required", vErr.Fields[domain.FieldCardNumber])
	assert.Zero(t, env.payments.created)

	got, err := env.uc.Get(ctx, id)
	require.NoError(t, err)
	assert.Contains(t, got.Session.Errors[domain.StepPayment], domain.FieldCardNumber)
}

func TestCheckout_HappyPath(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.walkToPayment(t)
	env.enterCard(t, id)

	_, err := env.uc.Complete(ctx, id, processor.MethodVisa)
	assert.ErrorIs(t, err, ErrNotSubmitted)

	first, err := env.uc.Submit(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(15660), first.Intent.Amount)
	assert.Equal(t, "coach-1", first.Intent.Metadata["coachId"])

	// Повторная отправка формы после удаления карты переиспользует намерение
	second, err := env.uc.Submit(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, first.Intent.ID, second.Intent.ID)
	assert.Equal(t, 1, env.payments.created)
	assert.Equal(t, first.Pricing.TotalMinor, second.Pricing.TotalMinor)

	got, err := env.uc.Get(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, got.Session.Draft.Payment.CardNumber)
	assert.Empty(t, got.Session.Draft.Payment.CVV)
	assert.Equal(t, "4242", got.Session.Draft.Payment.CardLast4)
	assert.Equal(t, 100, got.Percent)

	done, err := env.uc.Complete(ctx, id, processor.MethodVisa)
	require.NoError(t, err)
	assert.Equal(t, first.Intent.ID, done.Booking.PaymentIntentID)
	assert.Equal(t, []string{first.Intent.ID}, env.finalizer.calls)

	_, err = env.uc.Get(ctx, id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestCheckout_DeclineKeepsSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.walkToPayment(t)
	env.enterCard(t, id)

	first, err := env.uc.Submit(ctx, id)
	require.NoError(t, err)

	resp, err := env.uc.Complete(ctx, id, processor.MethodDeclined)
	var decline *domain.DeclineError
	require.ErrorAs(t, err, &decline)
	assert.Equal(t, domain.IntentFailed, resp.Intent.Status)
	assert.Empty(t, env.finalizer.calls)

	_, err = env.uc.Get(ctx, id)
	require.NoError(t, err)

	// Повторная попытка с новой картой создает новое намерение
	env.enterCard(t, id)
	retry, err := env.uc.Submit(ctx, id)
	require.NoError(t, err)
	assert.NotEqual(t, first.Intent.ID, retry.Intent.ID)

	_, err = env.uc.Complete(ctx, id, processor.MethodVisa)
	require.NoError(t, err)
	assert.Equal(t, []string{retry.Intent.ID}, env.finalizer.calls)
}

func TestSession_Expires(t *testing.T) {
	env := newTestEnv(t)
	view, err := env.uc.Start(context.Background())
	require.NoError(t, err)

	env.redis.FastForward(31 * time.Minute)

	_, err = env.uc.Get(context.Background(), view.Session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
