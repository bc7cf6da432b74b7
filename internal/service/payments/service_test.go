package payments

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
	"github.com/m04kA/SMC-CoachBookingService/internal/integrations/processor"
	"github.com/m04kA/SMC-CoachBookingService/internal/service/payments/models"
)

func createIntent(t *testing.T, env *testEnv) *domain.PaymentIntent {
	t.Helper()
	pi, err := env.svc.CreateIntent(context.Background(), &models.CreateIntentRequest{Amount: 7500, Currency: "GBP"})
	require.NoError(t, err)
	return pi
}

func TestCreateIntent(t *testing.T) {
	env := newTestEnv(t)

	pi := createIntent(t, env)

	assert.Equal(t, domain.IntentRequiresPaymentMethod, pi.Status)
	assert.True(t, strings.HasPrefix(pi.ID, "pi_"))
	assert.True(t, strings.HasPrefix(pi.ClientSecret, pi.ID+"_secret_"))
	assert.Equal(t, "gbp", pi.Currency)
	assert.NotNil(t, pi.Metadata)
}

func TestCreateIntent_Validation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.CreateIntent(context.Background(), &models.CreateIntentRequest{Amount: 0, Currency: " "})

	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "amount")
	assert.Contains(t, vErr.Fields, "currency")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateIntent_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	req := &models.CreateIntentRequest{Amount: 7500, Currency: "usd", IdempotencyKey: "checkout-42"}

	first, err := env.svc.CreateIntent(context.Background(), req)
	require.NoError(t, err)
	second, err := env.svc.CreateIntent(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, env.intents.intents, 1)
}

func TestConfirmIntent_Succeeds(t *testing.T) {
	env := newTestEnv(t)
	pi := createIntent(t, env)

	confirmed, err := env.svc.ConfirmIntent(context.Background(), pi.ID, processor.MethodVisa)
	require.NoError(t, err)

	assert.Equal(t, domain.IntentSucceeded, confirmed.Status)
	require.NotNil(t, confirmed.ConfirmedAt)
	assert.Equal(t, []string{
		"requires_payment_method->requires_confirmation",
		"requires_confirmation->succeeded",
	}, env.metrics.transitions)
}

func TestConfirmIntent_IsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	pi := createIntent(t, env)

	first, err := env.svc.ConfirmIntent(context.Background(), pi.ID, processor.MethodVisa)
	require.NoError(t, err)
	second, err := env.svc.ConfirmIntent(context.Background(), pi.ID, processor.MethodVisa)
	require.NoError(t, err)

	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.ConfirmedAt, second.ConfirmedAt)
	assert.Equal(t, 1, env.charger.calls)
}

func TestConfirmIntent_UnknownID(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.ConfirmIntent(context.Background(), "pi_does_not_exist", processor.MethodVisa)

	assert.ErrorIs(t, err, ErrIntentNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestConfirmIntent_Declines(t *testing.T) {
	cases := map[string]string{
		processor.MethodDeclined:             domain.DeclineCardDeclined,
		processor.MethodInsufficientFunds:    domain.DeclineInsufficientFunds,
		processor.MethodExpiredCard:          domain.DeclineExpiredCard,
		processor.MethodIncorrectCVC:         domain.DeclineIncorrectCVC,
		processor.MethodProcessorUnavailable: domain.DeclineProcessingError,
	}

	for method, code := range cases {
		t.Run(method, func(t *testing.T) {
			env := newTestEnv(t)
			pi := createIntent(t, env)

			failed, err := env.svc.ConfirmIntent(context.Background(), pi.ID, method)

			var decline *domain.DeclineError
			require.ErrorAs(t, err, &decline)
			assert.Equal(t, code, decline.Code)
			assert.Equal(t, domain.DeclineReason(code), decline.Reason)
			assert.Equal(t, domain.IntentFailed, failed.Status)

			recent := env.notifications.Recent(10)
			require.Len(t, recent, 1)
			assert.Equal(t, domain.NotificationPaymentFailed, recent[0].Kind)

			// Повторное подтверждение не обращается к процессору и возвращает тот же отказ
			_, err = env.svc.ConfirmIntent(context.Background(), pi.ID, processor.MethodVisa)
			assert.ErrorAs(t, err, &decline)
			assert.Equal(t, 1, env.charger.calls)
		})
	}
}

func TestConfirmIntent_WebhookWinsRace(t *testing.T) {
	env := newTestEnv(t)
	pi := createIntent(t, env)

	// Webhook успевает завершить намерение, пока процессор обрабатывает подтверждение
	env.intents.beforeTransition = func(id string, to domain.IntentStatus) {
		if to == domain.IntentSucceeded {
			env.intents.forceStatus(id, domain.IntentFailed)
		}
	}

	result, err := env.svc.ConfirmIntent(context.Background(), pi.ID, processor.MethodVisa)

	assert.ErrorIs(t, err, domain.ErrPaymentDeclined)
	assert.Equal(t, domain.IntentFailed, result.Status)
}

func TestConfirmIntent_ConcurrentCallsChargeOnce(t *testing.T) {
	env := newTestEnv(t)
	pi := createIntent(t, env)

	var wg sync.WaitGroup
	results := make([]error, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = env.svc.ConfirmIntent(context.Background(), pi.ID, processor.MethodVisa)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, env.charger.calls)
	for _, err := range results {
		if err != nil {
			assert.ErrorIs(t, err, ErrConfirmationInProgress)
		}
	}

	stored, err := env.svc.GetIntent(context.Background(), pi.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.IntentSucceeded, stored.Status)
}

func TestConfirmIntent_SettlesAfterClientCancels(t *testing.T) {
	env := newTestEnv(t)
	pi := createIntent(t, env)

	// Клиент отключается, когда процессор уже одобрил списание
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	env.charger.afterCharge = cancel

	confirmed, err := env.svc.ConfirmIntent(ctx, pi.ID, processor.MethodVisa)
	require.NoError(t, err)
	assert.Equal(t, domain.IntentSucceeded, confirmed.Status)

	stored, err := env.svc.GetIntent(context.Background(), pi.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.IntentSucceeded, stored.Status)
	assert.Equal(t, 1, env.charger.calls)
}

func TestConfirmIntent_ReclaimsStaleConfirmation(t *testing.T) {
	env := newTestEnv(t)
	pi := createIntent(t, env)

	env.intents.forceConfirming(pi.ID, env.clock.now.Add(-30*time.Second))
	_, err := env.svc.ConfirmIntent(context.Background(), pi.ID, processor.MethodVisa)
	assert.ErrorIs(t, err, ErrConfirmationInProgress)
	assert.Zero(t, env.charger.calls)

	env.intents.forceConfirming(pi.ID, env.clock.now.Add(-10*time.Minute))
	confirmed, err := env.svc.ConfirmIntent(context.Background(), pi.ID, processor.MethodVisa)
	require.NoError(t, err)
	assert.Equal(t, domain.IntentSucceeded, confirmed.Status)
	assert.Equal(t, 1, env.charger.calls)

	// Завершенное намерение больше не списывается
	_, err = env.svc.ConfirmIntent(context.Background(), pi.ID, processor.MethodVisa)
	require.NoError(t, err)
	assert.Equal(t, 1, env.charger.calls)
}

func TestProcess(t *testing.T) {
	env := newTestEnv(t)

	pi, err := env.svc.Process(context.Background(), &models.ProcessRequest{
		CreateIntentRequest: models.CreateIntentRequest{Amount: 10800, Currency: "usd"},
		PaymentMethodID:     processor.MethodVisa,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.IntentSucceeded, pi.Status)

	_, err = env.svc.Process(context.Background(), &models.ProcessRequest{
		CreateIntentRequest: models.CreateIntentRequest{Amount: 10800, Currency: "usd"},
	})
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "paymentMethodId")
	assert.Len(t, env.intents.intents, 1)
}

func TestHandleEvent_Succeeded(t *testing.T) {
	env := newTestEnv(t)
	pi := createIntent(t, env)
	event := domain.PaymentEvent{
		ID:   "evt_1",
		Type: domain.EventIntentSucceeded,
		Data: domain.PaymentEventData{Object: domain.PaymentEventObject{ID: pi.ID}},
	}

	require.NoError(t, env.svc.HandleEvent(context.Background(), event))
	require.NoError(t, env.svc.HandleEvent(context.Background(), event))

	stored, err := env.svc.GetIntent(context.Background(), pi.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.IntentSucceeded, stored.Status)
	assert.Len(t, env.metrics.transitions, 1)

	// Клиент подтверждает после webhook: списания нет, состояние то же
	confirmed, err := env.svc.ConfirmIntent(context.Background(), pi.ID, processor.MethodVisa)
	require.NoError(t, err)
	assert.Equal(t, domain.IntentSucceeded, confirmed.Status)
	assert.Zero(t, env.charger.calls)
}

func TestHandleEvent_Failed(t *testing.T) {
	env := newTestEnv(t)
	pi := createIntent(t, env)

	err := env.svc.HandleEvent(context.Background(), domain.PaymentEvent{
		ID:   "evt_2",
		Type: domain.EventIntentFailed,
		Data: domain.PaymentEventData{Object: domain.PaymentEventObject{
			ID:               pi.ID,
			LastPaymentError: &domain.PaymentErrorInfo{Code: domain.DeclineInsufficientFunds},
		}},
	})
	require.NoError(t, err)

	stored, err := env.svc.GetIntent(context.Background(), pi.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.IntentFailed, stored.Status)
	require.NotNil(t, stored.FailureCode)
	assert.Equal(t, domain.DeclineInsufficientFunds, *stored.FailureCode)
	assert.Equal(t, []bookingUpdate{{intentID: pi.ID, to: domain.StatusPaymentFailed}}, env.bookings.updates)
}

func TestHandleEvent_StaleEventDoesNotRegress(t *testing.T) {
	env := newTestEnv(t)
	pi := createIntent(t, env)
	_, err := env.svc.ConfirmIntent(context.Background(), pi.ID, processor.MethodVisa)
	require.NoError(t, err)

	err = env.svc.HandleEvent(context.Background(), domain.PaymentEvent{
		ID:   "evt_3",
		Type: domain.EventIntentFailed,
		Data: domain.PaymentEventData{Object: domain.PaymentEventObject{ID: pi.ID}},
	})
	require.NoError(t, err)

	stored, err := env.svc.GetIntent(context.Background(), pi.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.IntentSucceeded, stored.Status)
	assert.Empty(t, env.bookings.updates)
}

func TestHandleEvent_IgnoresUnknown(t *testing.T) {
	env := newTestEnv(t)

	err := env.svc.HandleEvent(context.Background(), domain.PaymentEvent{ID: "evt_4", Type: "charge.refunded"})
	require.NoError(t, err)
	assert.True(t, env.events.processed["evt_4"])

	err = env.svc.HandleEvent(context.Background(), domain.PaymentEvent{
		ID:   "evt_5",
		Type: domain.EventIntentSucceeded,
		Data: domain.PaymentEventData{Object: domain.PaymentEventObject{ID: "pi_unknown"}},
	})
	require.NoError(t, err)

	err = env.svc.HandleEvent(context.Background(), domain.PaymentEvent{ID: "evt_6"})
	assert.True(t, errors.Is(err, domain.ErrValidation))
}
