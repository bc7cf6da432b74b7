package confirm_intent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
	"github.com/m04kA/SMC-CoachBookingService/internal/service/payments"
	"github.com/m04kA/SMC-CoachBookingService/pkg/logger"
)

type fakeService struct {
	intent *domain.PaymentIntent
	err    error
	calls  int
}

func (f *fakeService) ConfirmIntent(context.Context, string, string) (*domain.PaymentIntent, error) {
	f.calls++
	return f.intent, f.err
}

func serve(svc PaymentService, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/payments/confirm", strings.NewReader(body))
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandle_Success(t *testing.T) {
	svc := &fakeService{intent: &domain.PaymentIntent{ID: "pi_1", Status: domain.IntentSucceeded}}

	rec := serve(svc, `{"paymentIntentId":"pi_1","paymentMethodId":"pm_card_visa"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		PaymentIntent struct {
			Status string `json:"status"`
		} `json:"paymentIntent"`
		Success bool `json:"success"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "succeeded", resp.PaymentIntent.Status)
}

func TestHandle_MissingIntentID(t *testing.T) {
	svc := &fakeService{}

	rec := serve(svc, `{"paymentMethodId":"pm_card_visa"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "paymentIntentId is required")
	assert.Zero(t, svc.calls)
}

func TestHandle_NotFound(t *testing.T) {
	rec := serve(&fakeService{err: payments.ErrIntentNotFound}, `{"paymentIntentId":"pi_does_not_exist"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandle_InProgress(t *testing.T) {
	rec := serve(&fakeService{err: payments.ErrConfirmationInProgress}, `{"paymentIntentId":"pi_1"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandle_Declined(t *testing.T) {
	code := domain.DeclineExpiredCard
	svc := &fakeService{
		intent: &domain.PaymentIntent{ID: "pi_1", Status: domain.IntentFailed, FailureCode: &code},
		err:    domain.NewDeclineError(code),
	}

	rec := serve(svc, `{"paymentIntentId":"pi_1","paymentMethodId":"pm_card_chargeDeclinedExpiredCard"}`)

	require.Equal(t, http.StatusPaymentRequired, rec.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "payment_declined", resp["error"])
	assert.Equal(t, "expired_card", resp["code"])
	assert.Equal(t, "Your card has expired.", resp["message"])
	assert.NotNil(t, resp["paymentIntent"])
}
