package process_payment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
	"github.com/m04kA/SMC-CoachBookingService/internal/service/payments/models"
	"github.com/m04kA/SMC-CoachBookingService/pkg/logger"
)

type fakeService struct {
	got    *models.ProcessRequest
	intent *domain.PaymentIntent
	err    error
}

func (f *fakeService) Process(_ context.Context, req *models.ProcessRequest) (*domain.PaymentIntent, error) {
	f.got = req
	return f.intent, f.err
}

func serve(svc PaymentService, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/payments/process", strings.NewReader(body))
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandle_Success(t *testing.T) {
	svc := &fakeService{intent: &domain.PaymentIntent{ID: "pi_1", Status: domain.IntentSucceeded}}

	rec := serve(svc, `{"paymentMethodId":"pm_card_visa","amount":5000,"currency":"usd","description":"Private lesson"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":true`)
	assert.Equal(t, "pm_card_visa", svc.got.PaymentMethodID)
	assert.Equal(t, int64(5000), svc.got.Amount)
}

func TestHandle_MissingFields(t *testing.T) {
	svc := &fakeService{err: domain.NewValidationError(map[string]string{"paymentMethodId": "paymentMethodId is required"})}

	rec := serve(svc, `{"amount":5000,"currency":"usd"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "paymentMethodId is required")
}

func TestHandle_Declined(t *testing.T) {
	code := domain.DeclineInsufficientFunds
	svc := &fakeService{
		intent: &domain.PaymentIntent{ID: "pi_1", Status: domain.IntentFailed, FailureCode: &code},
		err:    domain.NewDeclineError(code),
	}

	rec := serve(svc, `{"paymentMethodId":"pm_card_chargeDeclinedInsufficientFunds","amount":5000,"currency":"usd"}`)

	assert.Equal(t, http.StatusPaymentRequired, rec.Code)
	assert.Contains(t, rec.Body.String(), "insufficient_funds")
}
