package payment_webhook

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
	"github.com/m04kA/SMC-CoachBookingService/pkg/logger"
)

type fakeService struct {
	events []domain.PaymentEvent
	err    error
}

func (f *fakeService) HandleEvent(_ context.Context, event domain.PaymentEvent) error {
	f.events = append(f.events, event)
	return f.err
}

func serve(svc PaymentService, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/payments/webhook", strings.NewReader(body))
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandle_Accepted(t *testing.T) {
	svc := &fakeService{}

	rec := serve(svc, `{"id":"evt_1","type":"payment_intent.payment_failed","data":{"object":{"id":"pi_1","last_payment_error":{"code":"card_declined"}}}}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"received":true}`, rec.Body.String())
	require.Len(t, svc.events, 1)
	assert.Equal(t, "pi_1", svc.events[0].Data.Object.ID)
	assert.Equal(t, "card_declined", svc.events[0].Data.Object.LastPaymentError.Code)
}

func TestHandle_Rejected(t *testing.T) {
	rec := serve(&fakeService{}, `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(&fakeService{err: domain.NewValidationError(map[string]string{"type": "event type is required"})}, `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(&fakeService{err: errors.New("db down")}, `{"id":"evt_2","type":"payment_intent.succeeded"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
