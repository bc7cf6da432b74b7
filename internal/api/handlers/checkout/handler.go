package checkout

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CoachBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
	bookingModels "github.com/m04kA/SMC-CoachBookingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-CoachBookingService/internal/service/payments"
	paymentModels "github.com/m04kA/SMC-CoachBookingService/internal/service/payments/models"
	checkoutUC "github.com/m04kA/SMC-CoachBookingService/internal/usecase/checkout"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgSessionNotFound    = "checkout session not found or expired"
	msgConcurrentUpdate   = "checkout session was modified by another request, retry"
	msgNotAtPaymentStep   = "complete all steps before submitting payment"
	msgNotSubmitted       = "submit the payment step before completing checkout"
	msgPaymentInProgress  = "payment is already being processed"
	msgInvariant          = "payment is not in a state that allows booking"
)

// Handler обработчики сессий оформления бронирования
type Handler struct {
	useCase CheckoutUseCase
	logger  Logger
}

func NewHandler(useCase CheckoutUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Start POST /api/v1/checkout/sessions
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	view, err := h.useCase.Start(r.Context())
	if err != nil {
		h.respondError(w, "POST /checkout/sessions", "", err)
		return
	}

	h.logger.Info("POST /checkout/sessions - Session started: session_id=%s", view.Session.ID)
	handlers.RespondJSON(w, http.StatusCreated, FromView(view))
}

// Get GET /api/v1/checkout/sessions/{sessionId}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)

	view, err := h.useCase.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, "GET /checkout/sessions/{id}", id, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromView(view))
}

// SetField PUT /api/v1/checkout/sessions/{sessionId}/fields
func (h *Handler) SetField(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)

	var req SetFieldRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /checkout/sessions/{id}/fields - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	view, err := h.useCase.SetField(r.Context(), &checkoutUC.SetFieldRequest{
		SessionID: id,
		Step:      domain.StepID(req.Step),
		Name:      req.Name,
		Value:     req.Value,
	})
	if err != nil {
		h.respondError(w, "PUT /checkout/sessions/{id}/fields", id, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromView(view))
}

// Next POST /api/v1/checkout/sessions/{sessionId}/next
// Непройденная проверка шага не является ошибкой запроса: ответ 200 с stepResult
func (h *Handler) Next(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)

	view, err := h.useCase.Next(r.Context(), id)
	if err != nil {
		h.respondError(w, "POST /checkout/sessions/{id}/next", id, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromView(view))
}

// Previous POST /api/v1/checkout/sessions/{sessionId}/previous
func (h *Handler) Previous(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)

	view, err := h.useCase.Previous(r.Context(), id)
	if err != nil {
		h.respondError(w, "POST /checkout/sessions/{id}/previous", id, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromView(view))
}

// Quote GET /api/v1/checkout/sessions/{sessionId}/quote
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)

	pricing, err := h.useCase.Quote(r.Context(), id)
	if err != nil {
		h.respondError(w, "GET /checkout/sessions/{id}/quote", id, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, pricing)
}

// Submit POST /api/v1/checkout/sessions/{sessionId}/submit
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)

	result, err := h.useCase.Submit(r.Context(), id)
	if err != nil {
		h.respondError(w, "POST /checkout/sessions/{id}/submit", id, err)
		return
	}

	h.logger.Info("POST /checkout/sessions/{id}/submit - Payment intent ready: session_id=%s, intent=%s",
		id, result.Intent.ID)
	handlers.RespondJSON(w, http.StatusOK, SubmitResponse{
		ClientSecret:  result.Intent.ClientSecret,
		PaymentIntent: paymentModels.FromDomainIntent(result.Intent),
		Pricing:       result.Pricing,
	})
}

// Complete POST /api/v1/checkout/sessions/{sessionId}/complete
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)

	var req CompleteRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /checkout/sessions/{id}/complete - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Complete(r.Context(), id, req.PaymentMethodID)
	if err != nil {
		if dErr, ok := handlers.AsDecline(err); ok {
			var intent *paymentModels.IntentResponse
			if result != nil {
				intent = paymentModels.FromDomainIntent(result.Intent)
			}
			h.logger.Warn("POST /checkout/sessions/{id}/complete - Payment declined: session_id=%s, code=%s", id, dErr.Code)
			handlers.RespondDeclined(w, dErr, intent)
			return
		}
		h.respondError(w, "POST /checkout/sessions/{id}/complete", id, err)
		return
	}

	h.logger.Info("POST /checkout/sessions/{id}/complete - Booking created: session_id=%s, booking_id=%d",
		id, result.Booking.ID)
	handlers.RespondJSON(w, http.StatusCreated, CompleteResponse{
		Booking:       bookingModels.FromDomainBooking(result.Booking),
		PaymentIntent: paymentModels.FromDomainIntent(result.Intent),
	})
}

func (h *Handler) respondError(w http.ResponseWriter, route, id string, err error) {
	if vErr, ok := handlers.AsValidation(err); ok {
		h.logger.Warn("%s - Validation failed: session_id=%s, %v", route, id, vErr)
		handlers.RespondValidation(w, vErr)
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		h.logger.Warn("%s - Not found: session_id=%s, %v", route, id, err)
		handlers.RespondNotFound(w, msgSessionNotFound)

	case errors.Is(err, checkoutUC.ErrConcurrentUpdate):
		handlers.RespondConflict(w, msgConcurrentUpdate)

	case errors.Is(err, checkoutUC.ErrNotAtPaymentStep):
		handlers.RespondConflict(w, msgNotAtPaymentStep)

	case errors.Is(err, checkoutUC.ErrNotSubmitted):
		handlers.RespondConflict(w, msgNotSubmitted)

	case errors.Is(err, payments.ErrIdempotencyInFlight),
		errors.Is(err, payments.ErrConfirmationInProgress):
		handlers.RespondConflict(w, msgPaymentInProgress)

	case errors.Is(err, domain.ErrInvariantViolation):
		h.logger.Error("%s - Invariant violation: session_id=%s, %v", route, id, err)
		handlers.RespondConflict(w, msgInvariant)

	default:
		h.logger.Error("%s - Failed: session_id=%s, error=%v", route, id, err)
		handlers.RespondInternalError(w)
	}
}

func sessionID(r *http.Request) string {
	return mux.Vars(r)["sessionId"]
}
