package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
)

const (
	msgInternalError    = "internal server error"
	msgNotFound         = "route not found"
	msgMethodNotAllowed = "method not allowed"
	msgValidation       = "request validation failed"
)

// Коды ошибок в поле error ответа
const (
	codeBadRequest       = "bad_request"
	codeNotFound         = "not_found"
	codeConflict         = "conflict"
	codeMethodNotAllowed = "method_not_allowed"
	codeInternal         = "internal_error"
	codeValidation       = "validation_error"
	codePaymentDeclined  = "payment_declined"
)

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// DeclineResponse тело ответа при отказе банка
type DeclineResponse struct {
	Error         string      `json:"error"`
	Message       string      `json:"message"`
	Code          string      `json:"code"`
	PaymentIntent interface{} `json:"paymentIntent,omitempty"`
}

// DecodeJSON разбирает тело запроса; неизвестные поля игнорируются
func DecodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return errors.New("empty request body")
	}
	return json.NewDecoder(r.Body).Decode(v)
}

// RespondJSON отправляет JSON ответ
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// RespondError отправляет ошибку с кодом, выбранным по HTTP статусу
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Error: errorCode(status), Message: message})
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

func RespondConflict(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusConflict, message)
}

// RespondInternalError детали ошибки не раскрываются клиенту, только в логах
func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}

// RespondValidation 400 с сообщениями по полям
func RespondValidation(w http.ResponseWriter, err *domain.ValidationError) {
	RespondJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:   codeValidation,
		Message: msgValidation,
		Fields:  err.Fields,
	})
}

// RespondDeclined 402 с кодом и понятной причиной отказа
func RespondDeclined(w http.ResponseWriter, err *domain.DeclineError, intent interface{}) {
	RespondJSON(w, http.StatusPaymentRequired, DeclineResponse{
		Error:         codePaymentDeclined,
		Message:       err.Reason,
		Code:          err.Code,
		PaymentIntent: intent,
	})
}

// AsValidation извлекает ошибку валидации, если она есть в цепочке
func AsValidation(err error) (*domain.ValidationError, bool) {
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		return vErr, true
	}
	return nil, false
}

// AsDecline извлекает отказ банка, если он есть в цепочке
func AsDecline(err error) (*domain.DeclineError, bool) {
	var dErr *domain.DeclineError
	if errors.As(err, &dErr) {
		return dErr, true
	}
	return nil, false
}

// NotFoundHandler ответ на неизвестный маршрут
func NotFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		RespondError(w, http.StatusNotFound, msgNotFound)
	})
}

// MethodNotAllowedHandler ответ на известный маршрут с неподходящим методом
func MethodNotAllowedHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		RespondError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
	})
}

func errorCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return codeBadRequest
	case http.StatusNotFound:
		return codeNotFound
	case http.StatusConflict:
		return codeConflict
	case http.StatusMethodNotAllowed:
		return codeMethodNotAllowed
	case http.StatusPaymentRequired:
		return codePaymentDeclined
	default:
		return codeInternal
	}
}
