package get_booking

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-CoachBookingService/internal/service/bookings"
	"github.com/m04kA/SMC-CoachBookingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-CoachBookingService/pkg/logger"
)

type fakeService struct{}

func (fakeService) GetByID(_ context.Context, id int64) (*models.BookingResponse, error) {
	switch id {
	case 1:
		return &models.BookingResponse{ID: 1, Status: "active", CoachID: "coach-1"}, nil
	case 2:
		return nil, bookings.ErrInternal
	default:
		return nil, bookings.ErrBookingNotFound
	}
}

func TestHandle(t *testing.T) {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/bookings/{bookingId}", NewHandler(fakeService{}, logger.NewNop()).Handle)

	cases := map[string]int{
		"/api/v1/bookings/1":   http.StatusOK,
		"/api/v1/bookings/2":   http.StatusInternalServerError,
		"/api/v1/bookings/404": http.StatusNotFound,
		"/api/v1/bookings/abc": http.StatusBadRequest,
	}
	for path, status := range cases {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, status, rec.Code, path)
	}
}
