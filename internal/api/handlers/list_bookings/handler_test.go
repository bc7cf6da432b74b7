package list_bookings

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CoachBookingService/internal/service/bookings"
	"github.com/m04kA/SMC-CoachBookingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-CoachBookingService/pkg/logger"
)

type fakeService struct {
	got *models.ListBookingsRequest
}

func (f *fakeService) List(_ context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	f.got = req
	if req.Status != nil && *req.Status == "archived" {
		return nil, bookings.ErrInvalidStatus
	}
	return &models.BookingListResponse{Bookings: []models.BookingResponse{{ID: 1}}}, nil
}

func TestToServiceRequest(t *testing.T) {
	req, err := ToServiceRequest(url.Values{
		"status":          {"paused"},
		"coachId":         {"coach-1"},
		"includeInactive": {"true"},
		"limit":           {"500"},
	})
	require.NoError(t, err)
	assert.Equal(t, "paused", *req.Status)
	assert.Equal(t, "coach-1", *req.CoachID)
	assert.True(t, req.IncludeInactive)
	assert.Equal(t, maxLimit, req.Limit)

	_, err = ToServiceRequest(url.Values{"limit": {"0"}})
	assert.Error(t, err)

	_, err = ToServiceRequest(url.Values{"includeInactive": {"maybe"}})
	assert.Error(t, err)
}

func TestHandle(t *testing.T) {
	svc := &fakeService{}
	h := NewHandler(svc, logger.NewNop())

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/bookings?status=active", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"bookings":[`)

	rec = httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/bookings?status=archived", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
