package bookings

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-CoachBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-CoachBookingService/internal/notifications"
	"github.com/m04kA/SMC-CoachBookingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-CoachBookingService/pkg/logger"
	"github.com/m04kA/SMC-CoachBookingService/pkg/ptr"
)

type fakeRepo struct {
	bookings   map[int64]*domain.Booking
	lastFilter domain.BookingsFilter
	updateErr  error
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeRepo) List(_ context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	f.lastFilter = filter
	result := make([]*domain.Booking, 0, len(f.bookings))
	for _, b := range f.bookings {
		result = append(result, b)
	}
	return result, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id int64, from []domain.BookingStatus, to domain.BookingStatus) (*domain.Booking, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	b := f.bookings[id]
	for _, s := range from {
		if b.Status == s {
			b.Status = to
			cp := *b
			return &cp, nil
		}
	}
	return nil, bookingRepo.ErrStatusConflict
}

func newService(status domain.BookingStatus) (*Service, *fakeRepo, *notifications.Memory) {
	repo := &fakeRepo{bookings: map[int64]*domain.Booking{
		1: {ID: 1, PaymentIntentID: "pi_1", Status: status, CoachID: "coach-1"},
	}}
	store := notifications.NewMemory(10)
	return NewService(repo, store, logger.NewNop()), repo, store
}

func TestService_GetByID(t *testing.T) {
	svc, _, _ := newService(domain.StatusActive)

	b, err := svc.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "pi_1", b.PaymentIntentID)

	_, err = svc.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestService_List(t *testing.T) {
	svc, repo, _ := newService(domain.StatusActive)

	resp, err := svc.List(context.Background(), &models.ListBookingsRequest{Status: ptr.Ptr("paused")})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 1)
	require.NotNil(t, repo.lastFilter.Status)
	assert.Equal(t, domain.StatusPaused, *repo.lastFilter.Status)

	_, err = svc.List(context.Background(), &models.ListBookingsRequest{Status: ptr.Ptr("archived")})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestService_UpdateStatus(t *testing.T) {
	cases := []struct {
		name    string
		from    domain.BookingStatus
		to      string
		wantErr error
	}{
		{name: "pause active", from: domain.StatusActive, to: "paused"},
		{name: "resume paused", from: domain.StatusPaused, to: "active"},
		{name: "complete paused", from: domain.StatusPaused, to: "completed"},
		{name: "cancel active", from: domain.StatusActive, to: "cancelled"},
		{name: "reopen cancelled", from: domain.StatusCancelled, to: "active", wantErr: ErrInvalidTransition},
		{name: "completed is final", from: domain.StatusCompleted, to: "paused", wantErr: ErrInvalidTransition},
		{name: "payment_failed is not user-settable", from: domain.StatusActive, to: "payment_failed", wantErr: ErrInvalidTransition},
		{name: "unknown status", from: domain.StatusActive, to: "archived", wantErr: ErrInvalidStatus},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _, store := newService(tc.from)

			resp, err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{Status: tc.to})
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Empty(t, store.Recent(10))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.to, resp.Status)

			recent := store.Recent(10)
			require.Len(t, recent, 1)
			assert.Equal(t, domain.NotificationBookingUpdated, recent[0].Kind)
		})
	}
}

func TestService_UpdateStatus_Errors(t *testing.T) {
	svc, repo, _ := newService(domain.StatusActive)

	_, err := svc.UpdateStatus(context.Background(), 7, &models.UpdateStatusRequest{Status: "paused"})
	assert.ErrorIs(t, err, ErrBookingNotFound)

	repo.updateErr = bookingRepo.ErrStatusConflict
	_, err = svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{Status: "paused"})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	repo.updateErr = errors.New("connection reset")
	_, err = svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{Status: "paused"})
	assert.ErrorIs(t, err, ErrInternal)
}
