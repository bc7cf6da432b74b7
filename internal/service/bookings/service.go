package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-CoachBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-CoachBookingService/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo   BookingRepository
	notifications NotificationPublisher
	logger        Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	notifications NotificationPublisher,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:   bookingRepo,
		notifications: notifications,
		logger:        logger,
	}
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.BookingResponse, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBooking(booking), nil
}

// List возвращает бронирования, по умолчанию без отмененных и неоплаченных
func (s *Service) List(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	filter := domain.BookingsFilter{
		CoachID:         req.CoachID,
		IncludeInactive: req.IncludeInactive,
		Limit:           req.Limit,
	}

	if req.Status != nil {
		status, ok := domain.ParseBookingStatus(*req.Status)
		if !ok {
			s.logger.Warn("List: invalid status filter=%s", *req.Status)
			return nil, ErrInvalidStatus
		}
		filter.Status = &status
	}

	list, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBookings(list), nil
}

// UpdateStatus переводит бронирование в новый статус.
// Разрешены active<->paused и active|paused -> completed|cancelled
func (s *Service) UpdateStatus(ctx context.Context, bookingID int64, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdateStatus: updating booking id=%d to status=%s", bookingID, req.Status)

	next, ok := domain.ParseBookingStatus(req.Status)
	if !ok {
		s.logger.Warn("UpdateStatus: invalid status=%s for booking id=%d", req.Status, bookingID)
		return nil, ErrInvalidStatus
	}

	// payment_failed выставляет только обработка платежей
	if next == domain.StatusPaymentFailed {
		return nil, ErrInvalidTransition
	}

	current, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("UpdateStatus: booking id=%d not found", bookingID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("UpdateStatus: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	if !current.Status.CanTransitionTo(next) {
		s.logger.Warn("UpdateStatus: transition %s -> %s rejected for booking id=%d", current.Status, next, bookingID)
		return nil, ErrInvalidTransition
	}

	updated, err := s.bookingRepo.UpdateStatus(ctx, bookingID, []domain.BookingStatus{current.Status}, next)
	if err != nil {
		switch {
		case errors.Is(err, bookingRepo.ErrBookingNotFound):
			return nil, ErrBookingNotFound
		case errors.Is(err, bookingRepo.ErrStatusConflict):
			s.logger.Warn("UpdateStatus: booking id=%d changed concurrently", bookingID)
			return nil, ErrInvalidTransition
		default:
			s.logger.Error("UpdateStatus: repository error for booking id=%d: %v", bookingID, err)
			return nil, fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
		}
	}

	id := updated.ID
	notification := domain.Notification{
		Kind:            domain.NotificationBookingUpdated,
		BookingID:       &id,
		PaymentIntentID: updated.PaymentIntentID,
		Message:         fmt.Sprintf("Booking %d is now %s", updated.ID, updated.Status),
	}
	if err := s.notifications.Publish(ctx, notification); err != nil {
		s.logger.Error("UpdateStatus: failed to publish notification for booking id=%d: %v", bookingID, err)
	}

	s.logger.Info("UpdateStatus: booking id=%d moved %s -> %s", bookingID, current.Status, next)
	return models.FromDomainBooking(updated), nil
}
