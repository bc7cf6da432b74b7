package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
	"github.com/m04kA/SMC-CoachBookingService/internal/integrations/coachservice"
)

// UseCase use case для получения слотов тренера на дату
type UseCase struct {
	bookingRepo  BookingRepository
	coachClient  CoachServiceClient
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	coachClient CoachServiceClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		coachClient:  coachClient,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: coach=%s, date=%s", req.CoachID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Получаем расписание тренера; при недоступности каталога работаем с настройками по умолчанию
	cfg, err := uc.slotConfig(ctx, req.CoachID)
	if err != nil {
		return nil, err
	}

	// 3. Валидация даты с учетом горизонта бронирования
	if err := validateDate(req.Date, now, cfg.AdvanceBookingDays); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	// 4. Активные бронирования тренера на эту дату
	coachID := req.CoachID
	date := req.Date
	bookings, err := uc.bookingRepo.List(ctx, domain.BookingsFilter{
		CoachID:     &coachID,
		SessionDate: &date,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 5. Генерируем слоты
	slots, err := generateSlots(cfg, req.Date, now, bookings)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to generate slots for coach=%s: %v", req.CoachID, err)
		return nil, fmt.Errorf("%w: failed to generate slots: %v", ErrInternal, err)
	}

	uc.logger.Info("GetAvailableSlots: generated %d slots for coach=%s, date=%s",
		len(slots), req.CoachID, req.Date.Format(domain.DateFormat))

	return &Response{
		CoachID: req.CoachID,
		Date:    req.Date,
		Slots:   slots,
	}, nil
}

func (uc *UseCase) slotConfig(ctx context.Context, coachID string) (domain.SlotConfig, error) {
	cfg := domain.SlotConfig{
		DayStart:                domain.DefaultDayStart,
		DayEnd:                  domain.DefaultDayEnd,
		SessionMinutes:          domain.DefaultSessionMinutes,
		AdvanceBookingDays:      domain.DefaultAdvanceBookingDays,
		MinBookingNoticeMinutes: domain.DefaultMinBookingNoticeMinutes,
	}

	coach, err := uc.coachClient.GetCoach(ctx, coachID)
	if err != nil {
		if errors.Is(err, coachservice.ErrCoachNotFound) {
			uc.logger.Warn("GetAvailableSlots: coach=%s not found", coachID)
			return cfg, ErrCoachNotFound
		}
		uc.logger.Warn("GetAvailableSlots: coach directory unavailable, using default schedule: %v", err)
		return cfg, nil
	}

	if s := coach.Schedule; s != nil {
		if s.DayStart != "" {
			cfg.DayStart = s.DayStart
		}
		if s.DayEnd != "" {
			cfg.DayEnd = s.DayEnd
		}
		if s.SessionMinutes > 0 {
			cfg.SessionMinutes = s.SessionMinutes
		}
		if s.AdvanceBookingDays > 0 {
			cfg.AdvanceBookingDays = s.AdvanceBookingDays
		}
		if s.MinBookingNoticeMinutes > 0 {
			cfg.MinBookingNoticeMinutes = s.MinBookingNoticeMinutes
		}
	}

	return cfg, nil
}
