package finalize_booking

import "github.com/m04kA/SMC-CoachBookingService/internal/domain"

// Response результат финализации
type Response struct {
	Booking *domain.Booking
	// Created false, если бронирование по этому намерению уже существовало
	Created bool
}
