package models

import (
	"time"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
)

// ListBookingsRequest фильтр списка бронирований
type ListBookingsRequest struct {
	Status          *string
	CoachID         *string
	IncludeInactive bool
	Limit           int
}

// UpdateStatusRequest запрос на обновление статуса бронирования
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID              int64   `json:"id"`
	PaymentIntentID string  `json:"paymentIntentId"`
	Status          string  `json:"status"`
	CoachID         string  `json:"coachId"`
	CoachName       string  `json:"coachName"`
	PlayerName      string  `json:"playerName"`
	PlayerAge       int     `json:"playerAge"`
	Location        string  `json:"location"`
	SessionDate     string  `json:"sessionDate"` // "2025-10-15"
	TimeSlot        string  `json:"timeSlot"`    // "10:00"
	Recurring       bool    `json:"recurring"`
	Frequency       *string `json:"frequency,omitempty"`
	Notes           *string `json:"notes,omitempty"`
	Amount          int64   `json:"amount"`
	Currency        string  `json:"currency"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	return &BookingResponse{
		ID:              b.ID,
		PaymentIntentID: b.PaymentIntentID,
		Status:          string(b.Status),
		CoachID:         b.CoachID,
		CoachName:       b.CoachName,
		PlayerName:      b.PlayerName,
		PlayerAge:       b.PlayerAge,
		Location:        b.Location,
		SessionDate:     b.SessionDate.Format(domain.DateFormat),
		TimeSlot:        b.TimeSlot,
		Recurring:       b.Recurring,
		Frequency:       b.Frequency,
		Notes:           b.Notes,
		Amount:          b.Amount,
		Currency:        b.Currency,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

// FromDomainBookings конвертирует список бронирований
func FromDomainBookings(list []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{Bookings: make([]BookingResponse, 0, len(list))}
	for _, b := range list {
		resp.Bookings = append(resp.Bookings, *FromDomainBooking(b))
	}
	return resp
}
