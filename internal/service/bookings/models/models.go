package models

import (
	"time"

	"github.com/m04kA/Barber-BookingService/internal/domain"
)

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID              string     `json:"id"`
	UserID          string     `json:"userId"`
	BarbershopID    string     `json:"barbershopId"`
	ServiceID       string     `json:"serviceId"`
	Date            time.Time  `json:"date"`
	DurationMinutes int        `json:"durationMinutes"`
	Cancelled       bool       `json:"cancelled"`
	BarbershopName  string     `json:"barbershopName"`
	ServiceName     string     `json:"serviceName"`
	PriceInCents    int64      `json:"priceInCents"`
	CancelledAt     *time.Time `json:"cancelledAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []*BookingResponse `json:"bookings"`
}

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	return &BookingResponse{
		ID:              b.ID,
		UserID:          b.UserID,
		BarbershopID:    b.BarbershopID,
		ServiceID:       b.ServiceID,
		Date:            b.StartAt,
		DurationMinutes: b.DurationMinutes,
		Cancelled:       b.Cancelled,
		BarbershopName:  b.BarbershopName,
		ServiceName:     b.ServiceName,
		PriceInCents:    b.PriceInCents,
		CancelledAt:     b.CancelledAt,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	result := make([]*BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		result = append(result, FromDomainBooking(b))
	}
	return &BookingListResponse{Bookings: result}
}
