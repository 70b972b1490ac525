package create_booking

import (
	"time"

	createBooking "github.com/m04kA/Barber-BookingService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	BarbershopID string `json:"barbershopId"`
	ServiceID    string `json:"serviceId"`
	Date         string `json:"date"` // Время начала в RFC 3339, например "2026-09-14T10:30:00+03:00"
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID              string `json:"id"`
	UserID          string `json:"userId"`
	BarbershopID    string `json:"barbershopId"`
	ServiceID       string `json:"serviceId"`
	Date            string `json:"date"`
	DurationMinutes int    `json:"durationMinutes"`
	Cancelled       bool   `json:"cancelled"`
	BarbershopName  string `json:"barbershopName"`
	ServiceName     string `json:"serviceName"`
	PriceInCents    int64  `json:"priceInCents"`
	CreatedAt       string `json:"createdAt"`
	UpdatedAt       string `json:"updatedAt"`
}

// ConflictResponse payload 409 для самоконфликта пользователя. Несёт
// достаточно данных существующего бронирования, чтобы клиент показал,
// какая запись блокирует новую
type ConflictResponse struct {
	Error    string          `json:"error"`
	Conflict ConflictDetails `json:"conflict"`
}

// ConflictDetails описывает конфликтующее бронирование
type ConflictDetails struct {
	BarbershopName string `json:"barbershopName"`
	ServiceName    string `json:"serviceName"`
	Date           string `json:"date"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(userID string) (*createBooking.Request, error) {
	startAt, err := time.Parse(time.RFC3339, r.Date)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		UserID:       userID,
		BarbershopID: r.BarbershopID,
		ServiceID:    r.ServiceID,
		StartAt:      startAt,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:              resp.ID,
		UserID:          resp.UserID,
		BarbershopID:    resp.BarbershopID,
		ServiceID:       resp.ServiceID,
		Date:            resp.StartAt.Format(time.RFC3339),
		DurationMinutes: resp.DurationMinutes,
		Cancelled:       resp.Cancelled,
		BarbershopName:  resp.BarbershopName,
		ServiceName:     resp.ServiceName,
		PriceInCents:    resp.PriceInCents,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}
}
