package create_booking

import "time"

// Request запрос на прямое создание бронирования. UserID берётся из
// резолвленной сессии, а не из тела запроса
type Request struct {
	UserID       string
	BarbershopID string
	ServiceID    string
	StartAt      time.Time // абсолютное время начала запрошенного слота
}

// Response созданное бронирование
type Response struct {
	ID              string
	UserID          string
	BarbershopID    string
	ServiceID       string
	StartAt         time.Time
	DurationMinutes int
	Cancelled       bool

	BarbershopName string
	ServiceName    string
	PriceInCents   int64

	CreatedAt time.Time
	UpdatedAt time.Time
}
