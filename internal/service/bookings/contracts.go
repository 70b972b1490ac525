package bookings

import (
	"context"

	"github.com/m04kA/Barber-BookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	GetByUserID(ctx context.Context, userID string) ([]*domain.Booking, error)
	Cancel(ctx context.Context, id string, userID string) error
}

// Metrics интерфейс бизнес-метрик сервиса
type Metrics interface {
	BookingCancelled()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
