package get_occupied_slots

import (
	"context"
	"time"

	"github.com/m04kA/Barber-BookingService/internal/domain"
	"github.com/m04kA/Barber-BookingService/internal/integrations/catalogservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetOccupiedSlots(ctx context.Context, q domain.OccupiedSlotsQuery) ([]domain.TimeInterval, error)
}

// CatalogServiceClient интерфейс клиента каталога. Резолвит услугу,
// когда вызывающий не указал барбершоп явно
type CatalogServiceClient interface {
	GetService(ctx context.Context, serviceID string) (*catalogservice.Service, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
