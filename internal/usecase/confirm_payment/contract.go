package confirm_payment

import (
	"context"

	"github.com/m04kA/Barber-BookingService/internal/domain"
	"github.com/m04kA/Barber-BookingService/internal/integrations/catalogservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetOverlapping(ctx context.Context, filter domain.OverlapFilter, interval domain.TimeInterval) ([]*domain.Booking, error)
}

// EventRepository интерфейс репозитория обработанных событий вебхука
type EventRepository interface {
	MarkProcessed(ctx context.Context, eventID string, eventType string) (bool, error)
}

// CatalogServiceClient интерфейс клиента каталога барбершопов и услуг
type CatalogServiceClient interface {
	GetBarbershop(ctx context.Context, barbershopID string) (*catalogservice.Barbershop, error)
	GetService(ctx context.Context, serviceID string) (*catalogservice.Service, error)
}

// TransactionManager интерфейс для управления транзакциями: отметка
// события, проверки конфликтов и вставка выполняются атомарно
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics интерфейс бизнес-метрик use case
type Metrics interface {
	BookingCreated(source string)
	ConfirmationDropped(reason string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
