package create_checkout

import (
	"context"
	"time"

	"github.com/m04kA/Barber-BookingService/internal/domain"
	"github.com/m04kA/Barber-BookingService/internal/integrations/catalogservice"
	"github.com/m04kA/Barber-BookingService/internal/integrations/paymentservice"
)

// BookingRepository интерфейс репозитория бронирований. Только чтение:
// проверка перед checkout носит рекомендательный характер, авторитетная
// проверка повторяется при подтверждении оплаты
type BookingRepository interface {
	GetOverlapping(ctx context.Context, filter domain.OverlapFilter, interval domain.TimeInterval) ([]*domain.Booking, error)
}

// CatalogServiceClient интерфейс клиента каталога барбершопов и услуг
type CatalogServiceClient interface {
	GetBarbershop(ctx context.Context, barbershopID string) (*catalogservice.Barbershop, error)
	GetService(ctx context.Context, serviceID string) (*catalogservice.Service, error)
}

// PaymentServiceClient интерфейс клиента платёжного сервиса
type PaymentServiceClient interface {
	CreateCheckoutSession(ctx context.Context, req *paymentservice.CreateSessionRequest) (*paymentservice.CheckoutSession, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Metrics интерфейс бизнес-метрик use case
type Metrics interface {
	CheckoutSessionCreated(status string)
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
