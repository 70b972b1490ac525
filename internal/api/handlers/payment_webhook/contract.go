package payment_webhook

import (
	"context"
	"time"

	"github.com/m04kA/Barber-BookingService/internal/integrations/paymentservice"
	confirmPayment "github.com/m04kA/Barber-BookingService/internal/usecase/confirm_payment"
)

type ConfirmPaymentUseCase interface {
	Execute(ctx context.Context, req *confirmPayment.Request) (*confirmPayment.Response, error)
}

// EventVerifier интерфейс проверки подписи доставки и декодирования payload
type EventVerifier interface {
	ConstructEvent(payload []byte, sigHeader string, now time.Time) (*paymentservice.WebhookEvent, error)
}

type Metrics interface {
	WebhookEventReceived(outcome string)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
