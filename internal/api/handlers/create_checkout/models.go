package create_checkout

import (
	"time"

	createCheckout "github.com/m04kA/Barber-BookingService/internal/usecase/create_checkout"
)

// CreateCheckoutRequest HTTP request model
type CreateCheckoutRequest struct {
	ServiceID string `json:"serviceId"`
	Date      string `json:"date"` // Время начала в RFC 3339
}

// CheckoutResponse HTTP response model с URL страницы оплаты
type CheckoutResponse struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case. Origin
// берётся из заголовка Origin, чтобы redirect вернул на сайт вызывающего
func (r *CreateCheckoutRequest) ToUseCaseRequest(userID, origin string) (*createCheckout.Request, error) {
	startAt, err := time.Parse(time.RFC3339, r.Date)
	if err != nil {
		return nil, err
	}

	return &createCheckout.Request{
		UserID:    userID,
		ServiceID: r.ServiceID,
		StartAt:   startAt,
		Origin:    origin,
	}, nil
}
