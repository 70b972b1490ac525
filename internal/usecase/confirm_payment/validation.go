package confirm_payment

import (
	"fmt"

	"github.com/m04kA/Barber-BookingService/internal/domain"
)

// validateRequest проверяет восстановленные метаданные на обязательные поля
func validateRequest(req *Request) error {
	if req.EventID == "" {
		return fmt.Errorf("%w: event id is required", ErrInvalidInput)
	}
	if req.UserID == "" {
		return fmt.Errorf("%w: userId is required", ErrInvalidInput)
	}
	if req.BarbershopID == "" {
		return fmt.Errorf("%w: barbershopId is required", ErrInvalidInput)
	}
	if req.ServiceID == "" {
		return fmt.Errorf("%w: serviceId is required", ErrInvalidInput)
	}
	if req.StartAt.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	return nil
}

// serviceDuration возвращает длительность услуги из каталога,
// при её отсутствии подставляет дефолтную
func serviceDuration(durationMinutes int) int {
	if durationMinutes > 0 {
		return durationMinutes
	}
	return domain.DefaultSlotDurationMinutes
}
