package create_checkout

import (
	"fmt"
	"time"

	"github.com/m04kA/Barber-BookingService/internal/domain"
)

// validateRequest проверяет обязательные поля запроса
func validateRequest(req *Request) error {
	if req.UserID == "" {
		return fmt.Errorf("%w: userID is required", ErrInvalidInput)
	}
	if req.ServiceID == "" {
		return fmt.Errorf("%w: serviceID is required", ErrInvalidInput)
	}
	if req.StartAt.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	return nil
}

// validateStart отклоняет слоты, время начала которых уже прошло
func validateStart(startAt, now time.Time) error {
	if domain.IsSlotInPast(startAt, now) {
		return ErrInvalidDate
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
