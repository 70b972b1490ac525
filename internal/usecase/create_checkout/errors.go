package create_checkout

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_checkout: invalid input data")

	// ErrInvalidDate возвращается, когда запрошенное время уже в прошлом
	ErrInvalidDate = errors.New("create_checkout: booking date is in the past")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("create_checkout: service not found")

	// ErrSlotNotAvailable возвращается, когда слот (барбершоп, услуга) уже
	// занят; checkout сессия не создается
	ErrSlotNotAvailable = errors.New("create_checkout: time slot is not available")

	// ErrUserBookingConflict возвращается, когда у пользователя уже есть
	// пересекающееся активное бронирование; checkout сессия не создается
	ErrUserBookingConflict = errors.New("create_checkout: user already has a booking at this time")

	// ErrPaymentUnavailable возвращается, когда платёжный провайдер
	// недоступен или отклонил запрос на сессию
	ErrPaymentUnavailable = errors.New("create_checkout: payment provider unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_checkout: internal error")
)

// ConflictingBooking описывает существующее бронирование, блокирующее запрос
type ConflictingBooking struct {
	BarbershopName string
	ServiceName    string
	StartAt        time.Time
}

// UserConflictError оборачивает ErrUserBookingConflict деталями
// конфликтующего бронирования. Хендлеры достают его через errors.As
type UserConflictError struct {
	Conflicting ConflictingBooking
}

func (e *UserConflictError) Error() string {
	return fmt.Sprintf("%v: %s / %s at %s",
		ErrUserBookingConflict,
		e.Conflicting.BarbershopName,
		e.Conflicting.ServiceName,
		e.Conflicting.StartAt.Format(time.RFC3339),
	)
}

func (e *UserConflictError) Unwrap() error {
	return ErrUserBookingConflict
}
