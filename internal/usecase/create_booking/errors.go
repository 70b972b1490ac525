package create_booking

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInvalidDate возвращается, когда запрошенное время уже в прошлом
	ErrInvalidDate = errors.New("create_booking: booking date is in the past")

	// ErrBarbershopNotFound возвращается, когда барбершоп не найден
	ErrBarbershopNotFound = errors.New("create_booking: barbershop not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	// или не принадлежит указанному барбершопу
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrSlotNotAvailable возвращается, когда слот (барбершоп, услуга) уже
	// занят другим активным бронированием. Деталей не несёт: ресурсный
	// конфликт не привязан к видимой пользователю личности
	ErrSlotNotAvailable = errors.New("create_booking: time slot is not available")

	// ErrUserBookingConflict возвращается, когда у пользователя уже есть
	// активное бронирование, пересекающееся с запрошенным интервалом,
	// в любом барбершопе. Оборачивается в UserConflictError с деталями
	ErrUserBookingConflict = errors.New("create_booking: user already has a booking at this time")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)

// ConflictingBooking описывает существующее бронирование, блокирующее
// запрос: достаточно данных, чтобы объяснить пользователю конфликт
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
