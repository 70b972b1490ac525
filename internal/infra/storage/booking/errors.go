package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено,
	// включая случай, когда оно принадлежит другому пользователю
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrSlotTaken возвращается, когда ресурсный уникальный индекс отклонил
	// вставку: слот (барбершоп, услуга) уже занят
	ErrSlotTaken = errors.New("booking.repository: slot already booked for this service")

	// ErrUserSlotTaken возвращается, когда пользовательский уникальный
	// индекс отклонил вставку: у пользователя уже есть бронирование на это время
	ErrUserSlotTaken = errors.New("booking.repository: user already has a booking at this time")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке чтения строки результата
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
