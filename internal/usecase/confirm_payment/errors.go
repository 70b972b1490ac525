package confirm_payment

import "errors"

var (
	// ErrInvalidInput возвращается, когда в метаданных события нет полей,
	// нужных для бронирования. Доставка некорректна и не ретраится
	ErrInvalidInput = errors.New("confirm_payment: invalid event metadata")

	// ErrInternal возвращается при внутренних ошибках. Хендлер отвечает
	// 5xx, чтобы провайдер доставил событие повторно
	ErrInternal = errors.New("confirm_payment: internal error")
)
