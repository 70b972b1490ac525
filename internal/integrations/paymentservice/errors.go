package paymentservice

import "errors"

var (
	// ErrInternal возвращается при ошибках на стороне клиента
	ErrInternal = errors.New("paymentservice client: internal error")

	// ErrInvalidResponse возвращается, когда провайдер ответил неожиданным
	// статусом или нечитаемым телом
	ErrInvalidResponse = errors.New("paymentservice client: invalid response")

	// ErrUnavailable возвращается, когда провайдер недоступен или отклонил
	// запрос; вызывающий отдаёт это как общую ошибку
	ErrUnavailable = errors.New("paymentservice client: provider unavailable")

	// ErrMissingSignature возвращается, когда доставка вебхука пришла без
	// заголовка подписи
	ErrMissingSignature = errors.New("paymentservice webhook: missing signature")

	// ErrInvalidSignature возвращается, когда подпись вебхука не проходит
	// проверку общим секретом или timestamp слишком старый
	ErrInvalidSignature = errors.New("paymentservice webhook: invalid signature")

	// ErrInvalidPayload возвращается, когда тело вебхука не является
	// валидным документом события
	ErrInvalidPayload = errors.New("paymentservice webhook: invalid payload")
)
