package catalogservice

import "errors"

var (
	// ErrBarbershopNotFound возвращается, когда барбершоп не найден в каталоге
	ErrBarbershopNotFound = errors.New("barbershop not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена в каталоге
	ErrServiceNotFound = errors.New("service not found")

	// ErrInternal возвращается при ошибках на стороне клиента
	ErrInternal = errors.New("catalogservice client: internal error")

	// ErrInvalidResponse возвращается, когда каталог ответил неожиданным
	// статусом или нечитаемым телом
	ErrInvalidResponse = errors.New("catalogservice client: invalid response")
)
