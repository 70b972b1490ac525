package get_occupied_slots

import (
	"time"

	"github.com/m04kA/Barber-BookingService/pkg/timeslot"
)

// Request запрос занятости на один календарный день. UserID опционален:
// если задан, собственные бронирования пользователя в других барбершопах
// тоже блокируют слоты, и сетка отражает то, что он реально может занять
type Request struct {
	BarbershopID string    // Опционально, при пустом выводится из услуги
	ServiceID    string    // Обязательно
	UserID       string    // Опционально
	Date         time.Time // Любой момент внутри запрошенного дня, локальные часы
}

// Config сетка рабочего дня, на которую проецируется занятость
type Config struct {
	OpenTime    timeslot.TimeString
	CloseTime   timeslot.TimeString
	StepMinutes int
}

// Response сетка дня, разбитая на занятые и свободные слоты
type Response struct {
	Date      time.Time
	Occupied  []timeslot.TimeString
	Available []timeslot.TimeString
}
