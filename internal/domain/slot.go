package domain

import (
	"time"

	"github.com/m04kA/Barber-BookingService/pkg/timeslot"
)

// DailySlots перечисляет доступные времена начала одного рабочего дня:
// openTime, openTime+step и так далее, не включая closeTime. Слот
// предлагается, только если он успевает закончиться к closeTime.
// Последовательность детерминирована и упорядочена
func DailySlots(openTime, closeTime timeslot.TimeString, stepMinutes int) ([]timeslot.TimeString, error) {
	if stepMinutes <= 0 {
		stepMinutes = DefaultSlotDurationMinutes
	}

	slots := make([]timeslot.TimeString, 0)
	current := openTime

	for current.IsBefore(closeTime) {
		end, err := current.AddMinutes(stepMinutes)
		if err != nil {
			return nil, err
		}
		if end.IsAfter(closeTime) {
			break
		}

		slots = append(slots, current)

		current, err = current.AddMinutes(stepMinutes)
		if err != nil {
			return nil, err
		}
	}

	return slots, nil
}

// IsSlotInPast сообщает, недостижимо ли уже начало слота: слот в прошлом
// тогда и только тогда, когда он начинается не позже now. Вызывающие
// применяют это только когда календарный день слота совпадает с сегодняшним
// по локальным часам; слоты будущих дат этим правилом не фильтруются
func IsSlotInPast(slotStart, now time.Time) bool {
	return !slotStart.After(now)
}

// IsSameDay сообщает, попадают ли два момента в один календарный день
func IsSameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// DayWindow возвращает включительные границы календарного дня, содержащего
// anchor, по локальным часам: [00:00:00.000, 23:59:59.999]
func DayWindow(anchor time.Time) (time.Time, time.Time) {
	y, m, d := anchor.Date()
	loc := anchor.Location()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	end := time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), loc)
	return start, end
}
