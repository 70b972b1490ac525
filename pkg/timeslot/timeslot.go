// Package timeslot тип-значение TimeString для меток слотов по настенным
// часам ("HH:MM") и арифметика, на которой строится сетка слотов
package timeslot

import (
	"errors"
	"fmt"
	"time"
)

// Format канонический формат метки времени
const Format = "15:04"

var (
	// ErrInvalidFormat возвращается, когда строка не является валидной меткой "HH:MM"
	ErrInvalidFormat = errors.New("timeslot: invalid time string format")

	// ErrOutOfRange возвращается, когда арифметика выходит за день 00:00-23:59
	ErrOutOfRange = errors.New("timeslot: time out of day range")
)

// TimeString метка времени суток вида "HH:MM".
// Нулевое значение это пустая строка, IsZero() для неё возвращает true
type TimeString string

// NewTimeString строит TimeString из времени суток момента t
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(Format))
}

// NewTimeStringFromString парсит и валидирует метку "HH:MM"
func NewTimeStringFromString(s string) (TimeString, error) {
	ts := TimeString(s)
	if err := ts.Validate(); err != nil {
		return "", err
	}
	return ts, nil
}

// String возвращает саму метку
func (t TimeString) String() string {
	return string(t)
}

// IsZero сообщает, не задана ли метка
func (t TimeString) IsZero() bool {
	return t == ""
}

// Validate проверяет, что метка это корректное время суток "HH:MM"
func (t TimeString) Validate() error {
	if _, err := time.Parse(Format, string(t)); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidFormat, string(t))
	}
	return nil
}

// minutes возвращает метку в минутах от полуночи
func (t TimeString) minutes() (int, error) {
	parsed, err := time.Parse(Format, string(t))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, string(t))
	}
	return parsed.Hour()*60 + parsed.Minute(), nil
}

// AddMinutes возвращает метку, сдвинутую вперёд на заданное число минут.
// Ошибка, если результат выходит за пределы текущего дня
func (t TimeString) AddMinutes(minutes int) (TimeString, error) {
	m, err := t.minutes()
	if err != nil {
		return "", err
	}
	m += minutes
	if m < 0 || m >= 24*60 {
		return "", fmt.Errorf("%w: %q + %d minutes", ErrOutOfRange, string(t), minutes)
	}
	return TimeString(fmt.Sprintf("%02d:%02d", m/60, m%60)), nil
}

// IsBefore сообщает, строго ли t раньше other в пределах дня.
// Некорректные метки сравниваются как не-раньше
func (t TimeString) IsBefore(other TimeString) bool {
	a, errA := t.minutes()
	b, errB := other.minutes()
	if errA != nil || errB != nil {
		return false
	}
	return a < b
}

// IsAfter сообщает, строго ли t позже other в пределах дня
func (t TimeString) IsAfter(other TimeString) bool {
	return other.IsBefore(t)
}

// At привязывает метку к заданной календарной дате в loc и возвращает
// получившийся момент времени
func (t TimeString) At(date time.Time, loc *time.Location) (time.Time, error) {
	m, err := t.minutes()
	if err != nil {
		return time.Time{}, err
	}
	y, mo, d := date.Date()
	return time.Date(y, mo, d, m/60, m%60, 0, 0, loc), nil
}
