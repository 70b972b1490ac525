package domain

import "time"

// Booking модель бронирования слота услуги в барбершопе.
//
// Бронирование занимает полуоткрытый интервал [StartAt, StartAt+Duration).
// Отмена это односторонний soft-delete: отменённые бронирования хранятся
// для истории, но исключаются из всех расчётов конфликтов и занятости
type Booking struct {
	ID           string
	UserID       string
	BarbershopID string
	ServiceID    string

	StartAt         time.Time
	DurationMinutes int
	Cancelled       bool

	// Денормализованные данные каталога, фиксируются при создании, чтобы
	// сообщения о конфликтах и история переживали изменения каталога
	BarbershopName string
	ServiceName    string
	PriceInCents   int64

	CancelledAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsActive сообщает, занимает ли бронирование свой слот
func (b *Booking) IsActive() bool {
	return !b.Cancelled
}

// OccupiedInterval возвращает полуоткрытый интервал, занятый бронированием
func (b *Booking) OccupiedInterval() TimeInterval {
	return NewTimeInterval(b.StartAt, b.DurationMinutes)
}

// TimeInterval полуоткрытый интервал времени [Start, End)
type TimeInterval struct {
	Start time.Time
	End   time.Time
}

// NewTimeInterval строит интервал, занятый слотом с началом start и
// заданной длительностью
func NewTimeInterval(start time.Time, durationMinutes int) TimeInterval {
	return TimeInterval{
		Start: start,
		End:   start.Add(time.Duration(durationMinutes) * time.Minute),
	}
}

// Overlaps сообщает, пересекаются ли два полуоткрытых интервала.
// Интервалы, соприкасающиеся границей, не пересекаются
func (i TimeInterval) Overlaps(other TimeInterval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// ResourceKey идентифицирует ресурс, за который конкурируют бронирования:
// один исполнитель на тип услуги в барбершопе
type ResourceKey struct {
	BarbershopID string
	ServiceID    string
}

// OverlapFilter выбирает бронирования для проверки конфликтов. Задается
// ровно одно из UserID и Resource: правило пользователя действует во всех
// барбершопах, ресурсное ограничено одной парой (барбершоп, услуга)
type OverlapFilter struct {
	UserID   *string
	Resource *ResourceKey
}

// OccupiedSlotsQuery выбирает бронирования, начала которых попадают в один
// локальный календарный день, для проекции занятости. Resource и UserID
// независимы: когда заданы оба, результат это их объединение
type OccupiedSlotsQuery struct {
	Resource *ResourceKey
	UserID   *string
	DayStart time.Time
	DayEnd   time.Time
}
