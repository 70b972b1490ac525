package domain

// Дефолтные значения сетки бронирований, используются когда конфиг или
// запись каталога не задают свои
const (
	DefaultSlotDurationMinutes = 30
	DefaultOpenTime            = "09:00"
	DefaultCloseTime           = "19:30" // Последний предлагаемый старт 19:00
)

// Константы форматов времени
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Источники создания бронирования, используются как метки метрик
const (
	SourceDirect  = "direct"
	SourceWebhook = "webhook"
)
