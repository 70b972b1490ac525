package confirm_payment

import "time"

// Request кортеж бронирования, восстановленный из завершённой checkout
// сессии, плюс id события провайдера для обнаружения повторных доставок
type Request struct {
	EventID      string
	EventType    string
	UserID       string
	BarbershopID string
	ServiceID    string
	StartAt      time.Time
}

// Outcome классифицирует результат подтверждённой оплаты
type Outcome string

const (
	// OutcomeCreated бронирование записано в реестр
	OutcomeCreated Outcome = "created"

	// OutcomeDuplicate событие уже обрабатывалось, ничего не изменилось
	OutcomeDuplicate Outcome = "duplicate"

	// OutcomeDropped оплата прошла, но слот уже недоступен; событие
	// подтверждено, бронирование не создано
	OutcomeDropped Outcome = "dropped"
)

// Причины дропа, используются как метка метрики и в логах
const (
	DropReasonUserConflict   = "user_conflict"
	DropReasonSlotTaken      = "slot_taken"
	DropReasonServiceMissing = "service_missing"
)

// Response результат обработки подтверждения оплаты
type Response struct {
	Outcome    Outcome
	BookingID  string // Заполнен, когда Outcome равен OutcomeCreated
	DropReason string // Заполнен, когда Outcome равен OutcomeDropped
}
