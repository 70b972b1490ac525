package paymentservice

// SessionMetadata кортеж бронирования, прикреплённый к checkout сессии.
// Это единственное состояние, переживающее цикл оплаты: само бронирование
// не существует, пока не обработано событие завершения
type SessionMetadata struct {
	ServiceID    string `json:"serviceId"`
	BarbershopID string `json:"barbershopId"`
	UserID       string `json:"userId"`
	Date         string `json:"date"` // Время начала в RFC 3339
}

// LineItem единственная покупаемая позиция checkout сессии
type LineItem struct {
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	ImageURL     string `json:"image_url,omitempty"`
	AmountCents  int64  `json:"amount_cents"`
	Currency     string `json:"currency"`
	Quantity     int    `json:"quantity"`
}

// CreateSessionRequest payload создания checkout сессии
type CreateSessionRequest struct {
	Mode       string          `json:"mode"`
	SuccessURL string          `json:"success_url"`
	CancelURL  string          `json:"cancel_url"`
	Metadata   SessionMetadata `json:"metadata"`
	LineItems  []LineItem      `json:"line_items"`
}

// CheckoutSession представление сессии у провайдера
type CheckoutSession struct {
	ID       string          `json:"id"`
	URL      string          `json:"url"`
	Status   string          `json:"status,omitempty"`
	Metadata SessionMetadata `json:"metadata"`
}

// Типы событий вебхука, интересные этому сервису
const (
	EventCheckoutCompleted = "checkout.session.completed"
)

// WebhookEvent подписанное событие, доставленное провайдером
type WebhookEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object CheckoutSession `json:"object"`
	} `json:"data"`
}
