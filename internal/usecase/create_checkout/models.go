package create_checkout

import "time"

// Request запрос на создание checkout сессии. UserID берётся из
// резолвленной сессии; Origin это origin сайта вызывающего, из него
// строятся redirect URL, когда он задан
type Request struct {
	UserID    string
	ServiceID string
	StartAt   time.Time // Абсолютное время начала запрошенного слота
	Origin    string    // optional, e.g. "https://shop.example.com"
}

// Response страница оплаты, на которую вызывающий должен сделать redirect
type Response struct {
	SessionID string
	URL       string
}

// Config настройки платёжной сессии для use case
type Config struct {
	SuccessURL string
	CancelURL  string
	Currency   string
}
