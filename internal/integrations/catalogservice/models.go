package catalogservice

// Barbershop модель барбершопа из каталога
type Barbershop struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

// Service модель услуги из каталога. DurationMinutes это авторитетная
// длина слота услуги; ноль означает, что каталог её не задал и применяется
// дефолт из конфига
type Service struct {
	ID              string `json:"id"`
	BarbershopID    string `json:"barbershop_id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	ImageURL        string `json:"image_url"`
	PriceInCents    int64  `json:"price_in_cents"`
	DurationMinutes int    `json:"duration_minutes"`
}

// ErrorResponse тело ошибки каталога
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
