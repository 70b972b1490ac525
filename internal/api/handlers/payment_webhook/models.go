package payment_webhook

// WebhookResponse подтверждение доставки
type WebhookResponse struct {
	Received bool `json:"received"`
}
