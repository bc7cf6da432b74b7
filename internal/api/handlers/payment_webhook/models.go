package payment_webhook

// WebhookResponse подтверждение приема события
type WebhookResponse struct {
	Received bool `json:"received"`
}
