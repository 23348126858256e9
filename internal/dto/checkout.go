package dto

// CreateCheckoutRequest represents the request to start a ticket purchase
type CreateCheckoutRequest struct {
	EventID    string `json:"event_id" binding:"required"`
	TicketType string `json:"ticket_type" binding:"required"`
}

// CheckoutResponse carries the hosted payment page the buyer is sent to
type CheckoutResponse struct {
	SessionID   string  `json:"session_id"`
	URL         string  `json:"url"`
	UnitPrice   float64 `json:"unit_price"`
	AmountMinor int64   `json:"amount_minor"`
	Currency    string  `json:"currency"`
}

// WebhookAck is the body returned to the payment gateway
type WebhookAck struct {
	Received bool   `json:"received"`
	Status   string `json:"status"`
	TicketID string `json:"ticket_id,omitempty"`
	Reason   string `json:"reason,omitempty"`
}
