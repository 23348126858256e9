package dto

import (
	"time"

	"github.com/nightlife-hub/nightpass/internal/domain"
)

// TicketResponse represents a ticket as returned by the API
type TicketResponse struct {
	ID             string  `json:"id"`
	EventID        string  `json:"event_id"`
	TicketTypeName string  `json:"ticket_type"`
	PricePaid      float64 `json:"price_paid"`
	PurchasedAt    string  `json:"purchased_at"`
	Validated      bool    `json:"validated"`
	ValidatedAt    *string `json:"validated_at,omitempty"`
}

// NewTicketResponse converts a domain ticket
func NewTicketResponse(t *domain.Ticket) *TicketResponse {
	resp := &TicketResponse{
		ID:             t.ID,
		EventID:        t.EventID,
		TicketTypeName: t.TicketTypeName,
		PricePaid:      t.PricePaid,
		PurchasedAt:    t.PurchasedAt.Format(time.RFC3339),
		Validated:      t.Validated,
	}
	if t.ValidatedAt != nil {
		s := t.ValidatedAt.Format(time.RFC3339)
		resp.ValidatedAt = &s
	}
	return resp
}
