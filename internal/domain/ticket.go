package domain

import (
	"time"

	"github.com/google/uuid"
)

// Ticket is issued once per confirmed payment. Only Validated changes afterwards.
type Ticket struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	EventID        string     `json:"event_id"`
	TicketTypeName string     `json:"ticket_type_name"`
	PricePaid      float64    `json:"price_paid"`
	PaymentRef     string     `json:"payment_ref,omitempty"`
	PurchasedAt    time.Time  `json:"purchased_at"`
	Validated      bool       `json:"validated"`
	ValidatedAt    *time.Time `json:"validated_at,omitempty"`
}

// NewTicket creates an unvalidated ticket
func NewTicket(userID, eventID, ticketTypeName, paymentRef string, price float64, now time.Time) *Ticket {
	return &Ticket{
		ID:             uuid.New().String(),
		UserID:         userID,
		EventID:        eventID,
		TicketTypeName: ticketTypeName,
		PricePaid:      price,
		PaymentRef:     paymentRef,
		PurchasedAt:    now,
	}
}

// Validate marks the ticket as checked in. It reports false if it already was.
func (t *Ticket) Validate(now time.Time) bool {
	if t.Validated {
		return false
	}
	t.Validated = true
	t.ValidatedAt = &now
	return true
}
