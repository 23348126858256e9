package dto

import "time"

// TicketIssuedEvent is published after a confirmed payment creates a ticket
type TicketIssuedEvent struct {
	TicketID       string    `json:"ticket_id"`
	EventID        string    `json:"event_id"`
	VenueID        string    `json:"venue_id"`
	UserID         string    `json:"user_id"`
	TicketTypeName string    `json:"ticket_type"`
	PricePaid      float64   `json:"price_paid"`
	IssuedAt       time.Time `json:"issued_at"`
}

// Key partitions by venue so recalculations for one venue stay ordered
func (e *TicketIssuedEvent) Key() string {
	return e.VenueID
}
