package dto

import (
	"strings"
	"time"

	"github.com/nightlife-hub/nightpass/internal/domain"
)

// TicketTypeRequest configures one ticket type and its tranche ladder
type TicketTypeRequest struct {
	Name     string           `json:"name" binding:"required"`
	Tranches []domain.Tranche `json:"tranches" binding:"required,min=1"`
}

// CreateEventRequest represents the request to create a new event
type CreateEventRequest struct {
	Name        string              `json:"name" binding:"required,min=1,max=255"`
	VenueID     string              `json:"venue_id" binding:"required"`
	DJIDs       []string            `json:"dj_ids"`
	StartsAt    time.Time           `json:"starts_at" binding:"required"`
	TicketTypes []TicketTypeRequest `json:"ticket_types" binding:"required,min=1,dive"`
}

// Validate validates the CreateEventRequest
func (r *CreateEventRequest) Validate() (bool, string) {
	if strings.TrimSpace(r.Name) == "" {
		return false, "Event name is required"
	}
	if r.VenueID == "" {
		return false, "Venue ID is required"
	}
	if len(r.TicketTypes) == 0 {
		return false, "At least one ticket type is required"
	}
	if err := domain.ValidateTicketTypes(r.DomainTicketTypes()); err != nil {
		return false, err.Error()
	}
	return true, ""
}

// DomainTicketTypes converts the configured ticket types
func (r *CreateEventRequest) DomainTicketTypes() []domain.TicketType {
	types := make([]domain.TicketType, len(r.TicketTypes))
	for i, tt := range r.TicketTypes {
		types[i] = domain.TicketType{Name: tt.Name, Tranches: tt.Tranches}
	}
	return types
}

// EventResponse represents an event as returned by the API
type EventResponse struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	VenueID       string              `json:"venue_id"`
	DJIDs         []string            `json:"dj_ids"`
	StartsAt      string              `json:"starts_at"`
	TicketTypes   []domain.TicketType `json:"ticket_types"`
	AttendeeCount int                 `json:"attendee_count"`
	CreatedAt     string              `json:"created_at"`
	UpdatedAt     string              `json:"updated_at"`
}

// NewEventResponse converts a domain event. Attendee identities are not exposed.
func NewEventResponse(e *domain.Event) *EventResponse {
	djIDs := e.DJIDs
	if djIDs == nil {
		djIDs = []string{}
	}
	return &EventResponse{
		ID:            e.ID,
		Name:          e.Name,
		VenueID:       e.VenueID,
		DJIDs:         djIDs,
		StartsAt:      e.StartsAt.Format(time.RFC3339),
		TicketTypes:   e.TicketTypes,
		AttendeeCount: len(e.AttendeeIDs),
		CreatedAt:     e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     e.UpdatedAt.Format(time.RFC3339),
	}
}

// EventListFilter represents filters for listing events
type EventListFilter struct {
	ListFilter
	VenueID string `form:"venue_id"`
}

// PriceQuoteResponse is the price the next buyer of a ticket type would pay
type PriceQuoteResponse struct {
	EventID    string   `json:"event_id"`
	TicketType string   `json:"ticket_type"`
	Sold       int      `json:"sold"`
	Capacity   int      `json:"capacity"`
	SoldOut    bool     `json:"sold_out"`
	UnitPrice  *float64 `json:"unit_price,omitempty"`
}
