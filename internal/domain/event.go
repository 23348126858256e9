package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrDuplicateTicketType = errors.New("duplicate ticket type name")
	ErrEmptyTicketTypeName = errors.New("ticket type name is required")
)

// TicketType is a named ticket category with its own tranche ladder
type TicketType struct {
	Name     string    `json:"name"`
	Tranches []Tranche `json:"tranches"`
}

// Capacity is the highest cumulative ceiling, zero without tranches
func (t *TicketType) Capacity() int {
	if len(t.Tranches) == 0 {
		return 0
	}
	return t.Tranches[len(t.Tranches)-1].CumulativeCeiling
}

// Event is a night at a venue with its ticket types and attendees
type Event struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	VenueID     string       `json:"venue_id"`
	DJIDs       []string     `json:"dj_ids"`
	StartsAt    time.Time    `json:"starts_at"`
	TicketTypes []TicketType `json:"ticket_types"`
	AttendeeIDs []string     `json:"attendee_ids"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// FindTicketType locates a ticket type by exact name
func (e *Event) FindTicketType(name string) (*TicketType, bool) {
	for i := range e.TicketTypes {
		if e.TicketTypes[i].Name == name {
			return &e.TicketTypes[i], true
		}
	}
	return nil, false
}

// HasAttendee reports whether userID is on the attendee list
func (e *Event) HasAttendee(userID string) bool {
	for _, id := range e.AttendeeIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// AddAttendee appends userID unless already present. It reports whether the list changed.
func (e *Event) AddAttendee(userID string) bool {
	if e.HasAttendee(userID) {
		return false
	}
	e.AttendeeIDs = append(e.AttendeeIDs, userID)
	return true
}

// HasDJ reports whether djID performs at the event
func (e *Event) HasDJ(djID string) bool {
	for _, id := range e.DJIDs {
		if id == djID {
			return true
		}
	}
	return false
}

// ValidateTicketTypes checks names are present and unique and every
// tranche ladder is well formed
func ValidateTicketTypes(types []TicketType) error {
	seen := make(map[string]struct{}, len(types))
	for _, tt := range types {
		if strings.TrimSpace(tt.Name) == "" {
			return ErrEmptyTicketTypeName
		}
		if _, dup := seen[tt.Name]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateTicketType, tt.Name)
		}
		seen[tt.Name] = struct{}{}
		if err := ValidateTranches(tt.Tranches); err != nil {
			return fmt.Errorf("ticket type %q: %w", tt.Name, err)
		}
	}
	return nil
}
