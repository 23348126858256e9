package repository

import (
	"context"
	"time"

	"github.com/nightlife-hub/nightpass/internal/domain"
)

// Lookups return (nil, nil) when the record does not exist.

// VenueRepository defines the interface for venue data access
type VenueRepository interface {
	// Create creates a new venue
	Create(ctx context.Context, venue *domain.Venue) error
	// GetByID retrieves a venue by ID
	GetByID(ctx context.Context, id string) (*domain.Venue, error)
	// List lists venues with pagination
	List(ctx context.Context, limit, offset int) ([]*domain.Venue, int, error)
	// Update updates a venue
	Update(ctx context.Context, venue *domain.Venue) error
	// RecordObservedPrice folds a sold ticket price into the venue's running
	// average and stores the re-derived price range
	RecordObservedPrice(ctx context.Context, venueID string, price float64) (*domain.Venue, error)
}

// DJRepository defines the interface for DJ data access
type DJRepository interface {
	// Create creates a new DJ
	Create(ctx context.Context, dj *domain.DJ) error
	// GetByID retrieves a DJ by ID
	GetByID(ctx context.Context, id string) (*domain.DJ, error)
	// GetByIDs retrieves the DJs that exist among ids, in the order given
	GetByIDs(ctx context.Context, ids []string) ([]*domain.DJ, error)
	// List lists DJs with pagination
	List(ctx context.Context, limit, offset int) ([]*domain.DJ, int, error)
}

// EventFilter contains filter options for listing events
type EventFilter struct {
	VenueID string
}

// EventRepository defines the interface for event data access
type EventRepository interface {
	// Create creates a new event
	Create(ctx context.Context, event *domain.Event) error
	// GetByID retrieves an event with its attendee list
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	// List lists events ordered by start time
	List(ctx context.Context, filter *EventFilter, limit, offset int) ([]*domain.Event, int, error)
	// AddAttendee adds userID to the event attendee list if missing
	AddAttendee(ctx context.Context, eventID, userID string) error
}

// PriceFunc prices the next ticket given the current sold count
type PriceFunc func(sold int) (float64, error)

// TicketRepository defines the interface for ticket data access
type TicketRepository interface {
	// CountSold counts tickets issued for the event and ticket type
	CountSold(ctx context.Context, eventID, ticketTypeName string) (int, error)
	// FindByUserEventType returns the user's ticket of that type for the event
	FindByUserEventType(ctx context.Context, userID, eventID, ticketTypeName string) (*domain.Ticket, error)
	// IssueTicket re-counts, prices via price, inserts the ticket and adds
	// the buyer to the event attendees as one serialized unit per event and
	// ticket type. If the buyer already holds that ticket the existing one
	// is returned with domain.ErrAlreadyProcessed.
	IssueTicket(ctx context.Context, ticket *domain.Ticket, price PriceFunc) (*domain.Ticket, error)
	// GetByID retrieves a ticket by ID
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	// ListByUser lists a user's tickets, most recent first
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Ticket, int, error)
	// MarkValidated flags the ticket as checked in
	MarkValidated(ctx context.Context, id string, at time.Time) error
}

// ReviewRepository defines the interface for review data access
type ReviewRepository interface {
	// Exists reports whether the user already reviewed the target for the event
	Exists(ctx context.Context, userID, targetID string, targetType domain.TargetType, eventID string) (bool, error)
	// Create inserts a review, domain.ErrDuplicateReview on a repeated tuple
	Create(ctx context.Context, review *domain.Review) error
	// ListByUser returns every review written by the user
	ListByUser(ctx context.Context, userID string) ([]*domain.Review, error)
	// ListByTarget lists reviews of one club or DJ
	ListByTarget(ctx context.Context, targetType domain.TargetType, targetID string, limit, offset int) ([]*domain.Review, int, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// GetByEmail retrieves a user by email, case-insensitively
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// Upsert creates the user or refreshes its profile fields
	Upsert(ctx context.Context, user *domain.User) error
}
