package service

import (
	"context"

	"github.com/nightlife-hub/nightpass/internal/domain"
	"github.com/nightlife-hub/nightpass/internal/dto"
)

// Actor is the authenticated caller of a service operation
type Actor struct {
	UserID string
	Email  string
	Name   string
	Role   string
}

// IsAdmin reports whether the actor bypasses ownership checks
func (a Actor) IsAdmin() bool {
	return a.Role == domain.RoleAdmin
}

// VenueDirectory is the read side of venues and performers, plus the
// price tier write-back fed by issued tickets
type VenueDirectory interface {
	// GetVenue retrieves a venue, domain.ErrVenueNotFound if missing
	GetVenue(ctx context.Context, id string) (*domain.Venue, error)
	// GetDJs retrieves the DJs that exist among ids
	GetDJs(ctx context.Context, ids []string) ([]*domain.DJ, error)
	// RecalculatePriceTier folds an observed ticket price into the venue tier
	RecalculatePriceTier(ctx context.Context, venueID string, observedPrice float64) (*domain.Venue, error)
}

// VenueService defines the interface for venue business logic
type VenueService interface {
	// CreateVenue registers a club owned by the actor
	CreateVenue(ctx context.Context, actor Actor, req *dto.CreateVenueRequest) (*domain.Venue, error)
	// GetVenue retrieves a venue by ID
	GetVenue(ctx context.Context, id string) (*domain.Venue, error)
	// ListVenues lists venues with pagination
	ListVenues(ctx context.Context, filter *dto.ListFilter) ([]*domain.Venue, int, error)
	// UpdateVenue updates a venue the actor owns
	UpdateVenue(ctx context.Context, actor Actor, id string, req *dto.UpdateVenueRequest) (*domain.Venue, error)
}

// DJService defines the interface for DJ business logic
type DJService interface {
	// CreateDJ registers a DJ
	CreateDJ(ctx context.Context, req *dto.CreateDJRequest) (*domain.DJ, error)
	// GetDJ retrieves a DJ by ID
	GetDJ(ctx context.Context, id string) (*domain.DJ, error)
	// ListDJs lists DJs with pagination
	ListDJs(ctx context.Context, filter *dto.ListFilter) ([]*domain.DJ, int, error)
}

// EventService defines the interface for event business logic
type EventService interface {
	// CreateEvent creates an event at a venue the actor owns
	CreateEvent(ctx context.Context, actor Actor, req *dto.CreateEventRequest) (*domain.Event, error)
	// GetEvent retrieves an event by ID
	GetEvent(ctx context.Context, id string) (*domain.Event, error)
	// ListEvents lists events, optionally for one venue
	ListEvents(ctx context.Context, filter *dto.EventListFilter) ([]*domain.Event, int, error)
	// QuotePrice returns the price the next buyer of a ticket type would pay
	QuotePrice(ctx context.Context, eventID, ticketTypeName string) (*dto.PriceQuoteResponse, error)
}

// UserService defines the interface for purchaser profiles
type UserService interface {
	// SyncUser stores the identity provider's view of the actor
	SyncUser(ctx context.Context, actor Actor) (*domain.User, error)
	// GetUser retrieves a user by ID
	GetUser(ctx context.Context, id string) (*domain.User, error)
}

// TicketService defines the interface for issued tickets
type TicketService interface {
	// ListUserTickets lists the user's tickets
	ListUserTickets(ctx context.Context, userID string, filter *dto.ListFilter) ([]*domain.Ticket, int, error)
	// ValidateTicket checks a ticket in at the door
	ValidateTicket(ctx context.Context, actor Actor, ticketID string) (*domain.Ticket, error)
}

// CheckoutService builds payment sessions for a single ticket
type CheckoutService interface {
	// BuildSession prices the ticket type from the current sold count and
	// creates a gateway checkout session. It never writes tickets.
	BuildSession(ctx context.Context, actor Actor, eventID, ticketTypeName string) (*dto.CheckoutResponse, error)
}

// ConfirmationService turns authenticated payment notifications into tickets
type ConfirmationService interface {
	// Confirm verifies and applies a gateway webhook. Redeliveries return
	// ResultAlreadyProcessed without side effects.
	Confirm(ctx context.Context, payload []byte, sigHeader string) (*ConfirmationResult, error)
}

// ReviewService defines the interface for club and DJ reviews
type ReviewService interface {
	// CreateReview records a review by an attendee of the event
	CreateReview(ctx context.Context, actor Actor, req *dto.CreateReviewRequest) (*domain.Review, error)
	// ListUserReviews lists reviews written by the user
	ListUserReviews(ctx context.Context, userID string) ([]*domain.Review, error)
	// ListTargetReviews lists reviews of a club or DJ
	ListTargetReviews(ctx context.Context, filter *dto.ReviewListFilter) ([]*domain.Review, int, error)
}

// RewardService aggregates review counts into reward progress
type RewardService interface {
	// ComputeProgress buckets the user's reviews by venue price tier
	ComputeProgress(ctx context.Context, userID string) (*domain.RewardSummary, error)
}
