package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nightlife-hub/nightpass/internal/domain"
	"github.com/nightlife-hub/nightpass/internal/dto"
	"github.com/nightlife-hub/nightpass/internal/repository"
)

// venueService implements VenueService
type venueService struct {
	venueRepo repository.VenueRepository
}

// NewVenueService creates a new VenueService
func NewVenueService(venueRepo repository.VenueRepository) VenueService {
	return &venueService{venueRepo: venueRepo}
}

// CreateVenue registers a club owned by the actor
func (s *venueService) CreateVenue(ctx context.Context, actor Actor, req *dto.CreateVenueRequest) (*domain.Venue, error) {
	if valid, msg := req.Validate(); !valid {
		return nil, fmt.Errorf("%w: %s", domain.ErrMissingRequiredArg, msg)
	}

	priceRange := strings.TrimSpace(req.PriceRange)
	if priceRange == "" {
		priceRange = "1"
	}

	now := time.Now()
	venue := &domain.Venue{
		ID:         uuid.New().String(),
		Name:       req.Name,
		Address:    req.Address,
		City:       req.City,
		PriceRange: priceRange,
		OwnerID:    actor.UserID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.venueRepo.Create(ctx, venue); err != nil {
		return nil, err
	}
	return venue, nil
}

// GetVenue retrieves a venue by ID
func (s *venueService) GetVenue(ctx context.Context, id string) (*domain.Venue, error) {
	venue, err := s.venueRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if venue == nil {
		return nil, domain.ErrVenueNotFound
	}
	return venue, nil
}

// ListVenues lists venues with pagination
func (s *venueService) ListVenues(ctx context.Context, filter *dto.ListFilter) ([]*domain.Venue, int, error) {
	filter.SetDefaults()
	return s.venueRepo.List(ctx, filter.Limit, filter.Offset)
}

// UpdateVenue applies a partial update to a venue the actor owns
func (s *venueService) UpdateVenue(ctx context.Context, actor Actor, id string, req *dto.UpdateVenueRequest) (*domain.Venue, error) {
	if valid, msg := req.Validate(); !valid {
		return nil, fmt.Errorf("%w: %s", domain.ErrMissingRequiredArg, msg)
	}

	venue, err := s.GetVenue(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canManageVenue(actor, venue) {
		return nil, domain.ErrForbidden
	}

	if req.Name != nil {
		venue.Name = *req.Name
	}
	if req.Address != nil {
		venue.Address = *req.Address
	}
	if req.City != nil {
		venue.City = *req.City
	}
	if req.PriceRange != nil {
		venue.PriceRange = strings.TrimSpace(*req.PriceRange)
	}

	if err := s.venueRepo.Update(ctx, venue); err != nil {
		return nil, err
	}
	return venue, nil
}

func canManageVenue(actor Actor, venue *domain.Venue) bool {
	return actor.IsAdmin() || (venue.OwnerID != "" && venue.OwnerID == actor.UserID)
}

// djService implements DJService
type djService struct {
	djRepo repository.DJRepository
}

// NewDJService creates a new DJService
func NewDJService(djRepo repository.DJRepository) DJService {
	return &djService{djRepo: djRepo}
}

// CreateDJ registers a DJ
func (s *djService) CreateDJ(ctx context.Context, req *dto.CreateDJRequest) (*domain.DJ, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: DJ name is required", domain.ErrMissingRequiredArg)
	}

	dj := &domain.DJ{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Genre:     req.Genre,
		CreatedAt: time.Now(),
	}
	if err := s.djRepo.Create(ctx, dj); err != nil {
		return nil, err
	}
	return dj, nil
}

// GetDJ retrieves a DJ by ID
func (s *djService) GetDJ(ctx context.Context, id string) (*domain.DJ, error) {
	dj, err := s.djRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if dj == nil {
		return nil, domain.ErrDJNotFound
	}
	return dj, nil
}

// ListDJs lists DJs with pagination
func (s *djService) ListDJs(ctx context.Context, filter *dto.ListFilter) ([]*domain.DJ, int, error) {
	filter.SetDefaults()
	return s.djRepo.List(ctx, filter.Limit, filter.Offset)
}

// eventService implements EventService
type eventService struct {
	eventRepo  repository.EventRepository
	ticketRepo repository.TicketRepository
	directory  VenueDirectory
}

// NewEventService creates a new EventService
func NewEventService(eventRepo repository.EventRepository, ticketRepo repository.TicketRepository, directory VenueDirectory) EventService {
	return &eventService{
		eventRepo:  eventRepo,
		ticketRepo: ticketRepo,
		directory:  directory,
	}
}

// CreateEvent creates an event at a venue the actor owns
func (s *eventService) CreateEvent(ctx context.Context, actor Actor, req *dto.CreateEventRequest) (*domain.Event, error) {
	if valid, msg := req.Validate(); !valid {
		return nil, fmt.Errorf("%w: %s", domain.ErrMissingRequiredArg, msg)
	}

	venue, err := s.directory.GetVenue(ctx, req.VenueID)
	if err != nil {
		if errors.Is(err, domain.ErrVenueNotFound) {
			return nil, domain.ErrInvalidEventVenue
		}
		return nil, err
	}
	if !canManageVenue(actor, venue) {
		return nil, domain.ErrForbidden
	}

	djIDs := dedupe(req.DJIDs)
	djs, err := s.directory.GetDJs(ctx, djIDs)
	if err != nil {
		return nil, err
	}
	if len(djs) != len(djIDs) {
		return nil, domain.ErrInvalidEventDJ
	}

	now := time.Now()
	event := &domain.Event{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(req.Name),
		VenueID:     venue.ID,
		DJIDs:       djIDs,
		StartsAt:    req.StartsAt,
		TicketTypes: req.DomainTicketTypes(),
		AttendeeIDs: []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// GetEvent retrieves an event by ID
func (s *eventService) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, domain.ErrEventNotFound
	}
	return event, nil
}

// ListEvents lists events, optionally for one venue
func (s *eventService) ListEvents(ctx context.Context, filter *dto.EventListFilter) ([]*domain.Event, int, error) {
	filter.SetDefaults()
	return s.eventRepo.List(ctx, &repository.EventFilter{VenueID: filter.VenueID}, filter.Limit, filter.Offset)
}

// QuotePrice runs the pricing engine against the current sold count
func (s *eventService) QuotePrice(ctx context.Context, eventID, ticketTypeName string) (*dto.PriceQuoteResponse, error) {
	event, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	ticketType, ok := event.FindTicketType(ticketTypeName)
	if !ok {
		return nil, domain.ErrInvalidTicketType
	}

	sold, err := s.ticketRepo.CountSold(ctx, event.ID, ticketType.Name)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateSoldCount(sold); err != nil {
		return nil, err
	}

	quote := &dto.PriceQuoteResponse{
		EventID:    event.ID,
		TicketType: ticketType.Name,
		Sold:       sold,
		Capacity:   ticketType.Capacity(),
	}
	if price, ok := domain.PriceFor(ticketType.Tranches, sold); ok {
		quote.UnitPrice = &price
	} else {
		quote.SoldOut = true
	}
	return quote, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
