package service

import (
	"context"
	"errors"
	"time"

	"github.com/nightlife-hub/nightpass/internal/domain"
	"github.com/nightlife-hub/nightpass/internal/dto"
	"github.com/nightlife-hub/nightpass/internal/repository"
)

// ticketService implements TicketService
type ticketService struct {
	ticketRepo repository.TicketRepository
	eventRepo  repository.EventRepository
	directory  VenueDirectory
}

// NewTicketService creates a new TicketService
func NewTicketService(ticketRepo repository.TicketRepository, eventRepo repository.EventRepository, directory VenueDirectory) TicketService {
	return &ticketService{
		ticketRepo: ticketRepo,
		eventRepo:  eventRepo,
		directory:  directory,
	}
}

// ListUserTickets lists the user's tickets, most recent first
func (s *ticketService) ListUserTickets(ctx context.Context, userID string, filter *dto.ListFilter) ([]*domain.Ticket, int, error) {
	filter.SetDefaults()
	return s.ticketRepo.ListByUser(ctx, userID, filter.Limit, filter.Offset)
}

// ValidateTicket checks a ticket in. Clubs may only validate tickets for
// their own venues. Validating twice returns the ticket unchanged.
func (s *ticketService) ValidateTicket(ctx context.Context, actor Actor, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, domain.ErrTicketNotFound
	}

	if !actor.IsAdmin() {
		event, err := s.eventRepo.GetByID(ctx, ticket.EventID)
		if err != nil {
			return nil, err
		}
		if event == nil {
			return nil, domain.ErrEventNotFound
		}
		venue, err := s.directory.GetVenue(ctx, event.VenueID)
		if err != nil {
			return nil, err
		}
		if !canManageVenue(actor, venue) {
			return nil, domain.ErrForbidden
		}
	}

	// Repeated scans at the door are not errors
	if ticket.Validated {
		return ticket, nil
	}

	now := time.Now()
	if err := s.ticketRepo.MarkValidated(ctx, ticket.ID, now); err != nil {
		if errors.Is(err, domain.ErrTicketAlreadyValidated) {
			return s.ticketRepo.GetByID(ctx, ticket.ID)
		}
		return nil, err
	}
	ticket.Validate(now)
	return ticket, nil
}
