package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/nightlife-hub/nightpass/internal/domain"
)

// AttendeeStore records event attendance alongside ticket issuance
type AttendeeStore interface {
	AddAttendee(ctx context.Context, eventID, userID string) error
}

// MemoryTicketRepository implements TicketRepository using in-memory storage.
// A single mutex serializes IssueTicket, so count, price and insert cannot interleave.
type MemoryTicketRepository struct {
	tickets   map[string]*domain.Ticket
	byUser    map[string][]string // userID -> []ticketID
	attendees AttendeeStore
	mu        sync.RWMutex
}

// NewMemoryTicketRepository creates a new in-memory ticket repository
func NewMemoryTicketRepository(attendees AttendeeStore) *MemoryTicketRepository {
	return &MemoryTicketRepository{
		tickets:   make(map[string]*domain.Ticket),
		byUser:    make(map[string][]string),
		attendees: attendees,
	}
}

func (r *MemoryTicketRepository) CountSold(ctx context.Context, eventID, ticketTypeName string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.countSoldLocked(eventID, ticketTypeName), nil
}

func (r *MemoryTicketRepository) countSoldLocked(eventID, ticketTypeName string) int {
	count := 0
	for _, t := range r.tickets {
		if t.EventID == eventID && t.TicketTypeName == ticketTypeName {
			count++
		}
	}
	return count
}

func (r *MemoryTicketRepository) FindByUserEventType(ctx context.Context, userID, eventID, ticketTypeName string) (*domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if t := r.findLocked(userID, eventID, ticketTypeName); t != nil {
		c := *t
		return &c, nil
	}
	return nil, nil
}

func (r *MemoryTicketRepository) findLocked(userID, eventID, ticketTypeName string) *domain.Ticket {
	for _, id := range r.byUser[userID] {
		t := r.tickets[id]
		if t.EventID == eventID && t.TicketTypeName == ticketTypeName {
			return t
		}
	}
	return nil
}

func (r *MemoryTicketRepository) IssueTicket(ctx context.Context, ticket *domain.Ticket, price PriceFunc) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing := r.findLocked(ticket.UserID, ticket.EventID, ticket.TicketTypeName); existing != nil {
		c := *existing
		return &c, domain.ErrAlreadyProcessed
	}

	unitPrice, err := price(r.countSoldLocked(ticket.EventID, ticket.TicketTypeName))
	if err != nil {
		return nil, err
	}

	if r.attendees != nil {
		if err := r.attendees.AddAttendee(ctx, ticket.EventID, ticket.UserID); err != nil {
			return nil, err
		}
	}

	t := *ticket
	t.PricePaid = unitPrice
	r.tickets[t.ID] = &t
	r.byUser[t.UserID] = append(r.byUser[t.UserID], t.ID)

	out := t
	return &out, nil
}

func (r *MemoryTicketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tickets[id]
	if !ok {
		return nil, nil
	}
	c := *t
	return &c, nil
}

func (r *MemoryTicketRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Ticket, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.byUser[userID]
	all := make([]*domain.Ticket, 0, len(ids))
	for _, id := range ids {
		c := *r.tickets[id]
		all = append(all, &c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].PurchasedAt.After(all[j].PurchasedAt) })
	return paginate(all, limit, offset), len(all), nil
}

func (r *MemoryTicketRepository) MarkValidated(ctx context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tickets[id]
	if !ok {
		return domain.ErrTicketNotFound
	}
	if !t.Validate(at) {
		return domain.ErrTicketAlreadyValidated
	}
	return nil
}
