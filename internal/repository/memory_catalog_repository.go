package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/nightlife-hub/nightpass/internal/domain"
)

// MemoryVenueRepository implements VenueRepository using in-memory storage
type MemoryVenueRepository struct {
	venues map[string]*domain.Venue
	mu     sync.RWMutex
}

// NewMemoryVenueRepository creates a new in-memory venue repository
func NewMemoryVenueRepository() *MemoryVenueRepository {
	return &MemoryVenueRepository{venues: make(map[string]*domain.Venue)}
}

func (r *MemoryVenueRepository) Create(ctx context.Context, venue *domain.Venue) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	v := *venue
	r.venues[venue.ID] = &v
	return nil
}

func (r *MemoryVenueRepository) GetByID(ctx context.Context, id string) (*domain.Venue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	venue, ok := r.venues[id]
	if !ok {
		return nil, nil
	}
	v := *venue
	return &v, nil
}

func (r *MemoryVenueRepository) List(ctx context.Context, limit, offset int) ([]*domain.Venue, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*domain.Venue, 0, len(r.venues))
	for _, venue := range r.venues {
		v := *venue
		all = append(all, &v)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return paginate(all, limit, offset), len(all), nil
}

func (r *MemoryVenueRepository) Update(ctx context.Context, venue *domain.Venue) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.venues[venue.ID]; !ok {
		return domain.ErrVenueNotFound
	}
	v := *venue
	r.venues[venue.ID] = &v
	return nil
}

func (r *MemoryVenueRepository) RecordObservedPrice(ctx context.Context, venueID string, price float64) (*domain.Venue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	venue, ok := r.venues[venueID]
	if !ok {
		return nil, domain.ErrVenueNotFound
	}
	venue.RecordObservedPrice(price, time.Now())
	v := *venue
	return &v, nil
}

// MemoryDJRepository implements DJRepository using in-memory storage
type MemoryDJRepository struct {
	djs map[string]*domain.DJ
	mu  sync.RWMutex
}

// NewMemoryDJRepository creates a new in-memory DJ repository
func NewMemoryDJRepository() *MemoryDJRepository {
	return &MemoryDJRepository{djs: make(map[string]*domain.DJ)}
}

func (r *MemoryDJRepository) Create(ctx context.Context, dj *domain.DJ) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	d := *dj
	r.djs[dj.ID] = &d
	return nil
}

func (r *MemoryDJRepository) GetByID(ctx context.Context, id string) (*domain.DJ, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	dj, ok := r.djs[id]
	if !ok {
		return nil, nil
	}
	d := *dj
	return &d, nil
}

func (r *MemoryDJRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.DJ, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	djs := make([]*domain.DJ, 0, len(ids))
	for _, id := range ids {
		if dj, ok := r.djs[id]; ok {
			d := *dj
			djs = append(djs, &d)
		}
	}
	return djs, nil
}

func (r *MemoryDJRepository) List(ctx context.Context, limit, offset int) ([]*domain.DJ, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*domain.DJ, 0, len(r.djs))
	for _, dj := range r.djs {
		d := *dj
		all = append(all, &d)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return paginate(all, limit, offset), len(all), nil
}

// MemoryEventRepository implements EventRepository using in-memory storage
type MemoryEventRepository struct {
	events map[string]*domain.Event
	mu     sync.RWMutex
}

// NewMemoryEventRepository creates a new in-memory event repository
func NewMemoryEventRepository() *MemoryEventRepository {
	return &MemoryEventRepository{events: make(map[string]*domain.Event)}
}

func (r *MemoryEventRepository) Create(ctx context.Context, event *domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events[event.ID] = cloneEvent(event)
	return nil
}

func (r *MemoryEventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	event, ok := r.events[id]
	if !ok {
		return nil, nil
	}
	return cloneEvent(event), nil
}

func (r *MemoryEventRepository) List(ctx context.Context, filter *EventFilter, limit, offset int) ([]*domain.Event, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []*domain.Event
	for _, event := range r.events {
		if filter != nil && filter.VenueID != "" && event.VenueID != filter.VenueID {
			continue
		}
		all = append(all, cloneEvent(event))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].StartsAt.Before(all[j].StartsAt) })
	return paginate(all, limit, offset), len(all), nil
}

func (r *MemoryEventRepository) AddAttendee(ctx context.Context, eventID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	event, ok := r.events[eventID]
	if !ok {
		return domain.ErrEventNotFound
	}
	if event.AddAttendee(userID) {
		event.UpdatedAt = time.Now()
	}
	return nil
}

func cloneEvent(e *domain.Event) *domain.Event {
	c := *e
	c.DJIDs = append([]string(nil), e.DJIDs...)
	c.AttendeeIDs = append([]string(nil), e.AttendeeIDs...)
	c.TicketTypes = make([]domain.TicketType, len(e.TicketTypes))
	for i, tt := range e.TicketTypes {
		c.TicketTypes[i] = domain.TicketType{
			Name:     tt.Name,
			Tranches: append([]domain.Tranche(nil), tt.Tranches...),
		}
	}
	return &c
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}
