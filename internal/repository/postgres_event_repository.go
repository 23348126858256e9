package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nightlife-hub/nightpass/internal/domain"
)

const eventSelect = `
	SELECT e.id, e.name, e.venue_id, e.dj_ids, e.starts_at, e.ticket_types,
		COALESCE((SELECT array_agg(a.user_id ORDER BY a.added_at) FROM event_attendees a WHERE a.event_id = e.id), '{}'),
		e.created_at, e.updated_at
	FROM events e
`

// PostgresEventRepository implements EventRepository using PostgreSQL.
// Ticket types are stored as JSONB, attendees in event_attendees.
type PostgresEventRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresEventRepository creates a new PostgresEventRepository
func NewPostgresEventRepository(pool *pgxpool.Pool) *PostgresEventRepository {
	return &PostgresEventRepository{pool: pool}
}

// Create creates a new event
func (r *PostgresEventRepository) Create(ctx context.Context, event *domain.Event) error {
	ticketTypes, err := json.Marshal(event.TicketTypes)
	if err != nil {
		return fmt.Errorf("failed to encode ticket types: %w", err)
	}

	djIDs := event.DJIDs
	if djIDs == nil {
		djIDs = []string{}
	}

	query := `
		INSERT INTO events (id, name, venue_id, dj_ids, starts_at, ticket_types, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = r.pool.Exec(ctx, query,
		event.ID,
		event.Name,
		event.VenueID,
		djIDs,
		event.StartsAt,
		ticketTypes,
		event.CreatedAt,
		event.UpdatedAt,
	)
	return err
}

// GetByID retrieves an event by ID
func (r *PostgresEventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	event, err := scanEvent(r.pool.QueryRow(ctx, eventSelect+` WHERE e.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return event, nil
}

// List lists events ordered by start time
func (r *PostgresEventRepository) List(ctx context.Context, filter *EventFilter, limit, offset int) ([]*domain.Event, int, error) {
	venueID := ""
	if filter != nil {
		venueID = filter.VenueID
	}
	where := ` WHERE ($1 = '' OR e.venue_id::text = $1)`

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM events e`+where, venueID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, eventSelect+where+` ORDER BY e.starts_at LIMIT $2 OFFSET $3`, venueID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	events := []*domain.Event{}
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		events = append(events, event)
	}
	return events, total, rows.Err()
}

// AddAttendee adds userID to the event attendee list if missing
func (r *PostgresEventRepository) AddAttendee(ctx context.Context, eventID, userID string) error {
	return addAttendee(ctx, r.pool, eventID, userID)
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func addAttendee(ctx context.Context, db execer, eventID, userID string) error {
	query := `
		INSERT INTO event_attendees (event_id, user_id, added_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (event_id, user_id) DO NOTHING
	`
	_, err := db.Exec(ctx, query, eventID, userID)
	return err
}

func scanEvent(row pgx.Row) (*domain.Event, error) {
	event := &domain.Event{}
	var ticketTypes []byte
	err := row.Scan(
		&event.ID,
		&event.Name,
		&event.VenueID,
		&event.DJIDs,
		&event.StartsAt,
		&ticketTypes,
		&event.AttendeeIDs,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(ticketTypes, &event.TicketTypes); err != nil {
		return nil, fmt.Errorf("failed to decode ticket types for event %s: %w", event.ID, err)
	}
	return event, nil
}
