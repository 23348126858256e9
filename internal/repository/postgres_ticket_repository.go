package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nightlife-hub/nightpass/internal/domain"
)

const ticketColumns = `id, user_id, event_id, ticket_type_name, price_paid, COALESCE(payment_ref, ''), purchased_at, validated, validated_at`

// PostgresTicketRepository implements TicketRepository using PostgreSQL
type PostgresTicketRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresTicketRepository creates a new PostgresTicketRepository
func NewPostgresTicketRepository(pool *pgxpool.Pool) *PostgresTicketRepository {
	return &PostgresTicketRepository{pool: pool}
}

// CountSold counts tickets issued for the event and ticket type
func (r *PostgresTicketRepository) CountSold(ctx context.Context, eventID, ticketTypeName string) (int, error) {
	return countSold(ctx, r.pool, eventID, ticketTypeName)
}

// FindByUserEventType returns the user's ticket of that type for the event
func (r *PostgresTicketRepository) FindByUserEventType(ctx context.Context, userID, eventID, ticketTypeName string) (*domain.Ticket, error) {
	return findByUserEventType(ctx, r.pool, userID, eventID, ticketTypeName)
}

// IssueTicket serializes issuance per event and ticket type with a
// transaction-scoped advisory lock, so the count read here is the one the
// price is computed from
func (r *PostgresTicketRepository) IssueTicket(ctx context.Context, ticket *domain.Ticket, price PriceFunc) (*domain.Ticket, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1::text || ':' || $2::text))`, ticket.EventID, ticket.TicketTypeName); err != nil {
		return nil, fmt.Errorf("failed to acquire issuance lock: %w", err)
	}

	existing, err := findByUserEventType(ctx, tx, ticket.UserID, ticket.EventID, ticket.TicketTypeName)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, domain.ErrAlreadyProcessed
	}

	sold, err := countSold(ctx, tx, ticket.EventID, ticket.TicketTypeName)
	if err != nil {
		return nil, err
	}
	unitPrice, err := price(sold)
	if err != nil {
		return nil, err
	}

	issued := *ticket
	issued.PricePaid = unitPrice

	query := `
		INSERT INTO tickets (id, user_id, event_id, ticket_type_name, price_paid, payment_ref, purchased_at, validated)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, false)
	`
	_, err = tx.Exec(ctx, query,
		issued.ID,
		issued.UserID,
		issued.EventID,
		issued.TicketTypeName,
		issued.PricePaid,
		issued.PaymentRef,
		issued.PurchasedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadyProcessed
		}
		return nil, err
	}

	if err := addAttendee(ctx, tx, issued.EventID, issued.UserID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &issued, nil
}

// GetByID retrieves a ticket by ID
func (r *PostgresTicketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, err := scanTicket(r.pool.QueryRow(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return ticket, nil
}

// ListByUser lists a user's tickets, most recent first
func (r *PostgresTicketRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Ticket, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tickets WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE user_id = $1 ORDER BY purchased_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	tickets := []*domain.Ticket{}
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, 0, err
		}
		tickets = append(tickets, ticket)
	}
	return tickets, total, rows.Err()
}

// MarkValidated flags the ticket as checked in
func (r *PostgresTicketRepository) MarkValidated(ctx context.Context, id string, at time.Time) error {
	result, err := r.pool.Exec(ctx, `UPDATE tickets SET validated = true, validated_at = $2 WHERE id = $1 AND NOT validated`, id, at)
	if err != nil {
		return err
	}
	if result.RowsAffected() > 0 {
		return nil
	}

	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.ErrTicketNotFound
	}
	return domain.ErrTicketAlreadyValidated
}

type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func countSold(ctx context.Context, db queryRower, eventID, ticketTypeName string) (int, error) {
	var count int
	err := db.QueryRow(ctx,
		`SELECT COUNT(*) FROM tickets WHERE event_id = $1 AND ticket_type_name = $2`,
		eventID, ticketTypeName,
	).Scan(&count)
	return count, err
}

func findByUserEventType(ctx context.Context, db queryRower, userID, eventID, ticketTypeName string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE user_id = $1 AND event_id = $2 AND ticket_type_name = $3`
	ticket, err := scanTicket(db.QueryRow(ctx, query, userID, eventID, ticketTypeName))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return ticket, nil
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	ticket := &domain.Ticket{}
	err := row.Scan(
		&ticket.ID,
		&ticket.UserID,
		&ticket.EventID,
		&ticket.TicketTypeName,
		&ticket.PricePaid,
		&ticket.PaymentRef,
		&ticket.PurchasedAt,
		&ticket.Validated,
		&ticket.ValidatedAt,
	)
	if err != nil {
		return nil, err
	}
	return ticket, nil
}
