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

const venueColumns = `id, name, address, city, price_range, observed_price_total, observed_price_count, COALESCE(owner_id, ''), created_at, updated_at`

// PostgresVenueRepository implements VenueRepository using PostgreSQL
type PostgresVenueRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresVenueRepository creates a new PostgresVenueRepository
func NewPostgresVenueRepository(pool *pgxpool.Pool) *PostgresVenueRepository {
	return &PostgresVenueRepository{pool: pool}
}

// Create creates a new venue
func (r *PostgresVenueRepository) Create(ctx context.Context, venue *domain.Venue) error {
	query := `
		INSERT INTO venues (id, name, address, city, price_range, observed_price_total, observed_price_count, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9, $10)
	`
	_, err := r.pool.Exec(ctx, query,
		venue.ID,
		venue.Name,
		venue.Address,
		venue.City,
		venue.PriceRange,
		venue.ObservedPriceTotal,
		venue.ObservedPriceCount,
		venue.OwnerID,
		venue.CreatedAt,
		venue.UpdatedAt,
	)
	return err
}

// GetByID retrieves a venue by ID
func (r *PostgresVenueRepository) GetByID(ctx context.Context, id string) (*domain.Venue, error) {
	query := `SELECT ` + venueColumns + ` FROM venues WHERE id = $1`
	venue, err := scanVenue(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return venue, nil
}

// List lists venues ordered by name
func (r *PostgresVenueRepository) List(ctx context.Context, limit, offset int) ([]*domain.Venue, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM venues`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + venueColumns + ` FROM venues ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	venues := []*domain.Venue{}
	for rows.Next() {
		venue, err := scanVenue(rows)
		if err != nil {
			return nil, 0, err
		}
		venues = append(venues, venue)
	}
	return venues, total, rows.Err()
}

// Update updates a venue's descriptive fields
func (r *PostgresVenueRepository) Update(ctx context.Context, venue *domain.Venue) error {
	query := `
		UPDATE venues
		SET name = $2, address = $3, city = $4, price_range = $5, updated_at = $6
		WHERE id = $1
	`
	venue.UpdatedAt = time.Now()
	result, err := r.pool.Exec(ctx, query,
		venue.ID,
		venue.Name,
		venue.Address,
		venue.City,
		venue.PriceRange,
		venue.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrVenueNotFound
	}
	return nil
}

// RecordObservedPrice locks the venue row, folds price into its running
// average and writes back the derived price range
func (r *PostgresVenueRepository) RecordObservedPrice(ctx context.Context, venueID string, price float64) (*domain.Venue, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	venue, err := scanVenue(tx.QueryRow(ctx, `SELECT `+venueColumns+` FROM venues WHERE id = $1 FOR UPDATE`, venueID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVenueNotFound
		}
		return nil, err
	}

	venue.RecordObservedPrice(price, time.Now())

	query := `
		UPDATE venues
		SET observed_price_total = $2, observed_price_count = $3, price_range = $4, updated_at = $5
		WHERE id = $1
	`
	if _, err := tx.Exec(ctx, query, venue.ID, venue.ObservedPriceTotal, venue.ObservedPriceCount, venue.PriceRange, venue.UpdatedAt); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return venue, nil
}

func scanVenue(row pgx.Row) (*domain.Venue, error) {
	venue := &domain.Venue{}
	err := row.Scan(
		&venue.ID,
		&venue.Name,
		&venue.Address,
		&venue.City,
		&venue.PriceRange,
		&venue.ObservedPriceTotal,
		&venue.ObservedPriceCount,
		&venue.OwnerID,
		&venue.CreatedAt,
		&venue.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return venue, nil
}

// PostgresDJRepository implements DJRepository using PostgreSQL
type PostgresDJRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresDJRepository creates a new PostgresDJRepository
func NewPostgresDJRepository(pool *pgxpool.Pool) *PostgresDJRepository {
	return &PostgresDJRepository{pool: pool}
}

// Create creates a new DJ
func (r *PostgresDJRepository) Create(ctx context.Context, dj *domain.DJ) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO djs (id, name, genre, created_at) VALUES ($1, $2, $3, $4)`,
		dj.ID, dj.Name, dj.Genre, dj.CreatedAt,
	)
	return err
}

// GetByID retrieves a DJ by ID
func (r *PostgresDJRepository) GetByID(ctx context.Context, id string) (*domain.DJ, error) {
	dj := &domain.DJ{}
	err := r.pool.QueryRow(ctx, `SELECT id, name, genre, created_at FROM djs WHERE id = $1`, id).
		Scan(&dj.ID, &dj.Name, &dj.Genre, &dj.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return dj, nil
}

// GetByIDs retrieves the DJs that exist among ids, preserving the order of ids
func (r *PostgresDJRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.DJ, error) {
	if len(ids) == 0 {
		return []*domain.DJ{}, nil
	}

	query := `
		SELECT d.id, d.name, d.genre, d.created_at
		FROM unnest($1::text[]) WITH ORDINALITY AS wanted(id, ord)
		JOIN djs d ON d.id::text = wanted.id
		ORDER BY wanted.ord
	`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	djs := make([]*domain.DJ, 0, len(ids))
	for rows.Next() {
		dj := &domain.DJ{}
		if err := rows.Scan(&dj.ID, &dj.Name, &dj.Genre, &dj.CreatedAt); err != nil {
			return nil, err
		}
		djs = append(djs, dj)
	}
	return djs, rows.Err()
}

// List lists DJs ordered by name
func (r *PostgresDJRepository) List(ctx context.Context, limit, offset int) ([]*domain.DJ, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM djs`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `SELECT id, name, genre, created_at FROM djs ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	djs := []*domain.DJ{}
	for rows.Next() {
		dj := &domain.DJ{}
		if err := rows.Scan(&dj.ID, &dj.Name, &dj.Genre, &dj.CreatedAt); err != nil {
			return nil, 0, err
		}
		djs = append(djs, dj)
	}
	return djs, total, rows.Err()
}
