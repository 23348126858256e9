package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nightlife-hub/nightpass/internal/domain"
)

const reviewColumns = `id, user_id, target_id, target_type, event_id, rating, comment, created_at`

// PostgresReviewRepository implements ReviewRepository using PostgreSQL
type PostgresReviewRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresReviewRepository creates a new PostgresReviewRepository
func NewPostgresReviewRepository(pool *pgxpool.Pool) *PostgresReviewRepository {
	return &PostgresReviewRepository{pool: pool}
}

// Exists reports whether the user already reviewed the target for the event
func (r *PostgresReviewRepository) Exists(ctx context.Context, userID, targetID string, targetType domain.TargetType, eventID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM reviews
			WHERE user_id = $1 AND target_id = $2 AND target_type = $3 AND event_id = $4
		)
	`
	var exists bool
	err := r.pool.QueryRow(ctx, query, userID, targetID, string(targetType), eventID).Scan(&exists)
	return exists, err
}

// Create inserts a review. The unique index on the review tuple backs the Exists check.
func (r *PostgresReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	query := `
		INSERT INTO reviews (id, user_id, target_id, target_type, event_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.pool.Exec(ctx, query,
		review.ID,
		review.UserID,
		review.TargetID,
		string(review.TargetType),
		review.EventID,
		review.Rating,
		review.Comment,
		review.CreatedAt,
	)
	if isUniqueViolation(err) {
		return domain.ErrDuplicateReview
	}
	return err
}

// ListByUser returns every review written by the user
func (r *PostgresReviewRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Review, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	return collectReviews(rows)
}

// ListByTarget lists reviews of one club or DJ, newest first
func (r *PostgresReviewRepository) ListByTarget(ctx context.Context, targetType domain.TargetType, targetID string, limit, offset int) ([]*domain.Review, int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM reviews WHERE target_type = $1 AND target_id = $2`,
		string(targetType), targetID,
	).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE target_type = $1 AND target_id = $2 ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	rows, err := r.pool.Query(ctx, query, string(targetType), targetID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	reviews, err := collectReviews(rows)
	if err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

func collectReviews(rows pgx.Rows) ([]*domain.Review, error) {
	defer rows.Close()

	reviews := []*domain.Review{}
	for rows.Next() {
		review := &domain.Review{}
		var targetType string
		err := rows.Scan(
			&review.ID,
			&review.UserID,
			&review.TargetID,
			&targetType,
			&review.EventID,
			&review.Rating,
			&review.Comment,
			&review.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		review.TargetType = domain.TargetType(targetType)
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}
