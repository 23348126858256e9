package dto

import (
	"time"

	"github.com/nightlife-hub/nightpass/internal/domain"
)

// CreateReviewRequest represents the request to review a club or DJ
type CreateReviewRequest struct {
	TargetID   string            `json:"target_id" binding:"required"`
	TargetType domain.TargetType `json:"target_type" binding:"required"`
	EventID    string            `json:"event_id" binding:"required"`
	Rating     float64           `json:"rating" binding:"required"`
	Comment    string            `json:"comment" binding:"max=2000"`
}

// Validate returns the domain rule the request breaks, if any
func (r *CreateReviewRequest) Validate() error {
	if !r.TargetType.Valid() {
		return domain.ErrInvalidTargetType
	}
	return domain.ValidateRating(r.Rating)
}

// ReviewListFilter selects reviews of one target
type ReviewListFilter struct {
	ListFilter
	TargetType domain.TargetType `form:"target_type" binding:"required"`
	TargetID   string            `form:"target_id" binding:"required"`
}

// ReviewResponse represents a review as returned by the API
type ReviewResponse struct {
	ID         string  `json:"id"`
	UserID     string  `json:"user_id"`
	TargetID   string  `json:"target_id"`
	TargetType string  `json:"target_type"`
	EventID    string  `json:"event_id"`
	Rating     float64 `json:"rating"`
	Comment    string  `json:"comment,omitempty"`
	CreatedAt  string  `json:"created_at"`
}

// NewReviewResponse converts a domain review
func NewReviewResponse(r *domain.Review) *ReviewResponse {
	return &ReviewResponse{
		ID:         r.ID,
		UserID:     r.UserID,
		TargetID:   r.TargetID,
		TargetType: string(r.TargetType),
		EventID:    r.EventID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt.Format(time.RFC3339),
	}
}
