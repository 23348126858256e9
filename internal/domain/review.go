package domain

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
)

// TargetType identifies what a review is about
type TargetType string

const (
	TargetClub TargetType = "club"
	TargetDJ   TargetType = "dj"
)

var (
	ErrInvalidRating     = errors.New("rating must be between 0.5 and 5.0 in steps of 0.5")
	ErrInvalidTargetType = errors.New("target type must be club or dj")
)

// Valid reports whether t is a known target type
func (t TargetType) Valid() bool {
	return t == TargetClub || t == TargetDJ
}

// Review is a rating of a club or DJ for a given event
type Review struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	TargetID   string     `json:"target_id"`
	TargetType TargetType `json:"target_type"`
	EventID    string     `json:"event_id"`
	Rating     float64    `json:"rating"`
	Comment    string     `json:"comment,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// NewReview validates the rating and target type and builds a review
func NewReview(userID, targetID string, targetType TargetType, eventID string, rating float64, comment string, now time.Time) (*Review, error) {
	if !targetType.Valid() {
		return nil, ErrInvalidTargetType
	}
	if err := ValidateRating(rating); err != nil {
		return nil, err
	}
	return &Review{
		ID:         uuid.New().String(),
		UserID:     userID,
		TargetID:   targetID,
		TargetType: targetType,
		EventID:    eventID,
		Rating:     rating,
		Comment:    comment,
		CreatedAt:  now,
	}, nil
}

// ValidateRating accepts 0.5 to 5.0 in half-star steps
func ValidateRating(rating float64) error {
	if rating < 0.5 || rating > 5 {
		return ErrInvalidRating
	}
	if doubled := rating * 2; doubled != math.Trunc(doubled) {
		return ErrInvalidRating
	}
	return nil
}
