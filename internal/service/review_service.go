package service

import (
	"context"
	"fmt"
	"time"

	"github.com/nightlife-hub/nightpass/internal/domain"
	"github.com/nightlife-hub/nightpass/internal/dto"
	"github.com/nightlife-hub/nightpass/internal/repository"
)

// reviewService implements ReviewService
type reviewService struct {
	reviewRepo repository.ReviewRepository
	eventRepo  repository.EventRepository
}

// NewReviewService creates a new ReviewService
func NewReviewService(reviewRepo repository.ReviewRepository, eventRepo repository.EventRepository) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		eventRepo:  eventRepo,
	}
}

// CreateReview records one review per user, target and event. Only
// attendees may review, and the target must be the event's club or one of its DJs.
func (s *reviewService) CreateReview(ctx context.Context, actor Actor, req *dto.CreateReviewRequest) (*domain.Review, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMissingRequiredArg, err)
	}

	event, err := s.eventRepo.GetByID(ctx, req.EventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, domain.ErrEventNotFound
	}

	switch req.TargetType {
	case domain.TargetClub:
		if req.TargetID != event.VenueID {
			return nil, domain.ErrInvalidTarget
		}
	case domain.TargetDJ:
		if !event.HasDJ(req.TargetID) {
			return nil, domain.ErrInvalidTarget
		}
	}

	if !event.HasAttendee(actor.UserID) {
		return nil, domain.ErrNotAttendee
	}

	exists, err := s.reviewRepo.Exists(ctx, actor.UserID, req.TargetID, req.TargetType, event.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateReview
	}

	review, err := domain.NewReview(actor.UserID, req.TargetID, req.TargetType, event.ID, req.Rating, req.Comment, time.Now())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMissingRequiredArg, err)
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// ListUserReviews lists reviews written by the user
func (s *reviewService) ListUserReviews(ctx context.Context, userID string) ([]*domain.Review, error) {
	return s.reviewRepo.ListByUser(ctx, userID)
}

// ListTargetReviews lists reviews of a club or DJ
func (s *reviewService) ListTargetReviews(ctx context.Context, filter *dto.ReviewListFilter) ([]*domain.Review, int, error) {
	if !filter.TargetType.Valid() {
		return nil, 0, fmt.Errorf("%w: %s", domain.ErrMissingRequiredArg, domain.ErrInvalidTargetType.Error())
	}
	filter.SetDefaults()
	return s.reviewRepo.ListByTarget(ctx, filter.TargetType, filter.TargetID, filter.Limit, filter.Offset)
}
