package service

import (
	"context"
	"errors"

	"github.com/nightlife-hub/nightpass/internal/domain"
	"github.com/nightlife-hub/nightpass/internal/metrics"
	"github.com/nightlife-hub/nightpass/internal/repository"
	"github.com/nightlife-hub/nightpass/pkg/logger"
	"go.uber.org/zap"
)

// rewardService implements RewardService
type rewardService struct {
	reviewRepo repository.ReviewRepository
	eventRepo  repository.EventRepository
	directory  VenueDirectory
}

// NewRewardService creates a new RewardService
func NewRewardService(
	reviewRepo repository.ReviewRepository,
	eventRepo repository.EventRepository,
	directory VenueDirectory,
) RewardService {
	return &rewardService{
		reviewRepo: reviewRepo,
		eventRepo:  eventRepo,
		directory:  directory,
	}
}

// ComputeProgress counts each review toward the price tier of the venue it
// belongs to, as that tier stands now. Club reviews name the venue directly,
// DJ reviews go through their event. Reviews whose venue is gone still count
// toward the total.
func (s *rewardService) ComputeProgress(ctx context.Context, userID string) (*domain.RewardSummary, error) {
	reviews, err := s.reviewRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := domain.NewRewardSummary(userID)
	venues := make(map[string]*domain.Venue)
	eventVenue := make(map[string]string)

	for _, review := range reviews {
		venueID := review.TargetID
		if review.TargetType == domain.TargetDJ {
			id, ok := eventVenue[review.EventID]
			if !ok {
				event, err := s.eventRepo.GetByID(ctx, review.EventID)
				if err != nil {
					return nil, err
				}
				if event != nil {
					id = event.VenueID
				}
				eventVenue[review.EventID] = id
			}
			venueID = id
		}

		venue, err := s.lookupVenue(ctx, venues, venueID)
		if err != nil {
			return nil, err
		}
		if venue == nil {
			logger.Get().Debug("review venue unresolved",
				zap.String("review_id", review.ID),
				zap.String("target_type", string(review.TargetType)),
			)
			summary.CountUnresolved()
			continue
		}
		summary.Count(venue.Tier())
	}

	metrics.RecordRewardComputation(ctx, summary.Unresolved)
	return summary, nil
}

func (s *rewardService) lookupVenue(ctx context.Context, cache map[string]*domain.Venue, id string) (*domain.Venue, error) {
	if id == "" {
		return nil, nil
	}
	if v, ok := cache[id]; ok {
		return v, nil
	}
	venue, err := s.directory.GetVenue(ctx, id)
	if errors.Is(err, domain.ErrVenueNotFound) {
		venue, err = nil, nil
	}
	if err != nil {
		return nil, err
	}
	cache[id] = venue
	return venue, nil
}
