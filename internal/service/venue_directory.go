package service

import (
	"context"

	"github.com/nightlife-hub/nightpass/internal/domain"
	"github.com/nightlife-hub/nightpass/internal/metrics"
	"github.com/nightlife-hub/nightpass/internal/repository"
)

// venueDirectory implements VenueDirectory over the catalog repositories
type venueDirectory struct {
	venueRepo repository.VenueRepository
	djRepo    repository.DJRepository
}

// NewVenueDirectory creates a new VenueDirectory
func NewVenueDirectory(venueRepo repository.VenueRepository, djRepo repository.DJRepository) VenueDirectory {
	return &venueDirectory{
		venueRepo: venueRepo,
		djRepo:    djRepo,
	}
}

// GetVenue retrieves a venue by ID
func (d *venueDirectory) GetVenue(ctx context.Context, id string) (*domain.Venue, error) {
	venue, err := d.venueRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if venue == nil {
		return nil, domain.ErrVenueNotFound
	}
	return venue, nil
}

// GetDJs retrieves the DJs that exist among ids
func (d *venueDirectory) GetDJs(ctx context.Context, ids []string) ([]*domain.DJ, error) {
	if len(ids) == 0 {
		return []*domain.DJ{}, nil
	}
	return d.djRepo.GetByIDs(ctx, ids)
}

// RecalculatePriceTier folds observedPrice into the venue's running average
func (d *venueDirectory) RecalculatePriceTier(ctx context.Context, venueID string, observedPrice float64) (*domain.Venue, error) {
	venue, err := d.venueRepo.RecordObservedPrice(ctx, venueID, observedPrice)
	if err != nil {
		return nil, err
	}
	metrics.RecordTierRecalculation(ctx, venue.ID, venue.PriceRange)
	return venue, nil
}
