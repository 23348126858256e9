package repository

import (
	"context"
	"time"

	"github.com/nightlife-hub/nightpass/internal/domain"
	goredis "github.com/redis/go-redis/v9"
)

const (
	venueDetailKeyPrefix = "nightpass:venue:"

	// DefaultVenueCacheTTL bounds how stale a cached venue tier can be
	DefaultVenueCacheTTL = 5 * time.Minute
)

// JSONCache is the subset of pkg/redis used for read-through caching
type JSONCache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Del(ctx context.Context, keys ...string) *goredis.IntCmd
}

// CachedVenueRepository wraps VenueRepository with Redis caching of venue
// lookups, which checkout and reward computation hit on every request
type CachedVenueRepository struct {
	repo  VenueRepository
	cache JSONCache
	ttl   time.Duration
}

// NewCachedVenueRepository creates a new CachedVenueRepository
func NewCachedVenueRepository(repo VenueRepository, cache JSONCache, ttl time.Duration) *CachedVenueRepository {
	if ttl <= 0 {
		ttl = DefaultVenueCacheTTL
	}
	return &CachedVenueRepository{repo: repo, cache: cache, ttl: ttl}
}

// Create creates a new venue
func (r *CachedVenueRepository) Create(ctx context.Context, venue *domain.Venue) error {
	return r.repo.Create(ctx, venue)
}

// GetByID retrieves a venue by ID with caching
func (r *CachedVenueRepository) GetByID(ctx context.Context, id string) (*domain.Venue, error) {
	key := venueDetailKeyPrefix + id

	var cached domain.Venue
	if found, err := r.cache.GetJSON(ctx, key, &cached); err == nil && found {
		return &cached, nil
	}

	venue, err := r.repo.GetByID(ctx, id)
	if err != nil || venue == nil {
		return venue, err
	}

	// Cache errors only cost a database round trip
	_ = r.cache.SetJSON(ctx, key, venue, r.ttl)
	return venue, nil
}

// List bypasses the cache
func (r *CachedVenueRepository) List(ctx context.Context, limit, offset int) ([]*domain.Venue, int, error) {
	return r.repo.List(ctx, limit, offset)
}

// Update updates a venue and invalidates its cache entry
func (r *CachedVenueRepository) Update(ctx context.Context, venue *domain.Venue) error {
	if err := r.repo.Update(ctx, venue); err != nil {
		return err
	}
	r.invalidate(ctx, venue.ID)
	return nil
}

// RecordObservedPrice updates the running average and invalidates the cache entry
func (r *CachedVenueRepository) RecordObservedPrice(ctx context.Context, venueID string, price float64) (*domain.Venue, error) {
	venue, err := r.repo.RecordObservedPrice(ctx, venueID, price)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx, venueID)
	return venue, nil
}

func (r *CachedVenueRepository) invalidate(ctx context.Context, id string) {
	r.cache.Del(ctx, venueDetailKeyPrefix+id)
}
