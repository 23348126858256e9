package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/nightlife-hub/nightpass/internal/domain"
)

type reviewKey struct {
	userID     string
	targetID   string
	targetType domain.TargetType
	eventID    string
}

// MemoryReviewRepository implements ReviewRepository using in-memory storage
type MemoryReviewRepository struct {
	reviews []*domain.Review
	keys    map[reviewKey]struct{}
	mu      sync.RWMutex
}

// NewMemoryReviewRepository creates a new in-memory review repository
func NewMemoryReviewRepository() *MemoryReviewRepository {
	return &MemoryReviewRepository{keys: make(map[reviewKey]struct{})}
}

func keyOf(r *domain.Review) reviewKey {
	return reviewKey{userID: r.UserID, targetID: r.TargetID, targetType: r.TargetType, eventID: r.EventID}
}

func (r *MemoryReviewRepository) Exists(ctx context.Context, userID, targetID string, targetType domain.TargetType, eventID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.keys[reviewKey{userID: userID, targetID: targetID, targetType: targetType, eventID: eventID}]
	return ok, nil
}

func (r *MemoryReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := keyOf(review)
	if _, dup := r.keys[key]; dup {
		return domain.ErrDuplicateReview
	}
	c := *review
	r.reviews = append(r.reviews, &c)
	r.keys[key] = struct{}{}
	return nil
}

func (r *MemoryReviewRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Review
	for _, review := range r.reviews {
		if review.UserID == userID {
			c := *review
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *MemoryReviewRepository) ListByTarget(ctx context.Context, targetType domain.TargetType, targetID string, limit, offset int) ([]*domain.Review, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []*domain.Review
	for _, review := range r.reviews {
		if review.TargetType == targetType && review.TargetID == targetID {
			c := *review
			all = append(all, &c)
		}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return paginate(all, limit, offset), len(all), nil
}

// MemoryUserRepository implements UserRepository using in-memory storage
type MemoryUserRepository struct {
	users   map[string]*domain.User
	byEmail map[string]string // lowercased email -> userID
	mu      sync.RWMutex
}

// NewMemoryUserRepository creates a new in-memory user repository
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users:   make(map[string]*domain.User),
		byEmail: make(map[string]string),
	}
}

func (r *MemoryUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func (r *MemoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, nil
	}
	c := *r.users[id]
	return &c, nil
}

func (r *MemoryUserRepository) Upsert(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(user.Email)
	if owner, taken := r.byEmail[email]; taken && owner != user.ID {
		return ErrEmailTaken
	}

	now := time.Now()
	c := *user
	if existing, ok := r.users[user.ID]; ok {
		delete(r.byEmail, strings.ToLower(existing.Email))
		c.CreatedAt = existing.CreatedAt
	} else if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	r.users[user.ID] = &c
	r.byEmail[email] = user.ID
	*user = c
	return nil
}
