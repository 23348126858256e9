package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/nightlife-hub/nightpass/internal/domain"
	"github.com/nightlife-hub/nightpass/internal/repository"
)

// userService implements UserService
type userService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// SyncUser stores the identity token's user so webhooks can resolve buyers by email
func (s *userService) SyncUser(ctx context.Context, actor Actor) (*domain.User, error) {
	if actor.UserID == "" {
		return nil, fmt.Errorf("%w: user id", domain.ErrMissingRequiredArg)
	}
	email := strings.TrimSpace(actor.Email)
	if email == "" {
		return nil, fmt.Errorf("%w: identity token carries no email", domain.ErrMissingRequiredArg)
	}

	role := actor.Role
	if role == "" {
		role = domain.RoleUser
	}

	user := &domain.User{
		ID:    actor.UserID,
		Email: email,
		Name:  actor.Name,
		Role:  role,
	}
	if err := s.userRepo.Upsert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUser retrieves a user by ID
func (s *userService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}
