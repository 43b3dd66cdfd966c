package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"campusconnect/internal/domain"
)

const maxNameLen = 100

func (s *authService) GetProfile(ctx context.Context, actor *domain.Actor) (*domain.User, error) {
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}
	user, err := s.userRepo.GetByID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, persistErr("get user", err)
	}
	return user, nil
}

// UpdateDisplayName is the only mutation a profile allows after signup.
func (s *authService) UpdateDisplayName(ctx context.Context, actor *domain.Actor, name string) (*domain.User, error) {
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if len(name) > maxNameLen {
		return nil, fmt.Errorf("%w: name must be at most %d characters", domain.ErrInvalidInput, maxNameLen)
	}
	if err := s.userRepo.UpdateName(ctx, actor.ID, name, s.now()); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, persistErr("update user", err)
	}
	return s.GetProfile(ctx, actor)
}
