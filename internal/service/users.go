package service

import (
	"context"
	"fmt"
	"strings"

	apperrors "futspot/internal/errors"
	"futspot/internal/models"
	"futspot/internal/repository"
)

type UserService struct {
	store repository.Store
	fx    *effects
}

func NewUserService(store repository.Store, fx *effects) *UserService {
	return &UserService{store: store, fx: fx}
}

func (s *UserService) Me(ctx context.Context, userID int64) (*models.UserProfile, error) {
	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, apperrors.NotFound(msgUserNotFound)
	}
	profile := toProfile(user)
	return &profile, nil
}

func (s *UserService) Update(ctx context.Context, userID int64, req models.UpdateUserRequest) (*models.UserProfile, error) {
	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, apperrors.NotFound(msgUserNotFound)
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.Validation("O nome é obrigatório.")
		}
		user.Name = name
	}
	if req.Phone != nil {
		user.Phone = trimmed(req.Phone)
	}

	if err := s.store.Users().Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	s.fx.invalidatePlayer(ctx, s.store, userID)

	profile := toProfile(user)
	return &profile, nil
}
