package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"futspot/internal/auth"
	apperrors "futspot/internal/errors"
	"futspot/internal/logger"
	"futspot/internal/models"
	"futspot/internal/repository"
)

const (
	msgInvalidRole        = "Tipo de usuário inválido. Use jogador ou locador."
	msgEmailTaken         = "E-mail já cadastrado."
	msgInvalidCredentials = "E-mail ou senha inválidos."
	msgWrongRole          = "Esta conta não pertence a este tipo de usuário."
)

type AuthService struct {
	store  repository.Store
	tokens *auth.TokenManager
}

func NewAuthService(store repository.Store, tokens *auth.TokenManager) *AuthService {
	return &AuthService{store: store, tokens: tokens}
}

func validRole(role string) bool {
	return role == models.RolePlayer || role == models.RoleOwner
}

func toProfile(u *models.User) models.UserProfile {
	return models.UserProfile{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      u.Role,
		PhotoURL:  u.PhotoURL,
		CreatedAt: u.CreatedAt,
	}
}

func (s *AuthService) respond(u *models.User) (*models.AuthResponse, error) {
	token, err := s.tokens.Issue(u.ID, u.Role, u.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &models.AuthResponse{AccessToken: token, User: toProfile(u)}, nil
}

func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	role := strings.ToLower(strings.TrimSpace(req.Role))
	if !validRole(role) {
		return nil, apperrors.Validation(msgInvalidRole)
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.Validation("O nome é obrigatório.")
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.store.Users().GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if existing != nil {
		return nil, apperrors.Validation(msgEmailTaken)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		Phone:        trimmed(req.Phone),
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.store.Users().Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Validation(msgEmailTaken)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.WithContext(ctx).Info("User registered", "user_id", user.ID, "role", user.Role)
	return s.respond(user)
}

// Login checks the credentials and that the account has the requested role.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.store.Users().GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, apperrors.Unauthorized(msgInvalidCredentials)
	}
	if user.Role != strings.ToLower(strings.TrimSpace(req.Role)) {
		return nil, apperrors.Unauthorized(msgWrongRole)
	}
	return s.respond(user)
}
