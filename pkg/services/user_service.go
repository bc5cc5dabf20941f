package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mspcompass/compass-engine/pkg/apperrors"
	"github.com/mspcompass/compass-engine/pkg/auth"
	"github.com/mspcompass/compass-engine/pkg/models"
	"github.com/mspcompass/compass-engine/pkg/repositories"
)

// UserService handles account registration, login, and admin user
// management. The last active admin can never be demoted or suspended.
type UserService interface {
	Register(ctx context.Context, email, password, name, organization, phone string) (*models.User, error)

	// Login verifies credentials and returns a session token. Suspended
	// accounts are rejected.
	Login(ctx context.Context, email, password string) (string, *models.User, error)

	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)

	// UpdateUser updates name, organization and phone.
	UpdateUser(ctx context.Context, id uuid.UUID, name, organization, phone string) (*models.User, error)

	ChangeRole(ctx context.Context, id uuid.UUID, role string) error
	SetStatus(ctx context.Context, id uuid.UUID, status string) error
	ChangePassword(ctx context.Context, id uuid.UUID, currentPassword, newPassword string) error
}

type userService struct {
	users  repositories.UserRepository
	tokens *auth.TokenIssuer
	logger *zap.Logger
}

// NewUserService creates a new UserService.
func NewUserService(users repositories.UserRepository, tokens *auth.TokenIssuer, logger *zap.Logger) UserService {
	return &userService{
		users:  users,
		tokens: tokens,
		logger: logger.Named("user-service"),
	}
}

var _ UserService = (*userService)(nil)

func (s *userService) Register(ctx context.Context, email, password, name, organization, phone string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("a valid email is required: %w", apperrors.ErrValidation)
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("name is required: %w", apperrors.ErrValidation)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), apperrors.ErrValidation)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(name),
		Role:         models.RoleMember,
		Status:       models.UserStatusActive,
		Organization: organization,
		Phone:        phone,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("Registered user",
		zap.String("user_id", user.ID.String()),
		zap.String("email", email))
	return user, nil
}

func (s *userService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		// Same response for unknown email and bad password.
		return "", nil, fmt.Errorf("invalid credentials: %w", apperrors.ErrUnauthorized)
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return "", nil, fmt.Errorf("invalid credentials: %w", apperrors.ErrUnauthorized)
	}
	if user.Status != models.UserStatusActive {
		return "", nil, fmt.Errorf("account is suspended: %w", apperrors.ErrForbidden)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *userService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *userService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

func (s *userService) UpdateUser(ctx context.Context, id uuid.UUID, name, organization, phone string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) != "" {
		user.Name = strings.TrimSpace(name)
	}
	user.Organization = organization
	user.Phone = phone
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) ChangeRole(ctx context.Context, id uuid.UUID, role string) error {
	if !models.IsValidRole(role) {
		return fmt.Errorf("invalid role %q: %w", role, apperrors.ErrValidation)
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user.Role == role {
		return nil
	}
	if user.Role == models.RoleAdmin {
		if err := s.requireAnotherAdmin(ctx); err != nil {
			return err
		}
	}

	user.Role = role
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}
	s.logger.Info("Changed user role",
		zap.String("user_id", id.String()),
		zap.String("role", role))
	return nil
}

func (s *userService) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	if status != models.UserStatusActive && status != models.UserStatusSuspended {
		return fmt.Errorf("invalid status %q: %w", status, apperrors.ErrValidation)
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user.Role == models.RoleAdmin && status == models.UserStatusSuspended {
		if err := s.requireAnotherAdmin(ctx); err != nil {
			return err
		}
	}

	if err := s.users.SetStatus(ctx, id, status); err != nil {
		return err
	}
	s.logger.Info("Changed user status",
		zap.String("user_id", id.String()),
		zap.String("status", status))
	return nil
}

// requireAnotherAdmin fails when the system would be left without an
// active admin account.
func (s *userService) requireAnotherAdmin(ctx context.Context) error {
	admins, err := s.users.CountByRole(ctx, models.RoleAdmin)
	if err != nil {
		return err
	}
	if admins <= 1 {
		return fmt.Errorf("at least one admin account must remain: %w", apperrors.ErrLastAdmin)
	}
	return nil
}

func (s *userService) ChangePassword(ctx context.Context, id uuid.UUID, currentPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(user.PasswordHash, currentPassword) {
		return fmt.Errorf("current password is incorrect: %w", apperrors.ErrUnauthorized)
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", err.Error(), apperrors.ErrValidation)
	}
	user.PasswordHash = hash
	return s.users.Update(ctx, user)
}
