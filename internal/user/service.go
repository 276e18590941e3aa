// File: internal/user/service.go
package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"skills_portfolio_backend/internal/common"
	"skills_portfolio_backend/internal/identity"

	"go.uber.org/zap"
)

// Service provides profile operations.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new profile service.
func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.Named("user.service"),
	}
}

// GetProfile returns the profile for a UID.
func (s *Service) GetProfile(ctx context.Context, uid string) (*Profile, error) {
	return s.repo.FindByID(ctx, uid)
}

// CreateProfile stores a new profile. Role always starts as resource;
// promotion happens out of band.
func (s *Service) CreateProfile(ctx context.Context, uid, fullName, email string) (*Profile, error) {
	profile := &Profile{
		ID:       uid,
		FullName: fullName,
		Email:    email,
		Role:     common.RoleResource,
	}
	if err := s.repo.Create(ctx, profile); err != nil {
		s.logger.Error("Failed to create profile", zap.String("uid", uid), zap.Error(err))
		return nil, err
	}
	s.logger.Info("Profile created", zap.String("uid", uid), zap.String("email", email))
	return profile, nil
}

// UpdateProfile applies the mutable profile fields.
func (s *Service) UpdateProfile(ctx context.Context, uid string, req UpdateProfileRequest) (*Profile, error) {
	profile, err := s.repo.FindByID(ctx, uid)
	if err != nil {
		return nil, err
	}

	profile.FullName = strings.TrimSpace(req.FullName)
	profile.Department = strings.TrimSpace(req.Department)

	if err := s.repo.Update(ctx, profile); err != nil {
		s.logger.Error("Failed to update profile", zap.String("uid", uid), zap.Error(err))
		return nil, err
	}
	return profile, nil
}

// GetOrCreateFromIdentity resolves the profile backing an identity. A
// missing record is created with the resource role so that a first
// federated sign-in is never left without a profile.
func (s *Service) GetOrCreateFromIdentity(ctx context.Context, id *identity.Identity) (*Profile, error) {
	profile, err := s.repo.FindByID(ctx, id.UID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up profile for %s: %w", id.UID, err)
	}

	profile = &Profile{
		ID:       id.UID,
		FullName: displayNameFor(id),
		Email:    id.Email,
		Role:     common.RoleResource,
	}
	if err := s.repo.Create(ctx, profile); err != nil {
		// A concurrent first sign-in may have won the insert.
		if _, ok := common.IsAPIError(err); ok {
			if existing, findErr := s.repo.FindByID(ctx, id.UID); findErr == nil {
				return existing, nil
			}
		}
		return nil, err
	}

	s.logger.Info("Default profile created on first sign-in", zap.String("uid", id.UID))
	return profile, nil
}

// DefaultProfile synthesizes an in-memory fallback profile for an identity
// whose stored record could not be read. It is never persisted.
func DefaultProfile(id *identity.Identity) *Profile {
	return &Profile{
		ID:       id.UID,
		FullName: displayNameFor(id),
		Email:    id.Email,
		Role:     common.RoleResource,
	}
}

func displayNameFor(id *identity.Identity) string {
	if name := strings.TrimSpace(id.DisplayName); name != "" {
		return name
	}
	if at := strings.Index(id.Email, "@"); at > 0 {
		return id.Email[:at]
	}
	return id.UID
}
