// File: internal/auth/service.go
package auth

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"skills_portfolio_backend/internal/common"
	"skills_portfolio_backend/internal/config"
	"skills_portfolio_backend/internal/firebase"
	"skills_portfolio_backend/internal/identity"
	"skills_portfolio_backend/internal/session"
	"skills_portfolio_backend/internal/user"
)

// Service implements the authentication boundary: signup, credential
// login, and the exchange of Firebase ID tokens for session cookies.
type Service struct {
	fb       *firebase.Service
	provider identity.Provider
	users    *user.Service
	cfg      *config.Config
	logger   *zap.Logger
}

// NewService creates a new auth service.
func NewService(fb *firebase.Service, provider identity.Provider, users *user.Service, cfg *config.Config, logger *zap.Logger) *Service {
	return &Service{
		fb:       fb,
		provider: provider,
		users:    users,
		cfg:      cfg,
		logger:   logger.Named("auth.service"),
	}
}

// SignUp creates a password account, triggers its verification email and
// stores the default-role profile. The account is unusable until verified.
func (s *Service) SignUp(ctx context.Context, req SignUpRequest) (*user.Profile, error) {
	id, err := s.provider.SignUpWithPassword(ctx, req.Email, req.Password)
	if err != nil {
		return nil, mapIdentityError(err)
	}

	profile, err := s.users.CreateProfile(ctx, id.UID, strings.TrimSpace(req.FullName), id.Email)
	if err != nil {
		// The identity exists; the profile will be created on first
		// verified sign-in instead.
		s.logger.Warn("Profile creation after signup failed; deferring to first sign-in",
			zap.String("uid", id.UID), zap.Error(err))
		return user.DefaultProfile(id), nil
	}
	return profile, nil
}

// LogIn validates credentials, refuses unverified password accounts with a
// forced sign-out, and mints a session cookie for usable identities.
func (s *Service) LogIn(ctx context.Context, req LogInRequest) (*session.State, string, error) {
	result, err := s.fb.PasswordSignIn(ctx, req.Email, req.Password)
	if err != nil {
		return nil, "", mapIdentityError(err)
	}

	rec, err := s.fb.GetUser(ctx, result.UID)
	if err != nil {
		s.logger.Error("Failed to load user record after sign-in", zap.String("uid", result.UID), zap.Error(err))
		return nil, "", common.ErrInternalServer
	}

	id := firebase.IdentityFromUserRecord(rec)
	id.AuthMethod = identity.AuthMethodPassword
	state := session.Resolve(ctx, id, s.users, s.logger)

	if state.Status == session.StatusPendingVerification {
		if err := s.fb.RevokeRefreshTokens(ctx, id.UID); err != nil {
			s.logger.Warn("Failed to revoke unverified identity", zap.String("uid", id.UID), zap.Error(err))
		}
		return nil, "", common.ErrUnauthorized.WithDetails("Please verify your email address before signing in.")
	}

	cookie, err := s.fb.CreateSessionCookie(ctx, result.IDToken, s.cfg.SessionCookieExpiry)
	if err != nil {
		return nil, "", common.ErrInternalServer
	}
	return &state, cookie, nil
}

// ExchangeIDToken verifies a client-minted ID token (password or
// federated) and exchanges it for a session cookie, re-running the session
// transition rules.
func (s *Service) ExchangeIDToken(ctx context.Context, idToken string) (*session.State, string, error) {
	token, err := s.fb.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, "", common.ErrUnauthorized.WithDetails("Invalid or expired ID token.")
	}

	id := firebase.IdentityFromToken(token)
	state := session.Resolve(ctx, id, s.users, s.logger)

	if state.Status == session.StatusPendingVerification {
		if err := s.fb.RevokeRefreshTokens(ctx, id.UID); err != nil {
			s.logger.Warn("Failed to revoke unverified identity", zap.String("uid", id.UID), zap.Error(err))
		}
		return nil, "", common.ErrUnauthorized.WithDetails("Please verify your email address before signing in.")
	}

	cookie, err := s.fb.CreateSessionCookie(ctx, idToken, s.cfg.SessionCookieExpiry)
	if err != nil {
		return nil, "", common.ErrInternalServer
	}
	return &state, cookie, nil
}

// SignOut revokes the user's refresh tokens, invalidating outstanding
// session cookies.
func (s *Service) SignOut(ctx context.Context, cookie string) error {
	token, err := s.fb.VerifySessionCookie(ctx, cookie)
	if err != nil {
		// Nothing to revoke; the cookie is already unusable.
		return nil
	}
	return s.provider.SignOut(ctx, token.UID)
}

// mapIdentityError maps identity sentinels onto the API error taxonomy.
func mapIdentityError(err error) error {
	switch {
	case errors.Is(err, identity.ErrDuplicateAccount):
		return common.ErrConflict.WithDetails("An account already exists for this email.")
	case errors.Is(err, identity.ErrWeakPassword):
		return common.ErrValidation.WithDetails("Password does not meet the strength requirements.")
	case errors.Is(err, identity.ErrInvalidEmail):
		return common.ErrValidation.WithDetails("Email address is malformed.")
	case errors.Is(err, identity.ErrInvalidCredentials),
		errors.Is(err, identity.ErrAccountNotFound):
		return common.ErrUnauthorized.WithDetails("Invalid email or password.")
	default:
		return common.ErrInternalServer
	}
}
