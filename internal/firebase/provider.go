// File: internal/firebase/provider.go
package firebase

import (
	"context"
	"strings"
	"sync"

	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"

	"skills_portfolio_backend/internal/identity"
)

// Provider implements identity.Provider on top of the Firebase service.
// Change callbacks fire on the provider's own sign-in and sign-out calls,
// delivered strictly in emission order.
type Provider struct {
	svc    *Service
	logger *zap.Logger

	mu      sync.Mutex
	subs    map[int]func(*identity.Identity)
	nextSub int
}

// NewProvider creates a Firebase-backed identity provider.
func NewProvider(svc *Service, logger *zap.Logger) *Provider {
	return &Provider{
		svc:    svc,
		logger: logger.Named("identity.firebase"),
		subs:   make(map[int]func(*identity.Identity)),
	}
}

var _ identity.Provider = (*Provider)(nil)

// SignUpWithPassword creates a Firebase password account and generates its
// verification link. The caller must not treat the account as usable until
// the email is verified.
func (p *Provider) SignUpWithPassword(ctx context.Context, email, password string) (*identity.Identity, error) {
	rec, err := p.svc.CreateUser(ctx, email, password)
	if err != nil {
		return nil, mapAdminError(err)
	}

	if _, err := p.svc.EmailVerificationLink(ctx, email); err != nil {
		// Account exists; the user can request a fresh link on next sign-in.
		p.logger.Warn("Failed to generate verification link after signup",
			zap.String("uid", rec.UID), zap.Error(err))
	}

	id := IdentityFromUserRecord(rec)
	id.AuthMethod = identity.AuthMethodPassword
	return id, nil
}

// SignInWithPassword validates credentials via the Identity Toolkit REST
// API and emits an identity-change event on success.
func (p *Provider) SignInWithPassword(ctx context.Context, email, password string) (*identity.Identity, error) {
	result, err := p.svc.PasswordSignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}

	rec, err := p.svc.GetUser(ctx, result.UID)
	if err != nil {
		p.logger.Error("Signed in but failed to load user record", zap.String("uid", result.UID), zap.Error(err))
		return nil, identity.ErrProvider
	}

	id := IdentityFromUserRecord(rec)
	id.AuthMethod = identity.AuthMethodPassword
	p.emit(id)
	return id, nil
}

// SignOut revokes the user's refresh tokens and emits a nil identity event.
func (p *Provider) SignOut(ctx context.Context, uid string) error {
	if err := p.svc.RevokeRefreshTokens(ctx, uid); err != nil {
		return err
	}
	p.emit(nil)
	return nil
}

// Subscribe registers an identity-change callback.
func (p *Provider) Subscribe(callback func(*identity.Identity)) func() {
	p.mu.Lock()
	key := p.nextSub
	p.nextSub++
	p.subs[key] = callback
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.subs, key)
		p.mu.Unlock()
	}
}

func (p *Provider) emit(id *identity.Identity) {
	p.mu.Lock()
	callbacks := make([]func(*identity.Identity), 0, len(p.subs))
	for i := 0; i < p.nextSub; i++ {
		if cb, ok := p.subs[i]; ok {
			callbacks = append(callbacks, cb)
		}
	}
	p.mu.Unlock()

	for _, cb := range callbacks {
		cb(id)
	}
}

// mapAdminError maps Admin SDK account-creation failures onto the identity
// sentinels.
func mapAdminError(err error) error {
	switch {
	case auth.IsEmailAlreadyExists(err):
		return identity.ErrDuplicateAccount
	case strings.Contains(err.Error(), "password"):
		return identity.ErrWeakPassword
	case strings.Contains(err.Error(), "email"):
		return identity.ErrInvalidEmail
	default:
		return identity.ErrProvider
	}
}
