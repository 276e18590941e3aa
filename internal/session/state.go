// File: internal/session/state.go
package session

import (
	"context"

	"go.uber.org/zap"

	"skills_portfolio_backend/internal/identity"
	"skills_portfolio_backend/internal/user"
)

// Status is the authorization readiness of a session.
type Status string

const (
	// StatusUnknown means the identity provider has not reported yet, or a
	// profile resolution is still in flight. Unknown is never a synonym for
	// logged out.
	StatusUnknown Status = "unknown"
	// StatusUnauthenticated means the provider reported no identity.
	StatusUnauthenticated Status = "unauthenticated"
	// StatusPendingVerification means a password identity arrived whose
	// email is not verified. The identity is rejected and signed out.
	StatusPendingVerification Status = "pending_verification"
	// StatusAuthenticated means a usable identity with a resolved profile.
	StatusAuthenticated Status = "authenticated"
)

// State is the session tuple observed by guards and handlers.
// Invariant: Status == StatusAuthenticated implies Profile != nil.
type State struct {
	Status   Status
	Identity *identity.Identity
	Profile  *user.Profile
}

// ProfileResolver resolves the stored profile backing an identity,
// creating a default-role record when none exists.
type ProfileResolver interface {
	GetOrCreateFromIdentity(ctx context.Context, id *identity.Identity) (*user.Profile, error)
}

// Resolve applies the transition rules to a single reported identity and
// returns the terminal state:
//   - nil identity → unauthenticated
//   - unverified password identity → pending_verification
//   - otherwise → authenticated, with the stored profile, or a synthesized
//     default-role profile when the store cannot be read.
func Resolve(ctx context.Context, id *identity.Identity, resolver ProfileResolver, logger *zap.Logger) State {
	if id == nil {
		return State{Status: StatusUnauthenticated}
	}
	if id.AuthMethod == identity.AuthMethodPassword && !id.EmailVerified {
		return State{Status: StatusPendingVerification, Identity: id}
	}

	profile, err := resolver.GetOrCreateFromIdentity(ctx, id)
	if err != nil {
		logger.Warn("Profile resolution failed; continuing with a synthesized default profile",
			zap.String("uid", id.UID), zap.Error(err))
		profile = user.DefaultProfile(id)
	}
	return State{Status: StatusAuthenticated, Identity: id, Profile: profile}
}
