// File: internal/identity/identity.go
package identity

import (
	"context"
	"errors"
)

// AuthMethod distinguishes how an identity signed in.
type AuthMethod string

const (
	AuthMethodPassword  AuthMethod = "password"
	AuthMethodFederated AuthMethod = "federated"
)

// Identity is an authenticated principal as reported by the external auth
// capability. Immutable except for EmailVerified, which flips from false to
// true exactly once via the provider's out-of-band verification flow.
type Identity struct {
	UID           string     `json:"uid"`
	Email         string     `json:"email,omitempty"`
	DisplayName   string     `json:"display_name,omitempty"`
	PhotoURL      string     `json:"photo_url,omitempty"`
	EmailVerified bool       `json:"email_verified"`
	AuthMethod    AuthMethod `json:"auth_method"`
}

// Sentinel errors for provider operations. Handlers map these onto the API
// error taxonomy.
var (
	ErrDuplicateAccount   = errors.New("identity: account already exists for this email")
	ErrWeakPassword       = errors.New("identity: password does not meet the provider's strength requirements")
	ErrInvalidEmail       = errors.New("identity: email address is malformed")
	ErrInvalidCredentials = errors.New("identity: invalid email or password")
	ErrAccountNotFound    = errors.New("identity: no account exists for this email")
	ErrProvider           = errors.New("identity: provider call failed")
)

// Provider wraps the external authentication service.
//
// Subscribe registers a callback invoked with the current Identity, or nil,
// whenever the provider's authentication state changes. Callbacks are
// delivered strictly in emission order; token refreshes do not re-invoke.
type Provider interface {
	// SignUpWithPassword creates a new password account and triggers the
	// provider's verification email. The account must not be treated as
	// usable until the email is verified.
	SignUpWithPassword(ctx context.Context, email, password string) (*Identity, error)
	SignInWithPassword(ctx context.Context, email, password string) (*Identity, error)
	SignOut(ctx context.Context, uid string) error
	Subscribe(callback func(*Identity)) (unsubscribe func())
}
