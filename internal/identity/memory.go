// File: internal/identity/memory.go
package identity

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
)

type memoryAccount struct {
	identity Identity
	password string
}

// MemoryProvider is an in-memory Provider used by tests and demo mode. It
// mirrors the external provider's observable behavior: ordered change
// callbacks, verification gating, and the sentinel error taxonomy.
type MemoryProvider struct {
	mu       sync.Mutex
	accounts map[string]*memoryAccount // keyed by lowercased email
	subs     map[int]func(*Identity)
	nextSub  int

	// VerificationSends counts triggered verification emails, by email.
	VerificationSends map[string]int
	// SignOuts counts SignOut calls, by uid.
	SignOuts map[string]int
}

// NewMemoryProvider creates an empty in-memory identity provider.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{
		accounts:          make(map[string]*memoryAccount),
		subs:              make(map[int]func(*Identity)),
		VerificationSends: make(map[string]int),
		SignOuts:          make(map[string]int),
	}
}

func (p *MemoryProvider) SignUpWithPassword(_ context.Context, email, password string) (*Identity, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !strings.Contains(email, "@") || strings.ContainsAny(email, " \t") || email == "" {
		return nil, ErrInvalidEmail
	}
	if len(password) < 6 {
		return nil, ErrWeakPassword
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.accounts[email]; exists {
		return nil, ErrDuplicateAccount
	}

	acct := &memoryAccount{
		identity: Identity{
			UID:        uuid.NewString(),
			Email:      email,
			AuthMethod: AuthMethodPassword,
		},
		password: password,
	}
	p.accounts[email] = acct
	p.VerificationSends[email]++

	id := acct.identity
	return &id, nil
}

func (p *MemoryProvider) SignInWithPassword(_ context.Context, email, password string) (*Identity, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	p.mu.Lock()
	acct, exists := p.accounts[email]
	if !exists {
		p.mu.Unlock()
		return nil, ErrAccountNotFound
	}
	if acct.password != password {
		p.mu.Unlock()
		return nil, ErrInvalidCredentials
	}
	id := acct.identity
	p.mu.Unlock()

	p.Emit(&id)
	return &id, nil
}

func (p *MemoryProvider) SignOut(_ context.Context, uid string) error {
	p.mu.Lock()
	p.SignOuts[uid]++
	p.mu.Unlock()

	p.Emit(nil)
	return nil
}

// Subscribe registers a change callback. Delivery order matches Emit order.
func (p *MemoryProvider) Subscribe(callback func(*Identity)) func() {
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

// Emit delivers an identity-change event to all subscribers, in
// registration order for a single event, preserving inter-event ordering.
func (p *MemoryProvider) Emit(id *Identity) {
	p.mu.Lock()
	callbacks := make([]func(*Identity), 0, len(p.subs))
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

// AddFederatedAccount seeds a federated identity (test/demo helper).
func (p *MemoryProvider) AddFederatedAccount(email, displayName string) *Identity {
	email = strings.ToLower(strings.TrimSpace(email))

	p.mu.Lock()
	defer p.mu.Unlock()
	acct := &memoryAccount{
		identity: Identity{
			UID:           uuid.NewString(),
			Email:         email,
			DisplayName:   displayName,
			EmailVerified: true,
			AuthMethod:    AuthMethodFederated,
		},
	}
	p.accounts[email] = acct
	id := acct.identity
	return &id
}

// MarkVerified flips the verification flag for a password account, as the
// provider's out-of-band flow would.
func (p *MemoryProvider) MarkVerified(email string) {
	email = strings.ToLower(strings.TrimSpace(email))

	p.mu.Lock()
	defer p.mu.Unlock()
	if acct, ok := p.accounts[email]; ok {
		acct.identity.EmailVerified = true
	}
}
