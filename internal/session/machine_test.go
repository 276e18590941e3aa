// File: internal/session/machine_test.go
package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"skills_portfolio_backend/internal/common"
	"skills_portfolio_backend/internal/identity"
	"skills_portfolio_backend/internal/user"
)

// stubResolver is a ProfileResolver with controllable blocking and failure.
type stubResolver struct {
	mu       sync.Mutex
	profiles map[string]*user.Profile
	err      error
	gate     map[string]chan struct{}
}

func newStubResolver() *stubResolver {
	return &stubResolver{
		profiles: make(map[string]*user.Profile),
		gate:     make(map[string]chan struct{}),
	}
}

func (r *stubResolver) GetOrCreateFromIdentity(_ context.Context, id *identity.Identity) (*user.Profile, error) {
	r.mu.Lock()
	gate := r.gate[id.UID]
	err := r.err
	r.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.profiles[id.UID]; ok {
		return p, nil
	}
	p := &user.Profile{ID: id.UID, FullName: id.DisplayName, Email: id.Email, Role: common.RoleResource}
	r.profiles[id.UID] = p
	return p, nil
}

func (r *stubResolver) blockUID(uid string) chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	ch := make(chan struct{})
	r.gate[uid] = ch
	return ch
}

func newTestMachine(t *testing.T, provider identity.Provider, resolver ProfileResolver, timeout time.Duration) *Machine {
	t.Helper()
	m := NewMachine(provider, resolver, timeout, zap.NewNop())
	m.Start()
	t.Cleanup(m.Stop)
	return m
}

func TestMachineStartsUnknown(t *testing.T) {
	m := newTestMachine(t, identity.NewMemoryProvider(), newStubResolver(), time.Minute)
	assert.Equal(t, StatusUnknown, m.Current().Status)
}

func TestMachineAuthenticatedHasProfile(t *testing.T) {
	provider := identity.NewMemoryProvider()
	m := newTestMachine(t, provider, newStubResolver(), time.Minute)

	id := provider.AddFederatedAccount("jane@example.com", "Jane Doe")
	provider.Emit(id)

	require.Eventually(t, func() bool {
		return m.Current().Status == StatusAuthenticated
	}, time.Second, 5*time.Millisecond)

	state := m.Current()
	require.NotNil(t, state.Profile)
	assert.Equal(t, id.UID, state.Profile.ID)
	assert.Equal(t, common.RoleResource, state.Profile.Role)
}

func TestMachineUnverifiedPasswordForcesSignOut(t *testing.T) {
	provider := identity.NewMemoryProvider()
	m := newTestMachine(t, provider, newStubResolver(), time.Minute)

	signedUp, err := provider.SignUpWithPassword(context.Background(), "new@example.com", "secret123")
	require.NoError(t, err)
	require.False(t, signedUp.EmailVerified)

	// Sign-in succeeds at the provider; the machine must reject the
	// unverified identity and force exactly one sign-out.
	_, err = provider.SignInWithPassword(context.Background(), "new@example.com", "secret123")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return m.Current().Status == StatusUnauthenticated
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, 1, provider.SignOuts[signedUp.UID])
	assert.Nil(t, m.Current().Profile)
}

func TestMachineVerifiedPasswordAuthenticates(t *testing.T) {
	provider := identity.NewMemoryProvider()
	m := newTestMachine(t, provider, newStubResolver(), time.Minute)

	signedUp, err := provider.SignUpWithPassword(context.Background(), "ok@example.com", "secret123")
	require.NoError(t, err)
	provider.MarkVerified("ok@example.com")

	_, err = provider.SignInWithPassword(context.Background(), "ok@example.com", "secret123")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return m.Current().Status == StatusAuthenticated
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, provider.SignOuts[signedUp.UID])
}

func TestMachineStaleResolutionDiscarded(t *testing.T) {
	provider := identity.NewMemoryProvider()
	resolver := newStubResolver()
	m := newTestMachine(t, provider, resolver, time.Minute)

	slow := &identity.Identity{UID: "slow-uid", Email: "slow@example.com", EmailVerified: true, AuthMethod: identity.AuthMethodFederated}
	fast := &identity.Identity{UID: "fast-uid", Email: "fast@example.com", EmailVerified: true, AuthMethod: identity.AuthMethodFederated}

	gate := resolver.blockUID(slow.UID)

	m.OnIdentityChanged(slow)
	m.OnIdentityChanged(fast)

	require.Eventually(t, func() bool {
		s := m.Current()
		return s.Status == StatusAuthenticated && s.Identity.UID == fast.UID
	}, time.Second, 5*time.Millisecond)

	// Let the stale lookup finish; it must not overwrite the newer state.
	close(gate)
	time.Sleep(50 * time.Millisecond)

	state := m.Current()
	assert.Equal(t, StatusAuthenticated, state.Status)
	assert.Equal(t, fast.UID, state.Identity.UID)
	assert.Equal(t, fast.UID, state.Profile.ID)
}

func TestMachineNilEventMeansUnauthenticated(t *testing.T) {
	m := newTestMachine(t, identity.NewMemoryProvider(), newStubResolver(), time.Minute)

	m.OnIdentityChanged(nil)

	require.Eventually(t, func() bool {
		return m.Current().Status == StatusUnauthenticated
	}, time.Second, 5*time.Millisecond)
}

func TestMachineReadyTimeout(t *testing.T) {
	m := newTestMachine(t, identity.NewMemoryProvider(), newStubResolver(), 20*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	state, err := m.AwaitReady(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusUnauthenticated, state.Status)
}

func TestMachineEventBeatsTimeout(t *testing.T) {
	provider := identity.NewMemoryProvider()
	m := newTestMachine(t, provider, newStubResolver(), time.Minute)

	id := provider.AddFederatedAccount("early@example.com", "Early Bird")
	provider.Emit(id)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	state, err := m.AwaitReady(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusAuthenticated, state.Status)
}

func TestMachineSubscribersObserveCommits(t *testing.T) {
	provider := identity.NewMemoryProvider()
	m := newTestMachine(t, provider, newStubResolver(), time.Minute)

	var mu sync.Mutex
	var seen []Status
	unsub := m.Subscribe(func(s State) {
		mu.Lock()
		seen = append(seen, s.Status)
		mu.Unlock()
	})
	defer unsub()

	id := provider.AddFederatedAccount("watch@example.com", "Watcher")
	provider.Emit(id)
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 1 && seen[0] == StatusAuthenticated
	}, time.Second, 5*time.Millisecond)

	provider.Emit(nil)
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 2 && seen[1] == StatusUnauthenticated
	}, time.Second, 5*time.Millisecond)
}

func TestMachineSubscribersObserveCommitsInInstallOrder(t *testing.T) {
	// Racing commits (a resolution finishing off the event path against a
	// nil event arriving right behind it) must never reach subscribers in
	// inverted order: the last delivered state is always the final state.
	for i := 0; i < 25; i++ {
		provider := identity.NewMemoryProvider()
		m := newTestMachine(t, provider, newStubResolver(), time.Minute)

		var mu sync.Mutex
		var last Status
		unsub := m.Subscribe(func(s State) {
			mu.Lock()
			last = s.Status
			mu.Unlock()
		})

		id := provider.AddFederatedAccount("race@example.com", "Racer")
		m.OnIdentityChanged(id)
		m.OnIdentityChanged(nil)

		require.Eventually(t, func() bool {
			return m.Current().Status == StatusUnauthenticated
		}, time.Second, time.Millisecond)
		require.Eventually(t, func() bool {
			mu.Lock()
			defer mu.Unlock()
			return last == StatusUnauthenticated
		}, time.Second, time.Millisecond)

		// Give any straggling delivery a chance to misfire.
		time.Sleep(5 * time.Millisecond)
		mu.Lock()
		assert.Equal(t, StatusUnauthenticated, last)
		mu.Unlock()

		unsub()
		m.Stop()
	}
}

func TestMachineStopDetachesFromProvider(t *testing.T) {
	provider := identity.NewMemoryProvider()
	m := newTestMachine(t, provider, newStubResolver(), time.Minute)

	id := provider.AddFederatedAccount("run@example.com", "Runner")
	provider.Emit(id)
	require.Eventually(t, func() bool {
		return m.Current().Status == StatusAuthenticated
	}, time.Second, 5*time.Millisecond)

	m.Stop()
	provider.Emit(nil)
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, StatusAuthenticated, m.Current().Status,
		"a stopped machine must not consume provider events")
}

func TestResolveTransientFailureSynthesizesProfile(t *testing.T) {
	resolver := newStubResolver()
	resolver.err = errors.New("store unavailable")

	id := &identity.Identity{UID: "uid-1", Email: "deg@example.com", DisplayName: "Deg Raded", EmailVerified: true, AuthMethod: identity.AuthMethodFederated}
	state := Resolve(context.Background(), id, resolver, zap.NewNop())

	require.Equal(t, StatusAuthenticated, state.Status)
	require.NotNil(t, state.Profile)
	assert.Equal(t, "uid-1", state.Profile.ID)
	assert.Equal(t, common.RoleResource, state.Profile.Role)
	assert.Equal(t, "Deg Raded", state.Profile.FullName)
}
