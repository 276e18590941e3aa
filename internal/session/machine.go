// File: internal/session/machine.go
package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"skills_portfolio_backend/internal/identity"
)

// Machine tracks the session state for a stream of identity-change events.
//
// Events are consumed strictly in arrival order. Each event advances a
// generation counter; a profile lookup started for an older generation is
// discarded at commit time, so a slow lookup can never overwrite the state
// produced by a newer event.
type Machine struct {
	provider identity.Provider
	resolver ProfileResolver
	logger   *zap.Logger

	readyTimeout time.Duration

	mu          sync.Mutex
	state       State
	gen         uint64
	readyTimer  *time.Timer
	unsubscribe func()
	subs        map[int]func(State)
	nextSub     int

	pending   []State
	notifying bool

	ready     chan struct{}
	readyOnce sync.Once
}

// NewMachine creates a session machine in the unknown state. Call Start to
// subscribe it to the provider and arm the readiness timeout.
func NewMachine(provider identity.Provider, resolver ProfileResolver, readyTimeout time.Duration, logger *zap.Logger) *Machine {
	return &Machine{
		provider:     provider,
		resolver:     resolver,
		logger:       logger.Named("session.machine"),
		readyTimeout: readyTimeout,
		state:        State{Status: StatusUnknown},
		subs:         make(map[int]func(State)),
		ready:        make(chan struct{}),
	}
}

// Start subscribes the machine to provider events and arms the bounded
// unknown timeout. If the provider never reports within the timeout, the
// machine commits unauthenticated.
func (m *Machine) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.unsubscribe != nil {
		return
	}
	m.unsubscribe = m.provider.Subscribe(m.OnIdentityChanged)
	m.readyTimer = time.AfterFunc(m.readyTimeout, m.onReadyTimeout)
}

// Stop unsubscribes from the provider and stops the readiness timer.
func (m *Machine) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
	if m.readyTimer != nil {
		m.readyTimer.Stop()
	}
}

// OnIdentityChanged consumes one identity-change event. It is the
// provider subscription callback, and may also be invoked directly.
func (m *Machine) OnIdentityChanged(id *identity.Identity) {
	m.mu.Lock()
	m.gen++
	gen := m.gen
	m.mu.Unlock()

	if id == nil {
		m.commit(gen, State{Status: StatusUnauthenticated})
		return
	}

	if id.AuthMethod == identity.AuthMethodPassword && !id.EmailVerified {
		m.commit(gen, State{Status: StatusPendingVerification, Identity: id})
		// Force a sign-out for this occurrence. The provider will emit a
		// nil event, which lands the machine in unauthenticated.
		go func() {
			if err := m.provider.SignOut(context.Background(), id.UID); err != nil {
				m.logger.Error("Forced sign-out of unverified identity failed",
					zap.String("uid", id.UID), zap.Error(err))
			} else {
				m.logger.Info("Signed out unverified password identity",
					zap.String("uid", id.UID))
			}
		}()
		return
	}

	// Profile resolution runs off the event path so a slow store cannot
	// stall later events. The generation check at commit discards it if a
	// newer event has arrived meanwhile.
	go func() {
		next := Resolve(context.Background(), id, m.resolver, m.logger)
		m.commit(gen, next)
	}()
}

// commit installs a state produced for generation gen, unless a newer
// event has superseded it. Subscribers observe every installed state.
func (m *Machine) commit(gen uint64, next State) {
	m.mu.Lock()
	if gen != m.gen {
		m.mu.Unlock()
		m.logger.Debug("Discarded superseded session state",
			zap.Uint64("generation", gen),
			zap.String("status", string(next.Status)))
		return
	}
	m.state = next
	if m.readyTimer != nil {
		m.readyTimer.Stop()
	}
	// Queue the notification while still holding the lock, so the queue
	// order is the install order even when two commits race.
	m.pending = append(m.pending, next)
	if m.notifying {
		m.mu.Unlock()
		return
	}
	m.notifying = true
	m.mu.Unlock()

	m.flush()
}

// flush drains the notification queue. A single goroutine flushes at a
// time, so subscribers always observe commits in install order.
func (m *Machine) flush() {
	for {
		m.mu.Lock()
		if len(m.pending) == 0 {
			m.notifying = false
			m.mu.Unlock()
			return
		}
		next := m.pending[0]
		m.pending = m.pending[1:]
		callbacks := make([]func(State), 0, len(m.subs))
		for i := 0; i < m.nextSub; i++ {
			if cb, ok := m.subs[i]; ok {
				callbacks = append(callbacks, cb)
			}
		}
		m.mu.Unlock()

		if next.Status != StatusUnknown {
			m.readyOnce.Do(func() { close(m.ready) })
		}
		for _, cb := range callbacks {
			cb(next)
		}
	}
}

// onReadyTimeout fires when no event arrived within the readiness window.
func (m *Machine) onReadyTimeout() {
	m.mu.Lock()
	if m.gen != 0 || m.state.Status != StatusUnknown {
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	m.logger.Warn("Identity provider did not report within the readiness window; treating session as unauthenticated",
		zap.Duration("timeout", m.readyTimeout))
	// Generation 0: any real event that races this commit supersedes it.
	m.commit(0, State{Status: StatusUnauthenticated})
}

// Current returns the machine's current state.
func (m *Machine) Current() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// AwaitReady blocks until the machine leaves the unknown state for the
// first time, or the context is done.
func (m *Machine) AwaitReady(ctx context.Context) (State, error) {
	select {
	case <-m.ready:
		return m.Current(), nil
	case <-ctx.Done():
		return m.Current(), ctx.Err()
	}
}

// Subscribe registers a callback invoked on every committed state change.
func (m *Machine) Subscribe(callback func(State)) func() {
	m.mu.Lock()
	key := m.nextSub
	m.nextSub++
	m.subs[key] = callback
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, key)
		m.mu.Unlock()
	}
}
