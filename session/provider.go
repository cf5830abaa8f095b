// Package session holds the client-side session state: an observable
// provider exposing the current authentication phase, and the route guard
// decisions derived from it.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/mindpath-app/mindpath/auth"
)

// Phase is the session provider's derived state
type Phase int

const (
	// PhaseLoading means the initial session check has not resolved yet
	PhaseLoading Phase = iota
	// PhaseAuthenticated means an identity is present
	PhaseAuthenticated
	// PhaseUnauthenticated means no identity is present
	PhaseUnauthenticated
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseAuthenticated:
		return "authenticated"
	case PhaseUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// ErrAlreadyAuthenticated is returned by Login while a session is active.
// At most one session exists per provider.
var ErrAlreadyAuthenticated = errors.New("session: already authenticated")

// Snapshot is a consistent view of the provider state
type Snapshot struct {
	Phase    Phase
	Identity *auth.Identity
}

// AuthClient is the API surface the provider mutates session state
// through. Session returns nil without error when no session exists.
type AuthClient interface {
	SignIn(ctx context.Context, identifier, password string) (auth.Identity, error)
	SignOut(ctx context.Context) error
	Session(ctx context.Context) (*auth.Identity, error)
}

// Provider is the shared observable session object. It is the only writer
// of session state; consumers read snapshots or subscribe to changes.
type Provider struct {
	client AuthClient

	mu       sync.RWMutex
	phase    Phase
	identity *auth.Identity
	subs     map[int]func(Snapshot)
	nextSub  int
}

// NewProvider creates a provider in the loading phase
func NewProvider(client AuthClient) *Provider {
	return &Provider{
		client: client,
		phase:  PhaseLoading,
		subs:   make(map[int]func(Snapshot)),
	}
}

// Snapshot returns the current phase and identity
func (p *Provider) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return Snapshot{Phase: p.phase, Identity: p.identity}
}

// Subscribe registers a callback invoked on every state change.
// Returns an unsubscribe function.
func (p *Provider) Subscribe(fn func(Snapshot)) func() {
	p.mu.Lock()
	id := p.nextSub
	p.nextSub++
	p.subs[id] = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.subs, id)
		p.mu.Unlock()
	}
}

// Init performs the one-time session check, resolving the loading phase.
// A failed check resolves to unauthenticated; the caller may Refresh later.
func (p *Provider) Init(ctx context.Context) {
	identity, err := p.client.Session(ctx)
	if err != nil || identity == nil {
		p.set(PhaseUnauthenticated, nil)
		return
	}
	p.set(PhaseAuthenticated, identity)
}

// Login authenticates and transitions to the authenticated phase.
// On failure the phase is unchanged and the error names the kind.
func (p *Provider) Login(ctx context.Context, identifier, password string) error {
	p.mu.RLock()
	authenticated := p.phase == PhaseAuthenticated
	p.mu.RUnlock()
	if authenticated {
		return ErrAlreadyAuthenticated
	}

	identity, err := p.client.SignIn(ctx, identifier, password)
	if err != nil {
		return err
	}

	p.set(PhaseAuthenticated, &identity)
	return nil
}

// Logout clears session state and then notifies subscribers, so any
// dependent redirect observes an already-cleared session.
func (p *Provider) Logout(ctx context.Context) error {
	err := p.client.SignOut(ctx)
	p.set(PhaseUnauthenticated, nil)
	return err
}

// Refresh re-checks the session, picking up server-side expiry
func (p *Provider) Refresh(ctx context.Context) {
	identity, err := p.client.Session(ctx)
	if err != nil || identity == nil {
		p.set(PhaseUnauthenticated, nil)
		return
	}
	p.set(PhaseAuthenticated, identity)
}

// set updates state and notifies subscribers outside the lock
func (p *Provider) set(phase Phase, identity *auth.Identity) {
	p.mu.Lock()
	p.phase = phase
	p.identity = identity
	snapshot := Snapshot{Phase: phase, Identity: identity}
	subs := make([]func(Snapshot), 0, len(p.subs))
	for _, fn := range p.subs {
		subs = append(subs, fn)
	}
	p.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}
