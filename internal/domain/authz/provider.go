package authz

import (
	"context"
	"fmt"
)

type State int

const (
	StateUninitialized State = iota
	StateLoaded
	StateCleared
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoaded:
		return "loaded"
	case StateCleared:
		return "cleared"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Provider is the session-lifetime access point to the Store. It is
// constructed and injected explicitly rather than held as a global,
// and it enforces the uninitialized -> loaded -> cleared lifecycle:
// queries are pure between transitions, a reload fully replaces state,
// and only a fresh login moves a cleared provider back to loaded.
type Provider struct {
	store *Store
	state State
}

func NewProvider(store *Store) *Provider {
	return &Provider{store: store, state: StateUninitialized}
}

// Init performs the one synchronous load that must complete before any
// guard or page consults the provider.
func (p *Provider) Init(ctx context.Context) error {
	if p.state != StateUninitialized {
		return fmt.Errorf("authz: init from %s state", p.state)
	}
	if err := p.store.LoadFromSession(ctx); err != nil {
		return err
	}
	p.state = StateLoaded
	return nil
}

// Reload re-reads session data after login or onboarding completion
// has written fresh keys. Valid from loaded or cleared state; always a
// full replace, never a merge.
func (p *Provider) Reload(ctx context.Context) error {
	if p.state == StateUninitialized {
		return fmt.Errorf("authz: reload before init")
	}
	if err := p.store.LoadFromSession(ctx); err != nil {
		return err
	}
	p.state = StateLoaded
	return nil
}

// Clear tears auth state down on logout or an expired session.
// Idempotent.
func (p *Provider) Clear(ctx context.Context) error {
	err := p.store.ClearAuthData(ctx)
	p.state = StateCleared
	return err
}

func (p *Provider) State() State { return p.state }

func (p *Provider) HasRole(role string) bool { return p.store.HasRole(role) }

func (p *Provider) HasPermission(permission string) bool {
	return p.store.HasPermission(permission)
}

func (p *Provider) Roles() []string { return p.store.Roles() }

func (p *Provider) Identity() Identity { return p.store.Identity() }
