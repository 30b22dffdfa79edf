package authz

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
)

// Persisted session keys owned by the store. SessionData.Get returns an
// empty string for absent keys; only backend failures are errors.
const (
	KeyAuthToken       = "authToken"
	KeyUserRoles       = "userRoles"
	KeyUserPermissions = "userPermissions"
	KeyUser            = "user"
)

type SessionData interface {
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, keys ...string) error
}

// Store holds the session identity plus its role and permission sets
// and answers membership queries. All mutation funnels through
// LoadFromSession and ClearAuthData; a load fully replaces prior state.
type Store struct {
	session SessionData

	mu       sync.RWMutex
	identity Identity
	roles    []string
	roleSet  map[string]struct{}
	permSet  map[string]struct{}
	subs     []func()
}

func NewStore(session SessionData) *Store {
	return &Store{
		session: session,
		roleSet: map[string]struct{}{},
		permSet: map[string]struct{}{},
	}
}

// HasRole reports membership in the Role Set. Case-sensitive, safe on
// an empty or never-loaded store.
func (s *Store) HasRole(role string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.roleSet[role]
	return ok
}

// HasPermission is a plain set-containment check, no wildcard or
// hierarchy semantics.
func (s *Store) HasPermission(permission string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.permSet[permission]
	return ok
}

// Roles returns the Role Set in load order.
func (s *Store) Roles() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.roles))
	copy(out, s.roles)
	return out
}

func (s *Store) Identity() Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

// LoadFromSession reads the persisted role/permission/profile keys and
// replaces the store's state. Malformed or absent values reset the
// affected part to empty rather than failing; corrupted session
// storage must never take down the portal. Only a storage backend
// failure is returned as an error, and even then the store is left in
// a valid empty state.
func (s *Store) LoadFromSession(ctx context.Context) error {
	identity := Identity{}
	var roles []string
	var perms []string

	rawRoles, err := s.session.Get(ctx, KeyUserRoles)
	if err != nil {
		s.replace(identity, nil, nil)
		return err
	}
	if rawRoles != "" {
		if unmarshalErr := json.Unmarshal([]byte(rawRoles), &roles); unmarshalErr != nil {
			slog.Warn("discarding malformed userRoles", "err", unmarshalErr)
			roles = nil
		}
	}

	rawPerms, err := s.session.Get(ctx, KeyUserPermissions)
	if err != nil {
		s.replace(identity, nil, nil)
		return err
	}
	if rawPerms != "" {
		if unmarshalErr := json.Unmarshal([]byte(rawPerms), &perms); unmarshalErr != nil {
			slog.Warn("discarding malformed userPermissions", "err", unmarshalErr)
			perms = nil
		}
	}

	rawUser, err := s.session.Get(ctx, KeyUser)
	if err != nil {
		s.replace(Identity{}, nil, nil)
		return err
	}
	if rawUser != "" {
		if unmarshalErr := json.Unmarshal([]byte(rawUser), &identity); unmarshalErr != nil {
			slog.Warn("discarding malformed user profile", "err", unmarshalErr)
			identity = Identity{}
		}
	}

	s.replace(identity, roles, perms)
	s.notify()
	return nil
}

// ClearAuthData wipes persisted and in-memory identity, role and
// permission data. Idempotent.
func (s *Store) ClearAuthData(ctx context.Context) error {
	err := s.session.Delete(ctx, KeyAuthToken, KeyUserRoles, KeyUserPermissions, KeyUser)
	s.replace(Identity{}, nil, nil)
	s.notify()
	return err
}

// Subscribe registers fn to run after every completed load or clear.
// Not safe to call concurrently with load/clear; wire subscriptions up
// front.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *Store) replace(identity Identity, roles, perms []string) {
	roleSet := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		roleSet[r] = struct{}{}
	}
	permSet := make(map[string]struct{}, len(perms))
	for _, p := range perms {
		permSet[p] = struct{}{}
	}

	s.mu.Lock()
	s.identity = identity
	s.roles = roles
	s.roleSet = roleSet
	s.permSet = permSet
	s.mu.Unlock()
}

func (s *Store) notify() {
	s.mu.RLock()
	subs := make([]func(), len(s.subs))
	copy(subs, s.subs)
	s.mu.RUnlock()
	for _, fn := range subs {
		fn()
	}
}
