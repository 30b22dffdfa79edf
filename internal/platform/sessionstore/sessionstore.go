// Package sessionstore persists per-session key/value data for the
// portal: the auth token, role/permission payloads, the profile blob
// and intermediate onboarding state. Backends are interchangeable;
// deployments pick one via config.
package sessionstore

import "context"

// Keys written during login, onboarding and the onboarding steps.
// String-valued; the JSON-typed ones are parsed by their readers.
const (
	KeyAuthToken         = "authToken"
	KeyUserRoles         = "userRoles"
	KeyUserPermissions   = "userPermissions"
	KeyUser              = "user"
	KeySetupAuthToken    = "setupAuthToken"
	KeySetupEmployeeData = "setupEmployeeData"
	KeySetupUsername     = "setupUsername"
)

// Storage is a per-session string map with a TTL. Get returns an empty
// string for absent keys; only backend failures surface as errors.
// Writes refresh the session's expiry.
type Storage interface {
	Get(ctx context.Context, sid, key string) (string, error)
	Set(ctx context.Context, sid, key, value string) error
	Delete(ctx context.Context, sid string, keys ...string) error
	Clear(ctx context.Context, sid string) error
	Sweep(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
}

// Session binds a Storage to one session ID. It satisfies the
// authz.SessionData contract.
type Session struct {
	SID   string
	store Storage
}

func NewSession(sid string, store Storage) *Session {
	return &Session{SID: sid, store: store}
}

func (s *Session) Get(ctx context.Context, key string) (string, error) {
	return s.store.Get(ctx, s.SID, key)
}

func (s *Session) Set(ctx context.Context, key, value string) error {
	return s.store.Set(ctx, s.SID, key, value)
}

func (s *Session) Delete(ctx context.Context, keys ...string) error {
	return s.store.Delete(ctx, s.SID, keys...)
}

func (s *Session) Clear(ctx context.Context) error {
	return s.store.Clear(ctx, s.SID)
}

// Has reports whether key holds a non-empty value.
func (s *Session) Has(ctx context.Context, key string) bool {
	value, err := s.Get(ctx, key)
	return err == nil && value != ""
}
