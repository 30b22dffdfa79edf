package sessionstore

import (
	"context"
	"sync"
	"time"
)

// Memory keeps sessions in process memory. Used for development and
// tests; state is lost on restart.
type Memory struct {
	ttl time.Duration
	now func() time.Time

	mu       sync.Mutex
	sessions map[string]*memorySession
}

type memorySession struct {
	values   map[string]string
	lastSeen time.Time
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:      ttl,
		now:      time.Now,
		sessions: map[string]*memorySession{},
	}
}

func (m *Memory) Get(ctx context.Context, sid, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[sid]
	if !ok || m.expired(session) {
		return "", nil
	}
	session.lastSeen = m.now()
	return session.values[key], nil
}

func (m *Memory) Set(ctx context.Context, sid, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[sid]
	if !ok || m.expired(session) {
		session = &memorySession{values: map[string]string{}}
		m.sessions[sid] = session
	}
	session.values[key] = value
	session.lastSeen = m.now()
	return nil
}

func (m *Memory) Delete(ctx context.Context, sid string, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[sid]
	if !ok {
		return nil
	}
	for _, key := range keys {
		delete(session.values, key)
	}
	return nil
}

func (m *Memory) Clear(ctx context.Context, sid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sid)
	return nil
}

func (m *Memory) Sweep(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for sid, session := range m.sessions {
		if m.expired(session) {
			delete(m.sessions, sid)
			removed++
		}
	}
	return removed, nil
}

func (m *Memory) Ping(ctx context.Context) error { return nil }

func (m *Memory) expired(session *memorySession) bool {
	return m.ttl > 0 && m.now().Sub(session.lastSeen) > m.ttl
}
