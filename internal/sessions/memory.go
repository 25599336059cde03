package sessions

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	state   State
	expires time.Time
}

// Memory is a process-local Registry.
type Memory struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

// NewMemory creates an in-process registry. Expired entries are dropped
// lazily on access and on Create.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

func (m *Memory) Create(_ context.Context, st State) (string, State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.purgeLocked(now)

	token := newToken()
	st.Version = 1
	st.CreatedAt = now
	st.UpdatedAt = now
	m.entries[token] = memoryEntry{state: st, expires: now.Add(m.ttl)}
	return token, st, nil
}

func (m *Memory) Get(_ context.Context, token string) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[token]
	if !ok || !m.now().Before(e.expires) {
		delete(m.entries, token)
		return State{}, notFound(token)
	}
	return e.state, nil
}

func (m *Memory) Put(_ context.Context, token string, st State) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	e, ok := m.entries[token]
	if !ok || !now.Before(e.expires) {
		delete(m.entries, token)
		return State{}, notFound(token)
	}
	if e.state.Version != st.Version {
		return State{}, conflict(token)
	}

	st.Version++
	st.CreatedAt = e.state.CreatedAt
	st.UpdatedAt = now
	m.entries[token] = memoryEntry{state: st, expires: now.Add(m.ttl)}
	return st, nil
}

func (m *Memory) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, token)
	return nil
}

// Len returns the number of live entries.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.purgeLocked(m.now())
	return len(m.entries)
}

func (m *Memory) Close() error { return nil }

func (m *Memory) purgeLocked(now time.Time) {
	for token, e := range m.entries {
		if !now.Before(e.expires) {
			delete(m.entries, token)
		}
	}
}
