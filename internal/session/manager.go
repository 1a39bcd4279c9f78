package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

const defaultTTL = 2 * time.Hour

type entry struct {
	store     *Store
	expiresAt time.Time
}

// Manager owns every open Store, keyed by an opaque session id. A Store lives until
// it is closed or its expiry passes; expired Stores are logged out and dropped.
type Manager struct {
	mu      sync.RWMutex
	users   UserStore
	ttl     time.Duration
	now     func() time.Time
	entries map[string]entry
}

func NewManager(users UserStore, ttl time.Duration) *Manager {
	return NewManagerWithClock(users, ttl, time.Now)
}

func NewManagerWithClock(users UserStore, ttl time.Duration, now func() time.Time) *Manager {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Manager{
		users:   users,
		ttl:     ttl,
		now:     now,
		entries: make(map[string]entry),
	}
}

// Open starts a fresh anonymous session that expires after the manager's TTL.
func (m *Manager) Open() (string, *Store) {
	id := uuid.NewString()
	st := NewStore(m.users)

	m.mu.Lock()
	m.entries[id] = entry{store: st, expiresAt: m.now().Add(m.ttl)}
	m.mu.Unlock()

	return id, st
}

// Get returns the session's Store. An expired session is dropped and reported missing.
func (m *Manager) Get(id string) (*Store, bool) {
	m.mu.RLock()
	e, ok := m.entries[id]
	m.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if !m.now().Before(e.expiresAt) {
		m.expire(id, e)
		return nil, false
	}
	return e.store, true
}

// Extend moves the session's expiry to until, usually the expiry of a freshly issued token.
func (m *Manager) Extend(id string, until time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.entries[id]; ok {
		e.expiresAt = until
		m.entries[id] = e
	}
}

// Close logs the session out and forgets it.
func (m *Manager) Close(id string) {
	m.mu.Lock()
	e, ok := m.entries[id]
	delete(m.entries, id)
	m.mu.Unlock()

	if ok {
		e.store.Logout()
	}
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Sweep drops every expired session and returns how many remain.
func (m *Manager) Sweep() int {
	now := m.now()

	m.mu.Lock()
	var expired []*Store
	for id, e := range m.entries {
		if !now.Before(e.expiresAt) {
			expired = append(expired, e.store)
			delete(m.entries, id)
		}
	}
	left := len(m.entries)
	m.mu.Unlock()

	for _, st := range expired {
		st.Logout()
	}
	return left
}

// RunSweeper sweeps every interval until ctx is done. onSweep, when set, receives
// the number of sessions still open after each pass.
func (m *Manager) RunSweeper(ctx context.Context, interval time.Duration, onSweep func(open int)) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			left := m.Sweep()
			if onSweep != nil {
				onSweep(left)
			}
		}
	}
}

func (m *Manager) expire(id string, seen entry) {
	m.mu.Lock()
	e, ok := m.entries[id]
	// Extend may have raced us
	drop := ok && e.expiresAt.Equal(seen.expiresAt)
	if drop {
		delete(m.entries, id)
	}
	m.mu.Unlock()

	if drop {
		e.store.Logout()
	}
}
