// Package session manages in-memory cart sessions. Each session owns one
// cart controller and models "one screen instance at a time": mutations on a
// session are serialized by its lock, so every observed summary reflects the
// latest mutation. Sessions are ephemeral and never persisted.
package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/nossoguia/guia-compras/internal/domain/cart"
)

// Session binds a cart controller to an identifier and an idle timer.
type Session struct {
	ID string

	mu       sync.Mutex
	ctrl     *cart.Controller
	lastSeen atomic.Int64 // unix nanos, written on every Do
}

// Do runs fn with exclusive access to the session's controller and marks the
// session as recently used. The controller must not escape fn.
func (s *Session) Do(fn func(c *cart.Controller) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen.Store(time.Now().UnixNano())
	return fn(s.ctrl)
}

// Manager hands out sessions and evicts the ones idle past the TTL.
type Manager struct {
	ttl           time.Duration
	newController func() *cart.Controller

	mu       sync.RWMutex
	sessions map[string]*Session

	cancel context.CancelFunc
	done   chan struct{}
}

// NewManager creates a Manager. newController builds the controller for each
// fresh session (the caller injects the checkout submitter there).
func NewManager(ttl time.Duration, newController func() *cart.Controller) *Manager {
	return &Manager{
		ttl:           ttl,
		newController: newController,
		sessions:      make(map[string]*Session),
	}
}

// Create registers a new empty session and returns it.
func (m *Manager) Create() *Session {
	s := &Session{
		ID:   uuid.New().String(),
		ctrl: m.newController(),
	}
	s.lastSeen.Store(time.Now().UnixNano())

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Get returns the session with the given ID, or false if it does not exist
// or has already been evicted.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	return s, ok
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Start launches the background janitor that evicts idle sessions every
// interval. It stops when ctx is cancelled or Stop is called.
func (m *Manager) Start(ctx context.Context, interval time.Duration) {
	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.done = make(chan struct{})

	go func() {
		defer close(m.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				m.sweep(now)
			}
		}
	}()
}

// Stop terminates the janitor and waits for it to exit.
func (m *Manager) Stop() {
	if m.cancel == nil {
		return
	}
	m.cancel()
	<-m.done
}

// sweep removes sessions whose last use is older than the TTL.
func (m *Manager) sweep(now time.Time) {
	cutoff := now.Add(-m.ttl).UnixNano()

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		if s.lastSeen.Load() < cutoff {
			delete(m.sessions, id)
		}
	}
}
