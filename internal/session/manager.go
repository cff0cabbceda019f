package session

import (
	"errors"
	"sync"
	"time"

	"signage-portal/internal/cart"
	"signage-portal/internal/support"
	"signage-portal/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrSessionNotFound is returned for unknown or expired session ids
var ErrSessionNotFound = errors.New("session not found")

// Session is one visitor's mutable state. Access it only inside WithSession.
type Session struct {
	ID   string
	Cart *cart.Cart
	Chat *support.Chat

	mu       sync.Mutex
	lastSeen time.Time
}

// Options configures a Manager
type Options struct {
	IdleTTL       time.Duration
	SweepInterval time.Duration
	// Responder answers support chat messages; nil uses canned replies
	Responder support.Responder
}

// Manager creates, finds and expires sessions. It is safe for concurrent use.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	opts     Options
	now      func() time.Time
	logger   *zap.Logger

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// NewManager starts a manager and its expiry janitor; call Close to stop it.
// A zero IdleTTL disables expiry.
func NewManager(opts Options) *Manager {
	m := &Manager{
		sessions: make(map[string]*Session),
		opts:     opts,
		now:      time.Now,
		logger:   util.GetLogger().Named("session"),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}

	if opts.IdleTTL > 0 {
		if m.opts.SweepInterval <= 0 {
			m.opts.SweepInterval = time.Minute
		}
		go m.janitor()
	} else {
		close(m.done)
	}

	return m
}

// Create opens a new session with an empty cart and a fresh chat
func (m *Manager) Create() *Session {
	s := &Session{
		ID:       uuid.New().String(),
		Cart:     cart.New(),
		Chat:     support.NewChat(m.opts.Responder),
		lastSeen: m.now(),
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	count := len(m.sessions)
	m.mu.Unlock()

	util.ActiveSessions.Set(float64(count))
	m.logger.Debug("Session created", zap.String("session_id", s.ID))

	return s
}

// Exists reports whether id names a live session
func (m *Manager) Exists(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.sessions[id]
	return ok
}

// GetOrCreate returns the session for id, or a new one when id is unknown
func (m *Manager) GetOrCreate(id string) (*Session, bool) {
	if id != "" {
		m.mu.RLock()
		s, ok := m.sessions[id]
		m.mu.RUnlock()
		if ok {
			return s, false
		}
	}
	return m.Create(), true
}

// WithSession runs fn while holding the session's lock and refreshes its
// idle timer. Requests within one session are serialized.
func (m *Manager) WithSession(id string, fn func(*Session) error) error {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return ErrSessionNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastSeen = m.now()
	return fn(s)
}

// End tears down a session and discards its cart and chat
func (m *Manager) End(id string) error {
	m.mu.Lock()
	_, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	count := len(m.sessions)
	m.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}

	util.ActiveSessions.Set(float64(count))
	m.logger.Debug("Session ended", zap.String("session_id", id))
	return nil
}

// Len returns the number of live sessions
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep removes sessions idle for longer than IdleTTL and returns how many
func (m *Manager) Sweep() int {
	if m.opts.IdleTTL <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.opts.IdleTTL)

	m.mu.Lock()
	var expired []string
	for id, s := range m.sessions {
		s.mu.Lock()
		idle := s.lastSeen.Before(cutoff)
		s.mu.Unlock()
		if idle {
			delete(m.sessions, id)
			expired = append(expired, id)
		}
	}
	count := len(m.sessions)
	m.mu.Unlock()

	if len(expired) > 0 {
		util.ActiveSessions.Set(float64(count))
		util.SessionsExpiredTotal.Add(float64(len(expired)))
		m.logger.Info("Expired idle sessions", zap.Int("count", len(expired)))
	}

	return len(expired)
}

// Close stops the janitor. Sessions are kept.
func (m *Manager) Close() {
	m.once.Do(func() { close(m.stop) })
	<-m.done
}

func (m *Manager) janitor() {
	defer close(m.done)

	ticker := time.NewTicker(m.opts.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}
