// Package session holds the per-browser-session state: the current plant
// context and the locally displayed chat history. State is explicit (created
// at session start and threaded through handlers) rather than ambient, and
// mutex-guarded because sessions arrive over HTTP even though each session
// has a single foreground flow of control.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ysalama/plantdoc/internal/domain"
)

// sessionTTL is how long an idle session survives. Sessions are created by
// unauthenticated requests, so the map must not grow without bound.
const sessionTTL = 24 * time.Hour

type Session struct {
	ID        string
	CreatedAt time.Time

	// lastSeen is guarded by the Manager's mutex, not the Session's.
	lastSeen time.Time

	mu       sync.Mutex
	context  *domain.PlantContext
	chat     []domain.ChatMessage
	photoKey string
}

// PhotoKey returns the storage key of the most recently uploaded photo.
func (s *Session) PhotoKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.photoKey
}

func (s *Session) SetPhotoKey(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.photoKey = key
}

// Context returns a copy of the current plant context, or nil when no plant
// has been identified yet.
func (s *Session) Context() *domain.PlantContext {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.context == nil {
		return nil
	}
	c := *s.context
	return &c
}

// SetContext replaces the plant context. A new identification silently
// overwrites the previous one.
func (s *Session) SetContext(c *domain.PlantContext) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.context = c
}

func (s *Session) ClearContext() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.context = nil
}

// AppendChat adds a message to the end of the history. Messages are never
// mutated or reordered after append.
func (s *Session) AppendChat(role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chat = append(s.chat, domain.ChatMessage{Role: role, Content: content})
}

// Chat returns a copy of the full history in chronological order.
func (s *Session) Chat() []domain.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ChatMessage, len(s.chat))
	copy(out, s.chat)
	return out
}

func (s *Session) ClearChat() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chat = nil
}

// Manager tracks live sessions by id. Sessions idle longer than the TTL are
// dropped: lazily on lookup, and swept whenever a new session is created.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		ttl:      sessionTTL,
		now:      time.Now,
	}
}

// Create starts a new session with a fresh id, evicting expired sessions
// while it holds the lock.
func (m *Manager) Create() *Session {
	now := m.now()
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		lastSeen:  now,
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evictExpired(now)
	m.sessions[s.ID] = s
	return s
}

// Get returns the session for id, or nil when unknown or expired. A hit
// refreshes the session's idle clock.
func (m *Manager) Get(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.sessions[id]
	if s == nil {
		return nil
	}
	now := m.now()
	if now.Sub(s.lastSeen) > m.ttl {
		delete(m.sessions, id)
		return nil
	}
	s.lastSeen = now
	return s
}

func (m *Manager) evictExpired(now time.Time) {
	for id, s := range m.sessions {
		if now.Sub(s.lastSeen) > m.ttl {
			delete(m.sessions, id)
		}
	}
}

// GetOrCreate returns the session for id, creating a new one when the id is
// unknown or empty (e.g. an expired cookie).
func (m *Manager) GetOrCreate(id string) *Session {
	if id != "" {
		if s := m.Get(id); s != nil {
			return s
		}
	}
	return m.Create()
}
