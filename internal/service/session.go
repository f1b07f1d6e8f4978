package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is the explicit per-login state: who is acting, whether they are
// the admin, which thread they have open and their image slider positions.
type Session struct {
	Token     string
	Username  string
	Admin     bool
	CreatedAt time.Time

	mu      sync.Mutex
	viewing string
	slides  map[string]int
}

// ViewingThread returns the username of the thread the session has open, if any
func (s *Session) ViewingThread() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewing
}

func (s *Session) setViewing(thread string) {
	s.mu.Lock()
	s.viewing = thread
	s.mu.Unlock()
}

// moveSlide shifts the slider for productID by delta, wrapping over n images
func (s *Session) moveSlide(productID string, delta, n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.slides == nil {
		s.slides = make(map[string]int)
	}
	pos := ((s.slides[productID]+delta)%n + n) % n
	s.slides[productID] = pos
	return pos
}

// SessionManager owns every live session
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionManager creates an empty session registry
func NewSessionManager() *SessionManager {
	return &SessionManager{sessions: make(map[string]*Session)}
}

func (m *SessionManager) start(username string, admin bool) *Session {
	sess := &Session{
		Token:     uuid.New().String(),
		Username:  username,
		Admin:     admin,
		CreatedAt: time.Now(),
	}

	m.mu.Lock()
	m.sessions[sess.Token] = sess
	m.mu.Unlock()
	return sess
}

// Get returns the session for token
func (m *SessionManager) Get(token string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[token]
	return sess, ok
}

// End removes the session for token; false if it was not live
func (m *SessionManager) End(token string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[token]; !ok {
		return false
	}
	delete(m.sessions, token)
	return true
}

// IsViewingOwnThread reports whether any customer session of username has its thread open
func (m *SessionManager) IsViewingOwnThread(username string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, sess := range m.sessions {
		if !sess.Admin && sess.Username == username && sess.ViewingThread() == username {
			return true
		}
	}
	return false
}
