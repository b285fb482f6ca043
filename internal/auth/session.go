package auth

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"
)

// CookieName is the session cookie used by the web layer.
const CookieName = "shopfloor_session"

// DefaultTTL is how long a session stays valid without re-login.
const DefaultTTL = 12 * time.Hour

// Session ties an opaque token to a logged-in user.
type Session struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
}

// SessionStore keeps sessions in memory. Sessions do not survive a restart;
// users simply log in again.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionStore creates a store with the given session lifetime.
func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &SessionStore{
		sessions: make(map[string]Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create issues a new session token for the user.
func (s *SessionStore) Create(userID string) (Session, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return Session{}, err
	}
	sess := Session{
		Token:     hex.EncodeToString(buf),
		UserID:    userID,
		ExpiresAt: s.now().Add(s.ttl),
	}
	s.mu.Lock()
	s.sessions[sess.Token] = sess
	s.mu.Unlock()
	return sess, nil
}

// Get returns the session for a token if it exists and has not expired.
// Expired sessions are removed on access.
func (s *SessionStore) Get(token string) (Session, bool) {
	s.mu.RLock()
	sess, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return Session{}, false
	}
	if s.now().After(sess.ExpiresAt) {
		s.Delete(token)
		return Session{}, false
	}
	return sess, true
}

// Delete removes a session (logout).
func (s *SessionStore) Delete(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// DeleteForUser removes every session belonging to a user, e.g. after the
// account is deleted or deactivated.
func (s *SessionStore) DeleteForUser(userID string) {
	s.mu.Lock()
	for token, sess := range s.sessions {
		if sess.UserID == userID {
			delete(s.sessions, token)
		}
	}
	s.mu.Unlock()
}
