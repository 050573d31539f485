package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fortressguard/fortress/console"
)

// SessionCookie carries the browser's session id.
const SessionCookie = "fg_session"

type session struct {
	console  *console.Console
	lastSeen time.Time
}

// SessionStore gives every browser its own Console so lane state is never
// shared between users. Idle sessions expire after ttl; when max is reached
// the least recently used session is evicted.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
	max      int
	now      func() time.Time
	factory  func() *console.Console
}

func NewSessionStore(factory func() *console.Console, ttl time.Duration, max int) *SessionStore {
	return &SessionStore{
		sessions: map[string]*session{},
		ttl:      ttl,
		max:      max,
		now:      time.Now,
		factory:  factory,
	}
}

// Get returns the console for id, creating a session when id is unknown,
// expired or not a valid session id. The returned id is the one to hand
// back to the client.
func (s *SessionStore) Get(id string) (string, *console.Console) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.pruneLocked(now)

	if _, err := uuid.Parse(id); err == nil {
		if sess, ok := s.sessions[id]; ok {
			sess.lastSeen = now
			return id, sess.console
		}
	}

	if s.max > 0 && len(s.sessions) >= s.max {
		s.evictOldestLocked()
	}

	id = uuid.NewString()
	sess := &session{console: s.factory(), lastSeen: now}
	s.sessions[id] = sess
	return id, sess.console
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// TTL is how long an idle session survives.
func (s *SessionStore) TTL() time.Duration {
	return s.ttl
}

func (s *SessionStore) pruneLocked(now time.Time) {
	if s.ttl <= 0 {
		return
	}
	for id, sess := range s.sessions {
		if now.Sub(sess.lastSeen) > s.ttl {
			delete(s.sessions, id)
		}
	}
}

func (s *SessionStore) evictOldestLocked() {
	var (
		oldestID string
		oldest   time.Time
	)
	for id, sess := range s.sessions {
		if oldestID == "" || sess.lastSeen.Before(oldest) {
			oldestID, oldest = id, sess.lastSeen
		}
	}
	delete(s.sessions, oldestID)
}
