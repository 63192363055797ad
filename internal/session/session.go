// Package session keeps per-login state. Nothing here is persisted: closing a
// session drops every attempt it holds.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mind-engage/mindengage-quiz/internal/quiz"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

func (r Role) Valid() bool { return r == RoleAdmin || r == RoleStudent }

// DefaultStudentID is used when a student logs in without a name.
const DefaultStudentID = "Student"

type Clock func() time.Time

// Session is one login. Lock it around any read-then-transition of its
// attempts.
type Session struct {
	sync.Mutex

	ID        string
	Role      Role
	StudentID string
	CreatedAt time.Time

	attempts map[string]*quiz.Attempt
	lastSeen time.Time
}

// Attempt returns the attempt for quizID, creating a not_started one on first
// view. Callers must hold the session lock.
func (s *Session) Attempt(quizID string) *quiz.Attempt {
	a, ok := s.attempts[quizID]
	if !ok {
		a = quiz.NewAttempt(quizID, s.StudentID)
		s.attempts[quizID] = a
	}
	return a
}

// Attempts returns the live attempts keyed by quiz id. Callers must hold the
// session lock.
func (s *Session) Attempts() map[string]*quiz.Attempt { return s.attempts }

type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      Clock
	newID    func() string
}

func NewManager(now Clock) *Manager {
	if now == nil {
		now = time.Now
	}
	return &Manager{sessions: map[string]*Session{}, now: now, newID: uuid.NewString}
}

// Open starts a session. Students without a name get DefaultStudentID.
func (m *Manager) Open(role Role, studentID string) *Session {
	if role == RoleStudent && studentID == "" {
		studentID = DefaultStudentID
	}
	now := m.now()
	s := &Session{
		ID:        m.newID(),
		Role:      role,
		StudentID: studentID,
		CreatedAt: now,
		attempts:  map[string]*quiz.Attempt{},
		lastSeen:  now,
	}
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Get looks a session up and marks it as seen.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if ok {
		s.lastSeen = m.now()
	}
	return s, ok
}

// Close ends a session (logout) and discards its attempts.
func (m *Manager) Close(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	return ok
}

// Reap closes sessions not seen for longer than idle and returns how many.
func (m *Manager) Reap(idle time.Duration) int {
	if idle <= 0 {
		return 0
	}
	cutoff := m.now().Add(-idle)
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

// Each calls fn for a snapshot of the open sessions.
func (m *Manager) Each(fn func(*Session)) {
	m.mu.RLock()
	list := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		list = append(list, s)
	}
	m.mu.RUnlock()
	for _, s := range list {
		fn(s)
	}
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
