package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mind-engage/mindengage-quiz/internal/quiz"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func TestManager_OpenGetClose(t *testing.T) {
	clk := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	m := NewManager(clk.Now)

	s := m.Open(RoleStudent, "")
	require.Equal(t, DefaultStudentID, s.StudentID)
	require.NotEmpty(t, s.ID)

	got, ok := m.Get(s.ID)
	require.True(t, ok)
	require.Same(t, s, got)

	require.True(t, m.Close(s.ID))
	_, ok = m.Get(s.ID)
	require.False(t, ok)
	require.False(t, m.Close(s.ID))
}

func TestSession_AttemptIsCreatedOnceAndDroppedOnLogout(t *testing.T) {
	m := NewManager(nil)
	s := m.Open(RoleStudent, "ada")

	s.Lock()
	a := s.Attempt("quiz_x")
	require.Equal(t, quiz.StatusNotStarted, a.Status)
	require.Equal(t, "ada", a.StudentID)
	require.NoError(t, a.Start(time.Now()))
	require.Same(t, a, s.Attempt("quiz_x"))
	s.Unlock()

	m.Close(s.ID)

	// a new login starts from scratch
	s2 := m.Open(RoleStudent, "ada")
	s2.Lock()
	defer s2.Unlock()
	require.Equal(t, quiz.StatusNotStarted, s2.Attempt("quiz_x").Status)
}

func TestManager_Reap(t *testing.T) {
	clk := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	m := NewManager(clk.Now)
	stale := m.Open(RoleAdmin, "")
	fresh := m.Open(RoleStudent, "")

	clk.t = clk.t.Add(20 * time.Minute)
	_, ok := m.Get(fresh.ID)
	require.True(t, ok)

	clk.t = clk.t.Add(20 * time.Minute)
	require.Equal(t, 1, m.Reap(30*time.Minute))
	_, ok = m.Get(stale.ID)
	require.False(t, ok)
	require.Equal(t, 1, m.Len())

	require.Zero(t, m.Reap(0))
}

func TestRoleValid(t *testing.T) {
	require.True(t, RoleAdmin.Valid())
	require.True(t, RoleStudent.Valid())
	require.False(t, Role("teacher").Valid())
}
