// Package sessionmgr decides when an authenticated session is still alive.
// Sessions carry their own timestamps; the manager owns the policy (absolute
// lifetime plus idle timeout) and takes its clock as a dependency so expiry
// is decidable in tests without sleeping.
package sessionmgr

import (
	"encoding/json"
	"time"
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Session is the state stored per signed-in principal.
type Session struct {
	UserID       string    `json:"user_id"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	LastActiveAt time.Time `json:"last_active_at"`
}

func (s Session) Encode() ([]byte, error) { return json.Marshal(s) }

func DecodeSession(b []byte) (Session, error) {
	var s Session
	err := json.Unmarshal(b, &s)
	return s, err
}

// Manager applies the session lifetime policy.
type Manager struct {
	lifetime time.Duration
	idle     time.Duration
	clock    Clock
}

// New builds a Manager. A zero idle duration disables the idle timeout; a
// zero lifetime disables the absolute cap. clock defaults to SystemClock.
func New(lifetime, idle time.Duration, clock Clock) *Manager {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Manager{lifetime: lifetime, idle: idle, clock: clock}
}

// Start opens a new session for the user.
func (m *Manager) Start(userID, role string) Session {
	now := m.clock.Now()
	return Session{
		UserID:       userID,
		Role:         role,
		CreatedAt:    now,
		LastActiveAt: now,
	}
}

// Alive reports whether the session is still usable.
func (m *Manager) Alive(s Session) bool {
	now := m.clock.Now()
	if m.lifetime > 0 && now.Sub(s.CreatedAt) >= m.lifetime {
		return false
	}
	if m.idle > 0 && now.Sub(s.LastActiveAt) >= m.idle {
		return false
	}
	return true
}

// Touch refreshes the activity timestamp. It returns false when the session
// had already expired; an expired session cannot be revived by activity.
func (m *Manager) Touch(s Session) (Session, bool) {
	if !m.Alive(s) {
		return s, false
	}
	s.LastActiveAt = m.clock.Now()
	return s, true
}

// ExpiresIn returns how long a store should keep the session, the sooner of
// the idle and absolute deadlines. Zero means no deadline applies; expired
// sessions also return zero, so callers gate on Alive first.
func (m *Manager) ExpiresIn(s Session) time.Duration {
	now := m.clock.Now()

	var remaining time.Duration
	set := false
	if m.lifetime > 0 {
		remaining = s.CreatedAt.Add(m.lifetime).Sub(now)
		set = true
	}
	if m.idle > 0 {
		idleLeft := s.LastActiveAt.Add(m.idle).Sub(now)
		if !set || idleLeft < remaining {
			remaining = idleLeft
			set = true
		}
	}
	if !set || remaining < 0 {
		return 0
	}
	return remaining
}
