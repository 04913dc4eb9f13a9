package sessionmgr

import (
	"testing"
	"time"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func TestIdleTimeout(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)}
	m := New(8*time.Hour, 30*time.Minute, clock)

	s := m.Start("u-1", "student")
	if !m.Alive(s) {
		t.Fatal("fresh session should be alive")
	}

	clock.advance(29 * time.Minute)
	if !m.Alive(s) {
		t.Error("session should survive under the idle timeout")
	}

	clock.advance(time.Minute)
	if m.Alive(s) {
		t.Error("session should expire at the idle timeout")
	}
}

func TestTouchExtendsIdleWindow(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)}
	m := New(8*time.Hour, 30*time.Minute, clock)

	s := m.Start("u-1", "student")

	// Keep touching every 20 minutes; the session must stay alive well
	// past a single idle window.
	for i := 0; i < 6; i++ {
		clock.advance(20 * time.Minute)
		var ok bool
		s, ok = m.Touch(s)
		if !ok {
			t.Fatalf("touch %d failed; session expired early", i)
		}
	}
	if !m.Alive(s) {
		t.Error("actively used session should be alive after 2h")
	}
}

func TestTouchCannotReviveExpired(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)}
	m := New(8*time.Hour, 30*time.Minute, clock)

	s := m.Start("u-1", "counselor")
	clock.advance(31 * time.Minute)

	if _, ok := m.Touch(s); ok {
		t.Error("expired session must not be revived by activity")
	}
}

func TestAbsoluteLifetimeCapsActiveSession(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)}
	m := New(time.Hour, 30*time.Minute, clock)

	s := m.Start("u-1", "student")
	for i := 0; i < 3; i++ {
		clock.advance(20 * time.Minute)
		s, _ = m.Touch(s)
	}

	// 60 minutes in, the absolute lifetime wins over recent activity.
	if m.Alive(s) {
		t.Error("session should hit the absolute lifetime cap")
	}
}

func TestExpiresIn(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)}
	m := New(8*time.Hour, 30*time.Minute, clock)

	s := m.Start("u-1", "student")
	if got := m.ExpiresIn(s); got != 30*time.Minute {
		t.Errorf("ExpiresIn = %v, want 30m", got)
	}

	clock.advance(10 * time.Minute)
	if got := m.ExpiresIn(s); got != 20*time.Minute {
		t.Errorf("ExpiresIn = %v, want 20m", got)
	}

	clock.advance(25 * time.Minute)
	if got := m.ExpiresIn(s); got != 0 {
		t.Errorf("ExpiresIn = %v, want 0 for expired session", got)
	}

	// Near the absolute deadline the lifetime remainder is the smaller.
	late := Session{
		UserID:       "u-2",
		CreatedAt:    clock.now.Add(-7*time.Hour - 50*time.Minute),
		LastActiveAt: clock.now,
	}
	if got := m.ExpiresIn(late); got != 10*time.Minute {
		t.Errorf("ExpiresIn = %v, want 10m from lifetime cap", got)
	}
}

func TestZeroDurationsDisablePolicy(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)}
	m := New(0, 0, clock)

	s := m.Start("u-1", "admin")
	clock.advance(1000 * time.Hour)
	if !m.Alive(s) {
		t.Error("session with no limits should stay alive")
	}
	if got := m.ExpiresIn(s); got != 0 {
		t.Errorf("ExpiresIn = %v, want 0 when no policy set", got)
	}
}
