package server

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/playperu/memory/internal/memory"
)

func newTestSessions(t *testing.T) (*Sessions, *time.Time) {
	t.Helper()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := NewSessions(memory.IconList([]string{"a", "b", "c"}), NewBroker(), slog.New(slog.DiscardHandler))
	s.now = func() time.Time { return now }
	t.Cleanup(s.Close)
	return s, &now
}

func TestSessionsCreateAndGet(t *testing.T) {
	s, _ := newTestSessions(t)

	sess := s.Create("p1", memory.Settings{BoardSize: 32, StartingPlayer: memory.PlayerRed})

	got, err := s.Get(sess.id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != sess {
		t.Fatal("get returned a different session")
	}
	if got.profile != "p1" {
		t.Errorf("profile = %q, want p1", got.profile)
	}
	snap := got.engine.Snapshot()
	if len(snap.Cards) != 32 || snap.Stats.CurrentPlayer != memory.PlayerRed {
		t.Errorf("engine dealt %d cards for %s, want 32 for red", len(snap.Cards), snap.Stats.CurrentPlayer)
	}

	if _, err := s.Get("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("get missing: err = %v, want ErrSessionNotFound", err)
	}
}

func TestSessionsDelete(t *testing.T) {
	s, _ := newTestSessions(t)
	sess := s.Create("p1", memory.DefaultSettings())

	if err := s.Delete(sess.id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(sess.id); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("second delete: err = %v, want ErrSessionNotFound", err)
	}
	if sess.engine.Snapshot().State != memory.LifecycleIdle {
		t.Error("deleted engine still running")
	}
	if s.Len() != 0 {
		t.Errorf("len = %d, want 0", s.Len())
	}
}

func TestSessionsListOldestFirst(t *testing.T) {
	s, now := newTestSessions(t)

	first := s.Create("p1", memory.DefaultSettings())
	*now = now.Add(time.Minute)
	second := s.Create("p2", memory.Settings{BoardSize: 24, StartingPlayer: memory.PlayerBlue})

	infos := s.List()
	if len(infos) != 2 {
		t.Fatalf("len = %d, want 2", len(infos))
	}
	if infos[0].ID != first.id || infos[1].ID != second.id {
		t.Errorf("order = [%s %s], want [%s %s]", infos[0].ID, infos[1].ID, first.id, second.id)
	}
	if infos[1].Settings.BoardSize != 24 || infos[1].Stats.TotalPairs != 12 {
		t.Errorf("second info = %+v", infos[1])
	}
	if infos[0].State != memory.LifecyclePlaying {
		t.Errorf("state = %q, want playing", infos[0].State)
	}
}

func TestSessionsReap(t *testing.T) {
	s, now := newTestSessions(t)
	ttl := time.Hour

	idle := s.Create("p1", memory.DefaultSettings())
	active := s.Create("p2", memory.DefaultSettings())

	*now = now.Add(45 * time.Minute)
	if _, err := s.Get(active.id); err != nil {
		t.Fatalf("get: %v", err)
	}

	*now = now.Add(30 * time.Minute)
	if n := s.Reap(ttl); n != 1 {
		t.Fatalf("reaped %d, want 1", n)
	}

	if _, err := s.Get(idle.id); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("idle session still present: %v", err)
	}
	if idle.engine.Snapshot().State != memory.LifecycleIdle {
		t.Error("reaped engine still running")
	}
	if _, err := s.Get(active.id); err != nil {
		t.Errorf("active session reaped: %v", err)
	}
}
