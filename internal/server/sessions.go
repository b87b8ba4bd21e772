package server

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/playperu/memory/internal/memory"
)

var ErrSessionNotFound = errors.New("session not found")

type session struct {
	id        string
	profile   string
	engine    *memory.Engine
	createdAt time.Time
	lastSeen  atomic.Int64
}

func (s *session) touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

func (s *session) lastSeenAt() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

func (s *session) info() SessionInfo {
	snap := s.engine.Snapshot()
	return SessionInfo{
		ID:         s.id,
		Profile:    s.profile,
		State:      snap.State,
		Settings:   s.engine.Settings(),
		Stats:      snap.Stats,
		CreatedAt:  s.createdAt,
		LastSeenAt: s.lastSeenAt(),
	}
}

// Sessions holds the running games. Every game gets its own engine whose
// notifications are published on the broker under the session ID.
type Sessions struct {
	icons  memory.IconSource
	broker *Broker
	logger *slog.Logger
	opts   []memory.Option
	now    func() time.Time

	mu    sync.RWMutex
	games map[string]*session
}

func NewSessions(icons memory.IconSource, broker *Broker, logger *slog.Logger, opts ...memory.Option) *Sessions {
	return &Sessions{
		icons:  icons,
		broker: broker,
		logger: logger,
		opts:   opts,
		now:    time.Now,
		games:  make(map[string]*session),
	}
}

// Create starts a game for profile with settings.
func (s *Sessions) Create(profile string, settings memory.Settings) *session {
	id := uuid.NewString()
	now := s.now()

	opts := append(slices.Clone(s.opts), memory.WithLogger(s.logger.With("session", id)))
	sess := &session{
		id:        id,
		profile:   profile,
		createdAt: now,
		engine:    memory.NewEngine(settings, s.icons, presenter{broker: s.broker, sessionID: id}, opts...),
	}
	sess.touch(now)

	s.mu.Lock()
	s.games[id] = sess
	s.mu.Unlock()

	s.logger.Info("game created", "session", id, "profile", profile,
		"board_size", sess.engine.Settings().BoardSize)
	return sess
}

// Get returns the session and marks it as active.
func (s *Sessions) Get(id string) (*session, error) {
	s.mu.RLock()
	sess, ok := s.games[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess.touch(s.now())
	return sess, nil
}

func (s *Sessions) Delete(id string) error {
	s.mu.Lock()
	sess, ok := s.games[id]
	delete(s.games, id)
	s.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	sess.engine.Close()
	s.logger.Info("game removed", "session", id)
	return nil
}

// List returns all sessions, oldest first.
func (s *Sessions) List() []SessionInfo {
	s.mu.RLock()
	all := make([]*session, 0, len(s.games))
	for _, sess := range s.games {
		all = append(all, sess)
	}
	s.mu.RUnlock()

	infos := make([]SessionInfo, len(all))
	for i, sess := range all {
		infos[i] = sess.info()
	}
	slices.SortFunc(infos, func(a, b SessionInfo) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return infos
}

func (s *Sessions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}

// Reap closes and removes sessions idle for longer than ttl.
func (s *Sessions) Reap(ttl time.Duration) int {
	cutoff := s.now().Add(-ttl)

	s.mu.Lock()
	var stale []*session
	for id, sess := range s.games {
		if sess.lastSeenAt().Before(cutoff) {
			stale = append(stale, sess)
			delete(s.games, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range stale {
		sess.engine.Close()
	}
	if len(stale) > 0 {
		s.logger.Info("reaped idle games", "count", len(stale))
	}
	return len(stale)
}

// RunReaper reaps idle sessions until ctx is done.
func (s *Sessions) RunReaper(ctx context.Context, ttl time.Duration) error {
	interval := max(ttl/4, time.Second)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Reap(ttl)
		}
	}
}

// Close stops every running engine.
func (s *Sessions) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, sess := range s.games {
		sess.engine.Close()
		delete(s.games, id)
	}
}
