package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/pixil98/go-survive/internal/commands"
	"github.com/pixil98/go-survive/internal/driver"
	"github.com/pixil98/go-survive/internal/game"
)

const (
	DefaultMaxSessions = 64
	DefaultIdleTimeout = 15 * time.Minute
)

var ErrTooManySessions = errors.New("too many sessions")

// Journal records session events.
type Journal interface {
	Append(v any) error
}

// Manager owns the set of live sessions. It also implements driver.Ticker to
// kick sessions that have gone idle.
type Manager struct {
	world World
	subs  Subscriber
	disp  *commands.Dispatcher

	journal     Journal
	maxSessions int
	idleTimeout time.Duration
	now         func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

type ManagerOpt func(*Manager)

func WithMaxSessions(n int) ManagerOpt {
	return func(m *Manager) {
		if n > 0 {
			m.maxSessions = n
		}
	}
}

func WithIdleTimeout(d time.Duration) ManagerOpt {
	return func(m *Manager) {
		if d > 0 {
			m.idleTimeout = d
		}
	}
}

func WithJournal(j Journal) ManagerOpt {
	return func(m *Manager) {
		m.journal = j
	}
}

func NewManager(world World, subs Subscriber, opts ...ManagerOpt) *Manager {
	m := &Manager{
		world:       world,
		subs:        subs,
		disp:        commands.NewDispatcher(),
		maxSessions: DefaultMaxSessions,
		idleTimeout: DefaultIdleTimeout,
		now:         time.Now,
		sessions:    map[string]*Session{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start waits for ctx to end and then kicks every remaining session.
func (m *Manager) Start(ctx context.Context) error {
	<-ctx.Done()

	for _, s := range m.snapshot() {
		s.Kick()
	}
	return nil
}

// RunSession serves one connection until the session ends. The caller owns
// conn and should close it once RunSession returns.
func (m *Manager) RunSession(ctx context.Context, conn io.ReadWriter) error {
	s := newSession(conn, m.world, m.subs, m.disp)
	s.onJoin = func(s *Session) { m.record("join", s) }
	s.onLeave = func(s *Session) { m.record("leave", s) }

	if !m.register(s) {
		_, _ = conn.Write([]byte("The wilderness is crowded. Try again later.\n"))
		return ErrTooManySessions
	}
	defer m.unregister(s)

	return s.Run(ctx)
}

func (m *Manager) register(s *Session) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.sessions) >= m.maxSessions {
		return false
	}
	m.sessions[s.id] = s
	return true
}

func (m *Manager) unregister(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, s.id)
}

func (m *Manager) snapshot() []*Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	return out
}

// Count reports the number of live sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Tick kicks sessions nobody has typed into for longer than the idle timeout.
func (m *Manager) Tick(ctx context.Context, _ driver.TickEvent) error {
	now := m.now()
	for _, s := range m.snapshot() {
		if s.State() >= StateClosing {
			continue
		}
		if idle := s.IdleFor(now); idle > m.idleTimeout {
			slog.InfoContext(ctx, "kicking idle session", "session", s.id, "name", s.Name(), "idle", idle)
			s.Kick()
		}
	}
	return nil
}

type sessionRecord struct {
	Type    string        `json:"type"`
	Event   string        `json:"event"`
	Session string        `json:"session"`
	Player  game.PlayerId `json:"player"`
	Name    string        `json:"name"`
	At      time.Time     `json:"at"`
}

func (m *Manager) record(event string, s *Session) {
	if m.journal == nil {
		return
	}
	err := m.journal.Append(sessionRecord{
		Type:    "session",
		Event:   event,
		Session: s.id,
		Player:  s.Player(),
		Name:    s.Name(),
		At:      m.now().UTC(),
	})
	if err != nil {
		slog.Warn("journaling session event", "event", event, "session", s.id, "error", err)
	}
}
