package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/pixil98/go-survive/internal/commands"
	"github.com/pixil98/go-survive/internal/display"
	"github.com/pixil98/go-survive/internal/game"
	"github.com/pixil98/go-survive/internal/protocol"
)

// maxPendingDeltas is how many undelivered narrative deltas a session holds
// before it is closed as too slow. Vitals-only deltas are coalesced and never
// count.
const maxPendingDeltas = 256

// World is the part of the game world a session drives.
type World interface {
	Join(ctx context.Context, displayName string) (game.PlayerId, error)
	Leave(ctx context.Context, id game.PlayerId) error
	Apply(ctx context.Context, id game.PlayerId, cmd commands.Command) (game.Result, error)
}

// Subscriber provides the ability to subscribe to message subjects
type Subscriber interface {
	Subscribe(subject string, handler func(data []byte)) (unsubscribe func(), err error)
}

// Session is the server side of one client connection. All reads and writes
// on the connection happen on the goroutine running Run, apart from the line
// reader it starts.
type Session struct {
	id    string
	conn  io.ReadWriter
	world World
	subs  Subscriber
	disp  *commands.Dispatcher
	dec   *protocol.Decoder

	state      atomic.Int32
	lastActive atomic.Int64

	mu     sync.Mutex
	player game.PlayerId
	name   string

	vitals     *game.Vitals
	vitalsTick uint64
	unsub      func()

	inMu     sync.Mutex
	inbox    []game.Delta
	latest   *game.Delta
	wake     chan struct{}
	slow     chan struct{}
	slowOnce sync.Once

	kick     chan struct{}
	kickOnce sync.Once
	done     chan struct{}
	leave    sync.Once

	onJoin  func(*Session)
	onLeave func(*Session)
}

type lineResult struct {
	line string
	err  error
}

func newSession(conn io.ReadWriter, world World, subs Subscriber, disp *commands.Dispatcher) *Session {
	s := &Session{
		id:    uuid.NewString(),
		conn:  conn,
		world: world,
		subs:  subs,
		disp:  disp,
		dec:   protocol.NewDecoder(conn),
		wake:  make(chan struct{}, 1),
		slow:  make(chan struct{}),
		kick:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	s.touch()
	return s
}

func (s *Session) Id() string {
	return s.id
}

func (s *Session) State() State {
	return State(s.state.Load())
}

func (s *Session) setState(st State) {
	s.state.Store(int32(st))
}

// Player returns the id of the session's player; it is empty until the
// session reaches StateActive.
func (s *Session) Player() game.PlayerId {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.player
}

func (s *Session) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name
}

// IdleFor reports how long since the client last sent a line.
func (s *Session) IdleFor(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, s.lastActive.Load()))
}

func (s *Session) touch() {
	s.lastActive.Store(time.Now().UnixNano())
}

// Kick asks the session to close. It is safe to call multiple times.
func (s *Session) Kick() {
	s.kickOnce.Do(func() { close(s.kick) })
}

// Run drives the session until the client leaves, the connection fails, the
// session is kicked or ctx is cancelled. The player is removed from the world
// exactly once on the way out.
func (s *Session) Run(ctx context.Context) error {
	defer close(s.done)
	defer s.close(ctx)

	lines := make(chan lineResult)
	go s.readLines(lines)

	s.setState(StateNaming)
	if joined, err := s.naming(ctx, lines); !joined {
		return err
	}

	s.setState(StateActive)
	if s.onJoin != nil {
		s.onJoin(s)
	}
	slog.InfoContext(ctx, "session active", "session", s.id, "player", s.player, "name", s.name)

	return s.play(ctx, lines)
}

// readLines feeds decoded lines to the session until the connection fails.
// Protocol errors are passed along and reading continues.
func (s *Session) readLines(out chan<- lineResult) {
	for {
		line, err := s.dec.ReadLine()
		select {
		case out <- lineResult{line: line, err: err}:
		case <-s.done:
			return
		}
		if err != nil && !errors.Is(err, protocol.ErrProtocol) {
			return
		}
	}
}

// next waits for the next line from the client.
func (s *Session) next(ctx context.Context, lines <-chan lineResult) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-s.kick:
		return "", errKicked
	case lr := <-lines:
		s.touch()
		return lr.line, lr.err
	}
}

var errKicked = errors.New("session kicked")

// naming asks for a name until the world accepts one. It reports whether
// the session should carry on into play.
func (s *Session) naming(ctx context.Context, lines <-chan lineResult) (bool, error) {
	if err := s.writeLine(welcomeBanner); err != nil {
		return false, err
	}

	for {
		if err := s.write("By what name are you known, survivor? "); err != nil {
			return false, err
		}

		line, err := s.next(ctx, lines)
		if errors.Is(err, protocol.ErrProtocol) {
			if err := s.writeLine(fmt.Sprintf("I couldn't read that: %s.", err)); err != nil {
				return false, err
			}
			continue
		}
		if err != nil {
			return false, s.ended(err)
		}

		// Once queued the join runs whether or not we wait, so always wait
		// for the id; close then removes the player if the session ended.
		id, err := s.world.Join(context.WithoutCancel(ctx), line)
		switch {
		case errors.Is(err, game.ErrInvalidName):
			if err := s.writeLine(nameProblem(err)); err != nil {
				return false, err
			}
			continue
		case errors.Is(err, game.ErrNameConflict):
			if err := s.writeLine("Someone by that name already roams the wilderness. Choose another."); err != nil {
				return false, err
			}
			continue
		case err != nil:
			return false, s.ended(fmt.Errorf("joining world: %w", err))
		}

		name, _ := game.NormalizeName(line)
		s.mu.Lock()
		s.player, s.name = id, name
		s.mu.Unlock()

		select {
		case <-ctx.Done():
			return false, s.ended(ctx.Err())
		case <-s.kick:
			return false, s.ended(errKicked)
		default:
		}
		return true, nil
	}
}

func (s *Session) play(ctx context.Context, lines <-chan lineResult) error {
	unsub, err := s.subs.Subscribe(game.PlayerSubject(s.player), s.deliver)
	if err != nil {
		return fmt.Errorf("subscribing to player deltas: %w", err)
	}
	s.unsub = unsub

	if err := s.writeLine(fmt.Sprintf("Welcome, %s. Type 'help' for a list of commands.", s.name)); err != nil {
		return err
	}
	if quit, err := s.exec(ctx, commands.Look{}); err != nil || quit {
		return err
	}
	if err := s.prompt(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			_ = s.writeLine("\nThe world is shutting down. Farewell.")
			return nil

		case <-s.kick:
			_ = s.writeLine("\nYou have been idle too long and drift out of the world.")
			return nil

		case <-s.slow:
			_ = s.writeLine("\nYou have fallen too far behind the world. Farewell.")
			return nil

		case <-s.wake:
			if err := s.drainDeltas(); err != nil {
				return err
			}

		case lr := <-lines:
			s.touch()
			quit, err := s.handleLine(ctx, lr)
			if err != nil || quit {
				return s.ended(err)
			}
			if err := s.prompt(); err != nil {
				return err
			}
		}
	}
}

// handleLine runs one client line. It reports whether the session should
// end.
func (s *Session) handleLine(ctx context.Context, lr lineResult) (bool, error) {
	if errors.Is(lr.err, protocol.ErrProtocol) {
		return false, s.writeLine(fmt.Sprintf("I couldn't read that: %s.", lr.err))
	}
	if lr.err != nil {
		return true, lr.err
	}

	if strings.TrimSpace(lr.line) == "" {
		return false, nil
	}

	cmd, err := s.disp.Parse(lr.line)
	if err != nil {
		return s.userError(err)
	}

	return s.exec(ctx, cmd)
}

func (s *Session) exec(ctx context.Context, cmd commands.Command) (bool, error) {
	res, err := s.world.Apply(ctx, s.player, cmd)
	if errors.Is(err, game.ErrInternalState) {
		_ = s.writeLine("Your presence in the world has been lost. Farewell.")
		return true, err
	}
	if err != nil {
		return s.userError(err)
	}

	if res.Text != "" {
		if err := s.writeLine(display.Wrap(res.Text)); err != nil {
			return true, err
		}
	}
	if res.Delta != nil {
		s.updateVitals(res.Delta.Tick, res.Delta.Vitals, false)
		if err := s.renderDelta(*res.Delta); err != nil {
			return true, err
		}
	}
	return res.Quit, nil
}

// userError reports a player mistake and keeps the session going. Anything
// else ends it.
func (s *Session) userError(err error) (bool, error) {
	var userErr *commands.UserError
	if errors.As(err, &userErr) {
		return false, s.writeLine(userErr.Message)
	}
	return true, err
}

// deliver is called from the messaging client; it must not block. Only the
// newest vitals-only delta is kept, since each one replaces the last.
func (s *Session) deliver(data []byte) {
	d, err := game.DecodeDelta(data)
	if err != nil {
		slog.Warn("bad delta", "session", s.id, "error", err)
		return
	}

	overflow := false
	s.inMu.Lock()
	switch {
	case len(d.Messages) == 0 && len(d.Map) == 0:
		s.latest = &d
	case len(s.inbox) >= maxPendingDeltas:
		overflow = true
	default:
		s.inbox = append(s.inbox, d)
	}
	s.inMu.Unlock()

	if overflow {
		s.slowOnce.Do(func() {
			slog.Warn("session too far behind, closing", "session", s.id, "pending", maxPendingDeltas)
			close(s.slow)
		})
		return
	}

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// drainDeltas writes everything delivered since the last call.
func (s *Session) drainDeltas() error {
	s.inMu.Lock()
	deltas, latest := s.inbox, s.latest
	s.inbox, s.latest = nil, nil
	s.inMu.Unlock()

	if len(deltas) > 0 {
		if err := s.write("\n"); err != nil {
			return err
		}
		for _, d := range deltas {
			s.updateVitals(d.Tick, d.Vitals, true)
			if err := s.renderDelta(d); err != nil {
				return err
			}
		}
	}
	if latest != nil {
		s.updateVitals(latest.Tick, latest.Vitals, true)
	}
	if len(deltas) > 0 {
		return s.prompt()
	}
	return nil
}

func (s *Session) renderDelta(d game.Delta) error {
	for _, m := range d.Messages {
		if err := s.writeLine(display.Wrap(m)); err != nil {
			return err
		}
	}
	if len(d.Map) > 0 {
		if _, err := s.conn.Write(protocol.EncodeBlock(d.Map)); err != nil {
			return err
		}
	}
	return nil
}

// updateVitals keeps the newest vitals for the prompt. A published delta can
// be drained after a command result from the same tick, so it only replaces
// vitals from an earlier tick; command results always do.
func (s *Session) updateVitals(tick uint64, v *game.Vitals, published bool) {
	if v == nil || (published && s.vitals != nil && tick <= s.vitalsTick) {
		return
	}
	s.vitals, s.vitalsTick = v, tick
}

func (s *Session) prompt() error {
	prompt := "> "
	if v := s.vitals; v != nil {
		prompt = fmt.Sprintf("[HP %.0f  Food %.0f  Water %.0f  Energy %.0f] ", v.Health, v.Hunger, v.Thirst, v.Energy)
		if v.Asleep {
			prompt += "(asleep) "
		}
		prompt += "> "
	}
	return s.write(prompt)
}

func (s *Session) write(text string) error {
	_, err := s.conn.Write([]byte(text))
	return err
}

func (s *Session) writeLine(msg string) error {
	_, err := s.conn.Write(protocol.Encode(msg))
	return err
}

// ended maps the reason a session stopped to Run's result: a client going
// away, a kick or a cancelled context are normal endings.
func (s *Session) ended(err error) error {
	switch {
	case err == nil, errors.Is(err, io.EOF), errors.Is(err, errKicked),
		errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, game.ErrWorldStopped):
		return nil
	default:
		return err
	}
}

// close removes the player from the world. It runs once, with a context that
// outlives the session's own.
func (s *Session) close(ctx context.Context) {
	s.setState(StateClosing)
	s.leave.Do(func() {
		if s.unsub != nil {
			s.unsub()
		}
		if s.player == "" {
			return
		}
		if err := s.world.Leave(context.WithoutCancel(ctx), s.player); err != nil {
			slog.WarnContext(ctx, "leaving world", "session", s.id, "player", s.player, "error", err)
		}
		if s.onLeave != nil {
			s.onLeave(s)
		}
		slog.InfoContext(ctx, "session closed", "session", s.id, "player", s.player, "name", s.name)
	})
	s.setState(StateClosed)
}

func nameProblem(err error) string {
	msg := strings.TrimPrefix(err.Error(), game.ErrInvalidName.Error()+": ")
	return display.Capitalize(msg) + "."
}

const welcomeBanner = `
 ~~~  T T  ~~~   S U R V I V E   ~~~  T T  ~~~

Hunger and thirst will wear you down. Find food in the
forests and grasslands, and water by the shore.
`
