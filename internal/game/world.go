package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/pixil98/go-survive/internal/commands"
	"github.com/pixil98/go-survive/internal/driver"
	"github.com/pixil98/go-survive/internal/tuning"
	"github.com/pixil98/go-survive/internal/worldmap"
)

const DefaultQueueSize = 256

// World is the single source of truth for all mutable game state. State is
// owned by the goroutine running Start; every other goroutine reaches it by
// queueing a request, and requests are applied one at a time in the order
// they were queued.
type World struct {
	requests chan request
	done     chan struct{}
	running  atomic.Bool

	state *state
}

type WorldOpt func(*World)

func WithTuning(t tuning.Tuning) WorldOpt {
	return func(w *World) {
		w.state.tuning = t
	}
}

// WithPublisher delivers deltas for players other than the one acting, and
// every tick delta.
func WithPublisher(pub Publisher) WorldOpt {
	return func(w *World) {
		w.state.pub = pub
	}
}

// WithQueueSize sets how many requests may wait before callers block.
func WithQueueSize(n int) WorldOpt {
	return func(w *World) {
		w.requests = make(chan request, n)
	}
}

func NewWorld(grid *worldmap.Grid, opts ...WorldOpt) *World {
	w := &World{
		requests: make(chan request, DefaultQueueSize),
		done:     make(chan struct{}),
		state: &state{
			grid:    grid,
			tuning:  tuning.Default(),
			players: make(map[PlayerId]*Player),
			names:   make(map[string]PlayerId),
		},
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Start processes requests until ctx is cancelled. Requests still queued at
// that point fail with ErrWorldStopped.
func (w *World) Start(ctx context.Context) error {
	if !w.running.CompareAndSwap(false, true) {
		return errors.New("world is already running")
	}
	defer close(w.done)

	slog.InfoContext(ctx, "world started", "map", w.state.grid.Name(),
		"width", w.state.grid.Width(), "height", w.state.grid.Height())

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "world stopped", "tick", w.state.tick)
			return nil
		case req := <-w.requests:
			w.state.handle(ctx, req)
		}
	}
}

// Join adds a player under displayName. It fails with ErrInvalidName if the
// name is unusable and ErrNameConflict if an active player already has it.
func (w *World) Join(ctx context.Context, displayName string) (PlayerId, error) {
	return call(ctx, w, func(ch chan<- reply[PlayerId]) request {
		return joinRequest{name: displayName, reply: ch}
	})
}

// Leave removes a player. Leaving twice, or leaving an unknown id, is not an
// error.
func (w *World) Leave(ctx context.Context, id PlayerId) error {
	_, err := call(ctx, w, func(ch chan<- reply[struct{}]) request {
		return leaveRequest{id: id, reply: ch}
	})
	return err
}

// Apply runs a parsed command for a player. Player mistakes come back as
// *commands.UserError; ErrInternalState means the player is gone.
func (w *World) Apply(ctx context.Context, id PlayerId, cmd commands.Command) (Result, error) {
	return call(ctx, w, func(ch chan<- reply[Result]) request {
		return commandRequest{id: id, cmd: cmd, reply: ch}
	})
}

// Tick advances every player's needs by one step. Once queued a tick always
// runs, even if ctx is cancelled while waiting for it.
func (w *World) Tick(ctx context.Context, ev driver.TickEvent) (TickReport, error) {
	return call(ctx, w, func(ch chan<- reply[TickReport]) request {
		return tickRequest{event: ev, reply: ch}
	})
}

func (w *World) Snapshot(ctx context.Context) (Snapshot, error) {
	return call(ctx, w, func(ch chan<- reply[Snapshot]) request {
		return snapshotRequest{reply: ch}
	})
}

// Done is closed once the world has stopped.
func (w *World) Done() <-chan struct{} {
	return w.done
}

type reply[T any] struct {
	val T
	err error
}

// call queues a request and waits for its reply. Replies are buffered so the
// world never blocks on a caller that gave up waiting.
func call[T any](ctx context.Context, w *World, build func(chan<- reply[T]) request) (T, error) {
	var zero T
	ch := make(chan reply[T], 1)

	select {
	case w.requests <- build(ch):
	case <-w.done:
		return zero, ErrWorldStopped
	case <-ctx.Done():
		return zero, ctx.Err()
	}

	select {
	case r := <-ch:
		return r.val, r.err
	case <-w.done:
		select {
		case r := <-ch:
			return r.val, r.err
		default:
			return zero, ErrWorldStopped
		}
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// request is the closed set of messages the world accepts.
type request interface {
	request()
}

type joinRequest struct {
	name  string
	reply chan<- reply[PlayerId]
}

type leaveRequest struct {
	id    PlayerId
	reply chan<- reply[struct{}]
}

type commandRequest struct {
	id    PlayerId
	cmd   commands.Command
	reply chan<- reply[Result]
}

type tickRequest struct {
	event driver.TickEvent
	reply chan<- reply[TickReport]
}

type snapshotRequest struct {
	reply chan<- reply[Snapshot]
}

func (joinRequest) request()     {}
func (leaveRequest) request()    {}
func (commandRequest) request()  {}
func (tickRequest) request()     {}
func (snapshotRequest) request() {}

// state is everything the world goroutine owns.
type state struct {
	grid   *worldmap.Grid
	tuning tuning.Tuning
	pub    Publisher

	players map[PlayerId]*Player
	names   map[string]PlayerId

	tick    uint64
	delayed uint64

	// pending collects deltas for players other than the requester while a
	// request runs; they are published when it completes.
	pending map[PlayerId]*Delta
}

func (s *state) handle(ctx context.Context, req request) {
	switch r := req.(type) {
	case joinRequest:
		id, err := s.join(ctx, r.name)
		s.flush(ctx)
		r.reply <- reply[PlayerId]{val: id, err: err}
	case leaveRequest:
		s.leave(ctx, r.id)
		s.flush(ctx)
		r.reply <- reply[struct{}]{}
	case commandRequest:
		res, err := s.apply(r.id, r.cmd)
		s.flush(ctx)
		r.reply <- reply[Result]{val: res, err: err}
	case tickRequest:
		report := s.advance(ctx, r.event)
		r.reply <- reply[TickReport]{val: report}
	case snapshotRequest:
		r.reply <- reply[Snapshot]{val: s.snapshot()}
	default:
		panic(fmt.Sprintf("world: unhandled request %T", req))
	}
}

func (s *state) join(ctx context.Context, raw string) (PlayerId, error) {
	name, err := NormalizeName(raw)
	if err != nil {
		return "", err
	}

	key := nameKey(name)
	if _, taken := s.names[key]; taken {
		return "", fmt.Errorf("%w: %s", ErrNameConflict, name)
	}

	id := newPlayerId()
	for s.players[id] != nil {
		id = newPlayerId()
	}

	p := newPlayer(id, name, s.grid.Spawn(), s.tuning)
	s.players[id] = p
	s.names[key] = id

	s.tellNearby(p, fmt.Sprintf("%s appears nearby.", p.name))
	slog.InfoContext(ctx, "player joined", "player", id, "name", name)
	return id, nil
}

func (s *state) leave(ctx context.Context, id PlayerId) {
	p, ok := s.players[id]
	if !ok {
		return
	}

	delete(s.players, id)
	delete(s.names, nameKey(p.name))
	delete(s.pending, id)

	s.tellNearby(p, fmt.Sprintf("%s fades from the wilderness.", p.name))
	slog.InfoContext(ctx, "player left", "player", id, "name", p.name)
}

func (s *state) snapshot() Snapshot {
	snap := Snapshot{
		Tick:         s.tick,
		DelayedTicks: s.delayed,
		Clock:        s.clock(),
		Map:          s.grid.Name(),
		Players:      make([]PlayerView, 0, len(s.players)),
	}
	for _, p := range s.sortedPlayers() {
		snap.Players = append(snap.Players, p.view())
	}
	return snap
}

// deltaFor returns the pending delta for a player, creating it if needed.
func (s *state) deltaFor(id PlayerId) *Delta {
	if s.pending == nil {
		s.pending = make(map[PlayerId]*Delta)
	}
	d, ok := s.pending[id]
	if !ok {
		d = &Delta{}
		s.pending[id] = d
	}
	return d
}

// flush publishes and clears the pending deltas.
func (s *state) flush(ctx context.Context) map[PlayerId]Delta {
	out := make(map[PlayerId]Delta, len(s.pending))
	for id, d := range s.pending {
		if d.Empty() {
			continue
		}
		d.Tick = s.tick
		out[id] = *d

		if s.pub == nil {
			continue
		}
		data, err := d.Encode()
		if err != nil {
			slog.ErrorContext(ctx, "encoding delta", "player", id, "error", err)
			continue
		}
		if err := s.pub.PublishToPlayer(id, data); err != nil {
			slog.WarnContext(ctx, "publishing delta", "player", id, "error", err)
		}
	}
	clear(s.pending)
	return out
}
