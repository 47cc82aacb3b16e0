// Package driver runs the fixed-interval game clock.
package driver

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const (
	DefaultTickLength = time.Second * 2
)

// TickEvent describes one firing of the clock.
type TickEvent struct {
	Seq       uint64
	Scheduled time.Time
	// Delayed is set when the previous firing overran its period, so this one
	// ran late instead of on schedule.
	Delayed bool
	Lag     time.Duration
}

// Ticker is advanced once per firing. Tickers run one after another and a
// firing does not end until every ticker has returned.
type Ticker interface {
	Tick(context.Context, TickEvent) error
}

// Journal receives a record of every firing.
type Journal interface {
	Append(v any) error
}

type tickRecord struct {
	Type      string        `json:"type"`
	Seq       uint64        `json:"seq"`
	Scheduled time.Time     `json:"scheduled"`
	Delayed   bool          `json:"delayed"`
	Lag       time.Duration `json:"lag"`
	Took      time.Duration `json:"took"`
}

type MudDriver struct {
	tickLength time.Duration
	tickers    []Ticker
	journal    Journal
	seq        uint64
}

func NewMudDriver(tickers []Ticker, opts ...MudDriverOpt) *MudDriver {
	d := &MudDriver{
		tickLength: DefaultTickLength,
		tickers:    tickers,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Start fires until ctx is cancelled. A firing that overruns the period is
// followed immediately by the next one, marked delayed, and the schedule is
// re-anchored from there rather than bursting to catch up.
func (d *MudDriver) Start(ctx context.Context) error {
	scheduled := time.Now().Add(d.tickLength)
	delayed := false

	timer := time.NewTimer(d.tickLength)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
		}

		start := time.Now()
		d.seq++
		ev := TickEvent{
			Seq:       d.seq,
			Scheduled: scheduled,
			Delayed:   delayed,
			Lag:       max(start.Sub(scheduled), 0),
		}
		if delayed {
			slog.WarnContext(ctx, "tick delayed", "tick", ev.Seq, "lag", ev.Lag)
		}

		if err := d.Tick(ctx, ev); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		d.record(ctx, ev, time.Since(start))

		next := scheduled.Add(d.tickLength)
		now := time.Now()
		delayed = now.After(next)
		if delayed {
			next = now
		}
		scheduled = next
		timer.Reset(max(time.Until(next), 0))
	}
}

// Tick runs every ticker for ev in order, stopping at the first error.
func (d *MudDriver) Tick(ctx context.Context, ev TickEvent) error {
	for _, t := range d.tickers {
		if err := t.Tick(ctx, ev); err != nil {
			return fmt.Errorf("tick %d: %w", ev.Seq, err)
		}
	}
	return nil
}

func (d *MudDriver) record(ctx context.Context, ev TickEvent, took time.Duration) {
	if d.journal == nil {
		return
	}
	err := d.journal.Append(tickRecord{
		Type:      "tick",
		Seq:       ev.Seq,
		Scheduled: ev.Scheduled,
		Delayed:   ev.Delayed,
		Lag:       ev.Lag,
		Took:      took,
	})
	if err != nil {
		slog.ErrorContext(ctx, "journaling tick", "tick", ev.Seq, "error", err)
	}
}
