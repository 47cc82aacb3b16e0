package game

import (
	"context"
	"log/slog"

	"github.com/pixil98/go-survive/internal/driver"
)

// WorldTicker drives the world from the game clock.
type WorldTicker struct {
	world *World
}

func NewWorldTicker(w *World) *WorldTicker {
	return &WorldTicker{world: w}
}

func (t *WorldTicker) Tick(ctx context.Context, ev driver.TickEvent) error {
	report, err := t.world.Tick(ctx, ev)
	if err != nil {
		return err
	}
	slog.DebugContext(ctx, "world ticked", "tick", report.Tick, "delayed", report.Delayed, "deltas", len(report.Deltas))
	return nil
}
