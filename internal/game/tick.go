package game

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pixil98/go-survive/internal/driver"
)

// advance applies one tick to every player and publishes the resulting
// deltas.
func (s *state) advance(ctx context.Context, ev driver.TickEvent) TickReport {
	s.tick++
	if ev.Delayed {
		s.delayed++
		slog.WarnContext(ctx, "processing delayed tick", "tick", s.tick, "lag", ev.Lag)
	}
	if ev.Seq != 0 && ev.Seq != s.tick {
		slog.WarnContext(ctx, "tick sequence out of step", "tick", s.tick, "seq", ev.Seq)
	}

	for _, p := range s.sortedPlayers() {
		s.tickPlayer(ctx, p)
	}

	return TickReport{
		Tick:    s.tick,
		Delayed: ev.Delayed,
		Deltas:  s.flush(ctx),
	}
}

func (s *state) tickPlayer(ctx context.Context, p *Player) {
	t := s.tuning
	before := p.needs

	p.needs.Hunger = clampNeed(p.needs.Hunger - t.Needs.HungerDecay)
	p.needs.Thirst = clampNeed(p.needs.Thirst - t.Needs.ThirstDecay)
	if p.asleep {
		p.needs.Energy = clampNeed(p.needs.Energy + t.Needs.SleepRestore)
	} else {
		p.needs.Energy = clampNeed(p.needs.Energy - t.Needs.EnergyDecay)
	}

	d := s.deltaFor(p.id)
	if crossed(before.Hunger, p.needs.Hunger, t.Needs.WarnBelow) {
		d.Messages = append(d.Messages, "Your stomach growls. You should find something to eat.")
	}
	if crossed(before.Thirst, p.needs.Thirst, t.Needs.WarnBelow) {
		d.Messages = append(d.Messages, "Your mouth is dry. You should find water.")
	}
	if crossed(before.Energy, p.needs.Energy, t.Needs.WarnBelow) {
		d.Messages = append(d.Messages, "You are growing tired. You should find somewhere to sleep.")
	}
	if before.Hunger > NeedMin && p.needs.Hunger <= NeedMin {
		d.Messages = append(d.Messages, "You are starving!")
	}
	if before.Thirst > NeedMin && p.needs.Thirst <= NeedMin {
		d.Messages = append(d.Messages, "You are dying of thirst!")
	}
	if before.Energy > NeedMin && p.needs.Energy <= NeedMin {
		d.Messages = append(d.Messages, "You are exhausted!")
	}

	switch {
	case p.needs.Hunger <= NeedMin || p.needs.Thirst <= NeedMin:
		p.health = max(p.health-t.Health.StarvationLoss, 0)
	case p.needs.Hunger > t.Health.RegenAbove && p.needs.Thirst > t.Health.RegenAbove && p.needs.Energy > NeedMin:
		p.health = min(p.health+t.Health.Regen, t.Health.Max)
	}

	if p.health <= 0 {
		s.die(ctx, p)
		return
	}

	if p.asleep && p.needs.Energy >= NeedMax {
		s.wake(p, fmt.Sprintf("%s wakes up.", p.name))
		d.Messages = append(d.Messages, "You open your eyes, rested.")
		surroundings := s.look(p)
		d.Messages = append(d.Messages, surroundings.Text)
		d.Map = surroundings.Delta.Map
	}

	p.updateCondition(t)
	d.Vitals = p.vitals(t)
}

// crossed reports whether a need fell from at or above limit to below it.
func crossed(before, after, limit float64) bool {
	return before >= limit && after < limit
}

// die kills p and brings them back at the spawn point. Death is part of the
// game, not an error.
func (s *state) die(ctx context.Context, p *Player) {
	cause := deathCause(p.needs)
	s.tellNearby(p, fmt.Sprintf("%s collapses from %s.", p.name, cause))

	p.deaths++
	p.revive(s.grid.Spawn(), s.tuning)

	d := s.deltaFor(p.id)
	d.Messages = append(d.Messages,
		fmt.Sprintf("You collapse from %s. Everything goes dark...", cause),
		"You wake at the edge of the wilderness, weak but alive.",
	)
	d.Vitals = p.vitals(s.tuning)
	d.Map = s.mapFor(p, s.tuning.Vision.MapRadius)

	s.tellNearby(p, fmt.Sprintf("%s staggers in, looking dazed.", p.name))
	slog.InfoContext(ctx, "player died", "player", p.id, "name", p.name, "cause", cause, "deaths", p.deaths)
}

func deathCause(n Needs) string {
	switch {
	case n.Hunger <= NeedMin && n.Thirst <= NeedMin:
		return "hunger and thirst"
	case n.Thirst <= NeedMin:
		return "thirst"
	default:
		return "hunger"
	}
}
