package game

import (
	"slices"
	"strings"

	"github.com/pixil98/go-survive/internal/minimap"
	"github.com/pixil98/go-survive/internal/worldmap"
)

func (s *state) sortedPlayers() []*Player {
	ps := make([]*Player, 0, len(s.players))
	for _, p := range s.players {
		ps = append(ps, p)
	}
	slices.SortFunc(ps, func(a, b *Player) int {
		return strings.Compare(nameKey(a.name), nameKey(b.name))
	})
	return ps
}

// nearby returns the players within radius of pos, except the one excluded,
// ordered by name.
func (s *state) nearby(pos worldmap.Coord, radius int, except PlayerId) []*Player {
	var out []*Player
	for _, p := range s.sortedPlayers() {
		if p.id != except && p.pos.Distance(pos) <= radius {
			out = append(out, p)
		}
	}
	return out
}

// mapFor renders the mini-map centered on p, with other players marked.
func (s *state) mapFor(p *Player, radius int) []string {
	markers := make(map[worldmap.Coord]rune)
	for _, o := range s.nearby(p.pos, radius, p.id) {
		markers[o.pos] = minimap.OtherSymbol
	}
	return minimap.Render(s.grid, p.pos, radius, minimap.WithMarkers(markers))
}

// tellNearby sends msg to everyone who can see p, refreshing their maps.
func (s *state) tellNearby(p *Player, msg string) {
	for _, o := range s.nearby(p.pos, s.tuning.Vision.SightRadius, p.id) {
		s.notify(o, msg, true)
	}
}

// notify queues msg for p. Sleeping players notice nothing.
func (s *state) notify(p *Player, msg string, refreshMap bool) {
	if p.asleep {
		return
	}
	d := s.deltaFor(p.id)
	if msg != "" {
		d.Messages = append(d.Messages, msg)
	}
	if refreshMap {
		d.Map = s.mapFor(p, s.tuning.Vision.MapRadius)
	}
}

// joinNames lists names as "A", "A and B" or "A, B and C", marking anyone
// asleep.
func joinNames(ps []*Player) string {
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = p.name
		if p.asleep {
			names[i] += " (asleep)"
		}
	}
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	default:
		return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
	}
}
