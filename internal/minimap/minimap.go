// Package minimap draws the square window of terrain around a position.
//
// Rendering only reads the map, so any number of goroutines may render from
// the same grid at once.
package minimap

import (
	"strings"

	"github.com/pixil98/go-survive/internal/worldmap"
)

const (
	// VoidSymbol marks cells beyond the edge of the map.
	VoidSymbol = ' '
	// SelfSymbol marks the cell the map is centered on.
	SelfSymbol = '@'
	// OtherSymbol is the conventional marker for other players.
	OtherSymbol = '*'
)

// Terrain is the read-only view of a map the renderer needs.
type Terrain interface {
	At(worldmap.Coord) (worldmap.Terrain, bool)
}

type options struct {
	markers map[worldmap.Coord]rune
	border  bool
}

type Option func(*options)

// WithMarkers overlays symbols on top of terrain. The center cell always shows
// SelfSymbol regardless of markers.
func WithMarkers(markers map[worldmap.Coord]rune) Option {
	return func(o *options) {
		o.markers = markers
	}
}

// WithoutBorder drops the frame drawn around the grid.
func WithoutBorder() Option {
	return func(o *options) {
		o.border = false
	}
}

// Render returns the rows of a (2*radius+1) square grid centered on center.
// A negative radius is treated as zero.
func Render(m Terrain, center worldmap.Coord, radius int, opts ...Option) []string {
	o := &options{border: true}
	for _, opt := range opts {
		opt(o)
	}

	radius = max(radius, 0)
	size := 2*radius + 1

	rows := make([]string, 0, size+2)
	if o.border {
		rows = append(rows, "+"+strings.Repeat("-", size)+"+")
	}

	var sb strings.Builder
	for dy := -radius; dy <= radius; dy++ {
		sb.Reset()
		if o.border {
			sb.WriteByte('|')
		}
		for dx := -radius; dx <= radius; dx++ {
			c := worldmap.Coord{X: center.X + dx, Y: center.Y + dy}
			sb.WriteRune(symbolAt(m, c, center, o.markers))
		}
		if o.border {
			sb.WriteByte('|')
		}
		rows = append(rows, sb.String())
	}

	if o.border {
		rows = append(rows, rows[0])
	}

	return rows
}

// String renders the grid as a single newline separated block.
func String(m Terrain, center worldmap.Coord, radius int, opts ...Option) string {
	return strings.Join(Render(m, center, radius, opts...), "\n")
}

func symbolAt(m Terrain, c, center worldmap.Coord, markers map[worldmap.Coord]rune) rune {
	t, ok := m.At(c)
	if !ok {
		return VoidSymbol
	}
	if c == center {
		return SelfSymbol
	}
	if r, ok := markers[c]; ok {
		return r
	}
	return t.Symbol()
}
