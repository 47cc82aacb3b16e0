package worldmap

import (
	"fmt"
	"unicode/utf8"
)

// Grid is an immutable rectangle of terrain cells. It is built once at startup
// and only ever read afterwards, so it may be shared between goroutines.
type Grid struct {
	name   string
	width  int
	height int
	cells  []Terrain
	spawn  Coord
}

// NewGrid builds a grid from rows of terrain symbols. Every row must be the
// same width and the spawn point must be a passable cell.
func NewGrid(name string, rows []string, spawn Coord) (*Grid, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("map has no rows")
	}

	width := utf8.RuneCountInString(rows[0])
	if width == 0 {
		return nil, fmt.Errorf("map has no columns")
	}

	g := &Grid{
		name:   name,
		width:  width,
		height: len(rows),
		cells:  make([]Terrain, 0, width*len(rows)),
		spawn:  spawn,
	}

	for y, row := range rows {
		if n := utf8.RuneCountInString(row); n != width {
			return nil, fmt.Errorf("row %d is %d cells wide, expected %d", y, n, width)
		}
		x := 0
		for _, r := range row {
			t, ok := ParseTerrain(r)
			if !ok {
				return nil, fmt.Errorf("row %d column %d: unknown terrain symbol %q", y, x, r)
			}
			g.cells = append(g.cells, t)
			x++
		}
	}

	t, ok := g.At(spawn)
	if !ok {
		return nil, fmt.Errorf("spawn %s is outside the map", spawn)
	}
	if !t.Passable() {
		return nil, fmt.Errorf("spawn %s is on impassable %s", spawn, t)
	}

	return g, nil
}

func (g *Grid) Name() string {
	return g.name
}

func (g *Grid) Width() int {
	return g.width
}

func (g *Grid) Height() int {
	return g.height
}

// Spawn is where new players appear.
func (g *Grid) Spawn() Coord {
	return g.spawn
}

func (g *Grid) InBounds(c Coord) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < g.width && c.Y < g.height
}

// At returns the terrain at c. The second value is false when c lies outside
// the grid.
func (g *Grid) At(c Coord) (Terrain, bool) {
	if !g.InBounds(c) {
		return 0, false
	}
	return g.cells[c.Y*g.width+c.X], true
}

// Near reports whether any in-bounds cell within radius of c matches fn.
func (g *Grid) Near(c Coord, radius int, fn func(Terrain) bool) bool {
	for y := c.Y - radius; y <= c.Y+radius; y++ {
		for x := c.X - radius; x <= c.X+radius; x++ {
			if t, ok := g.At(Coord{X: x, Y: y}); ok && fn(t) {
				return true
			}
		}
	}
	return false
}
