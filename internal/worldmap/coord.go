package worldmap

import (
	"fmt"
	"strings"
)

// Coord is a cell position on the grid. X grows east, Y grows south.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Step returns the coordinate one cell away in direction d.
func (c Coord) Step(d Direction) Coord {
	dx, dy := d.Offset()
	return Coord{X: c.X + dx, Y: c.Y + dy}
}

// Distance returns the Chebyshev distance between two coordinates, which
// matches the square window drawn by the mini-map.
func (c Coord) Distance(o Coord) int {
	return max(abs(c.X-o.X), abs(c.Y-o.Y))
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}

type Direction int

const (
	North Direction = iota
	NorthEast
	East
	SouthEast
	South
	SouthWest
	West
	NorthWest
)

var directionNames = [...]string{
	North:     "north",
	NorthEast: "northeast",
	East:      "east",
	SouthEast: "southeast",
	South:     "south",
	SouthWest: "southwest",
	West:      "west",
	NorthWest: "northwest",
}

var directionOffsets = [...][2]int{
	North:     {0, -1},
	NorthEast: {1, -1},
	East:      {1, 0},
	SouthEast: {1, 1},
	South:     {0, 1},
	SouthWest: {-1, 1},
	West:      {-1, 0},
	NorthWest: {-1, -1},
}

// Directions lists every direction clockwise from north.
var Directions = []Direction{North, NorthEast, East, SouthEast, South, SouthWest, West, NorthWest}

// ParseDirection accepts full names and the usual one- and two-letter
// abbreviations, case-insensitively.
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(s) {
	case "n", "north":
		return North, true
	case "ne", "northeast":
		return NorthEast, true
	case "e", "east":
		return East, true
	case "se", "southeast":
		return SouthEast, true
	case "s", "south":
		return South, true
	case "sw", "southwest":
		return SouthWest, true
	case "w", "west":
		return West, true
	case "nw", "northwest":
		return NorthWest, true
	default:
		return 0, false
	}
}

func (d Direction) String() string {
	if d < North || d > NorthWest {
		return fmt.Sprintf("direction(%d)", int(d))
	}
	return directionNames[d]
}

func (d Direction) Offset() (dx, dy int) {
	if d < North || d > NorthWest {
		return 0, 0
	}
	o := directionOffsets[d]
	return o[0], o[1]
}

// Opposite returns the direction pointing the other way.
func (d Direction) Opposite() Direction {
	return (d + 4) % 8
}
