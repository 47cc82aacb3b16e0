package worldmap

import (
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestNewGrid(t *testing.T) {
	tests := map[string]struct {
		rows   []string
		spawn  Coord
		expErr string
	}{
		"valid grid": {
			rows:  []string{"..T", "~.:"},
			spawn: Coord{X: 1, Y: 1},
		},
		"no rows": {
			rows:   nil,
			expErr: "map has no rows",
		},
		"ragged rows": {
			rows:   []string{"...", ".."},
			expErr: "row 1 is 2 cells wide, expected 3",
		},
		"unknown symbol": {
			rows:   []string{"..x"},
			expErr: `row 0 column 2: unknown terrain symbol 'x'`,
		},
		"spawn outside": {
			rows:   []string{"..."},
			spawn:  Coord{X: 5, Y: 0},
			expErr: "spawn (5,0) is outside the map",
		},
		"spawn in water": {
			rows:   []string{"~.."},
			spawn:  Coord{X: 0, Y: 0},
			expErr: "spawn (0,0) is on impassable water",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			g, err := NewGrid("test", tt.rows, tt.spawn)
			if tt.expErr != "" {
				if err == nil {
					t.Fatalf("expected error %q, got nil", tt.expErr)
				}
				testutil.AssertEqual(t, "error", err.Error(), tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "width", g.Width(), len(tt.rows[0]))
			testutil.AssertEqual(t, "height", g.Height(), len(tt.rows))
		})
	}
}

func TestGrid_At(t *testing.T) {
	g, err := NewGrid("test", []string{".T", "~^"}, Coord{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := map[string]struct {
		c     Coord
		exp   Terrain
		expOk bool
	}{
		"top left":     {c: Coord{0, 0}, exp: TerrainGrass, expOk: true},
		"top right":    {c: Coord{1, 0}, exp: TerrainForest, expOk: true},
		"bottom left":  {c: Coord{0, 1}, exp: TerrainWater, expOk: true},
		"bottom right": {c: Coord{1, 1}, exp: TerrainMountain, expOk: true},
		"negative x":   {c: Coord{-1, 0}},
		"past height":  {c: Coord{0, 2}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, ok := g.At(tt.c)
			testutil.AssertEqual(t, "ok", ok, tt.expOk)
			if tt.expOk {
				testutil.AssertEqual(t, "terrain", got, tt.exp)
			}
		})
	}
}

func TestGrid_Near(t *testing.T) {
	g, err := NewGrid("test", []string{"...~", "....", "...."}, Coord{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "adjacent water", g.Near(Coord{2, 1}, 1, Terrain.Water), true)
	testutil.AssertEqual(t, "distant water", g.Near(Coord{0, 2}, 1, Terrain.Water), false)
}

func TestParseDirection(t *testing.T) {
	tests := map[string]struct {
		in    string
		exp   Direction
		expOk bool
	}{
		"short":       {in: "n", exp: North, expOk: true},
		"long":        {in: "southwest", exp: SouthWest, expOk: true},
		"mixed case":  {in: "NE", exp: NorthEast, expOk: true},
		"not a dir":   {in: "up"},
		"empty input": {in: ""},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, ok := ParseDirection(tt.in)
			testutil.AssertEqual(t, "ok", ok, tt.expOk)
			if tt.expOk {
				testutil.AssertEqual(t, "direction", got, tt.exp)
			}
		})
	}
}

func TestDirection_Opposite(t *testing.T) {
	for _, d := range Directions {
		testutil.AssertEqual(t, d.String(), d.Opposite().Opposite(), d)
		dx, dy := d.Offset()
		ox, oy := d.Opposite().Offset()
		testutil.AssertEqual(t, d.String()+" dx", dx+ox, 0)
		testutil.AssertEqual(t, d.String()+" dy", dy+oy, 0)
	}
}

func TestCoord_Distance(t *testing.T) {
	testutil.AssertEqual(t, "same", Coord{3, 3}.Distance(Coord{3, 3}), 0)
	testutil.AssertEqual(t, "diagonal", Coord{0, 0}.Distance(Coord{2, 2}), 2)
	testutil.AssertEqual(t, "long axis", Coord{0, 0}.Distance(Coord{-4, 1}), 4)
}
