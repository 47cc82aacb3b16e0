package minimap

import (
	"sync"
	"testing"

	"github.com/pixil98/go-survive/internal/worldmap"
	"github.com/pixil98/go-testutil"
)

func newTestGrid(t *testing.T) *worldmap.Grid {
	t.Helper()
	g, err := worldmap.NewGrid("test", []string{
		".T~..",
		"..T..",
		"~....",
		"..:^.",
	}, worldmap.Coord{X: 0, Y: 0})
	if err != nil {
		t.Fatalf("building grid: %v", err)
	}
	return g
}

func TestRender(t *testing.T) {
	g := newTestGrid(t)

	tests := map[string]struct {
		center worldmap.Coord
		radius int
		opts   []Option
		exp    []string
	}{
		"radius 2 at corner": {
			center: worldmap.Coord{X: 0, Y: 0},
			radius: 2,
			exp: []string{
				"+-----+",
				"|     |",
				"|     |",
				"|  @T~|",
				"|  ..T|",
				"|  ~..|",
				"+-----+",
			},
		},
		"radius 1 in middle": {
			center: worldmap.Coord{X: 2, Y: 2},
			radius: 1,
			exp: []string{
				"+---+",
				"|.T.|",
				"|.@.|",
				"|.:^|",
				"+---+",
			},
		},
		"radius 1 at bottom right edge": {
			center: worldmap.Coord{X: 4, Y: 3},
			radius: 1,
			exp: []string{
				"+---+",
				"|.. |",
				"|^@ |",
				"|   |",
				"+---+",
			},
		},
		"radius 0": {
			center: worldmap.Coord{X: 1, Y: 1},
			radius: 0,
			exp:    []string{"+-+", "|@|", "+-+"},
		},
		"negative radius treated as zero": {
			center: worldmap.Coord{X: 1, Y: 1},
			radius: -3,
			exp:    []string{"+-+", "|@|", "+-+"},
		},
		"markers and no border": {
			center: worldmap.Coord{X: 1, Y: 1},
			radius: 1,
			opts: []Option{
				WithoutBorder(),
				WithMarkers(map[worldmap.Coord]rune{
					{X: 2, Y: 2}: OtherSymbol,
					{X: 1, Y: 1}: OtherSymbol,
				}),
			},
			exp: []string{
				".T~",
				".@T",
				"~.*",
			},
		},
		"entirely off map": {
			center: worldmap.Coord{X: 20, Y: 20},
			radius: 1,
			opts:   []Option{WithoutBorder()},
			exp:    []string{"   ", "   ", "   "},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := Render(g, tt.center, tt.radius, tt.opts...)
			testutil.AssertEqual(t, "row count", len(got), len(tt.exp))
			for i := range tt.exp {
				if i < len(got) {
					testutil.AssertEqual(t, "row", got[i], tt.exp[i])
				}
			}
		})
	}
}

func TestRender_ConcurrentReaders(t *testing.T) {
	g := newTestGrid(t)
	exp := String(g, worldmap.Coord{X: 2, Y: 1}, 2)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := String(g, worldmap.Coord{X: 2, Y: 1}, 2); got != exp {
				t.Errorf("concurrent render differs:\n%s\nvs\n%s", got, exp)
			}
		}()
	}
	wg.Wait()
}
