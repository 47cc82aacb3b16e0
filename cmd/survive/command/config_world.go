package command

import (
	"fmt"
	"os"

	"github.com/pixil98/go-errors"

	"github.com/pixil98/go-survive/internal/game"
	"github.com/pixil98/go-survive/internal/storage"
	"github.com/pixil98/go-survive/internal/tuning"
	"github.com/pixil98/go-survive/internal/worldmap"
)

type WorldConfig struct {
	// MapsPath is a directory of map layout assets.
	MapsPath string `json:"maps_path"`
	// Map is the id of the layout to play on.
	Map        string `json:"map"`
	TuningPath string `json:"tuning_path,omitempty"`
	// QueueSize is how many requests may wait on the world. Zero keeps the
	// default.
	QueueSize int `json:"queue_size,omitempty"`
}

func (c *WorldConfig) validate() error {
	el := errors.NewErrorList()

	if c.MapsPath == "" {
		el.Add(fmt.Errorf("world: maps_path is required"))
	} else if _, err := os.Stat(c.MapsPath); err != nil {
		el.Add(fmt.Errorf("world: invalid maps_path %q: %w", c.MapsPath, err))
	}
	if c.Map == "" {
		el.Add(fmt.Errorf("world: map is required"))
	}
	if c.TuningPath != "" {
		if _, err := os.Stat(c.TuningPath); err != nil {
			el.Add(fmt.Errorf("world: invalid tuning_path %q: %w", c.TuningPath, err))
		}
	}
	if c.QueueSize < 0 {
		el.Add(fmt.Errorf("world: queue_size must not be negative"))
	}

	return el.Err()
}

func (c *WorldConfig) buildGrid() (*worldmap.Grid, error) {
	layouts, err := storage.NewFileStore[*worldmap.Layout](c.MapsPath,
		storage.WithSchema("layout.json", worldmap.LayoutSchema))
	if err != nil {
		return nil, fmt.Errorf("loading map layouts: %w", err)
	}

	layout, ok := layouts.Get(storage.Identifier(c.Map))
	if !ok {
		return nil, fmt.Errorf("map %q not found in %s (have %v)", c.Map, c.MapsPath, layouts.Ids())
	}

	return layout.Grid()
}

func (c *WorldConfig) worldOpts(tune tuning.Tuning, pub game.Publisher) []game.WorldOpt {
	opts := []game.WorldOpt{
		game.WithTuning(tune),
		game.WithPublisher(pub),
	}
	if c.QueueSize > 0 {
		opts = append(opts, game.WithQueueSize(c.QueueSize))
	}
	return opts
}

func (c *WorldConfig) loadTuning() (tuning.Tuning, error) {
	if c.TuningPath == "" {
		return tuning.Default(), nil
	}
	return tuning.Load(c.TuningPath)
}
