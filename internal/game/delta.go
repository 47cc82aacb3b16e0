package game

import (
	"encoding/json"
	"fmt"

	"github.com/pixil98/go-survive/internal/worldmap"
)

type Vitals struct {
	Hunger    float64   `json:"hunger"`
	Thirst    float64   `json:"thirst"`
	Energy    float64   `json:"energy"`
	Health    float64   `json:"health"`
	MaxHealth float64   `json:"max_health"`
	Condition Condition `json:"condition"`
	Asleep    bool      `json:"asleep,omitempty"`
}

// Delta is an incremental update for one player. Empty fields are unchanged.
type Delta struct {
	Tick     uint64   `json:"tick"`
	Vitals   *Vitals  `json:"vitals,omitempty"`
	Messages []string `json:"messages,omitempty"`
	Map      []string `json:"map,omitempty"`
}

func (d *Delta) Empty() bool {
	return d.Vitals == nil && len(d.Messages) == 0 && len(d.Map) == 0
}

func (d *Delta) Encode() ([]byte, error) {
	return json.Marshal(d)
}

func DecodeDelta(data []byte) (Delta, error) {
	var d Delta
	if err := json.Unmarshal(data, &d); err != nil {
		return Delta{}, fmt.Errorf("decoding delta: %w", err)
	}
	return d, nil
}

// Result is the response to a command for the player who issued it.
type Result struct {
	Text  string
	Delta *Delta
	// Quit asks the session to close.
	Quit bool
}

// TickReport summarizes one processed tick.
type TickReport struct {
	Tick    uint64
	Delayed bool
	Deltas  map[PlayerId]Delta
}

// Snapshot is a read-only copy of the world at one moment.
type Snapshot struct {
	Tick         uint64
	DelayedTicks uint64
	Clock        Clock
	// Map is the name of the grid being played.
	Map     string
	Players []PlayerView
}

type PlayerView struct {
	Id        PlayerId
	Name      string
	Position  worldmap.Coord
	Needs     Needs
	Health    float64
	Condition Condition
	Asleep    bool
	Skills    map[Skill]int
	Deaths    int
}

// Player returns the view of the named player, matching case-insensitively.
func (s Snapshot) Player(name string) (PlayerView, bool) {
	key := nameKey(name)
	for _, p := range s.Players {
		if nameKey(p.Name) == key {
			return p, true
		}
	}
	return PlayerView{}, false
}
