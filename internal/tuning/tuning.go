// Package tuning holds the numbers that pace survival: how fast needs drain,
// how much food, water and sleep restore, and how far players can see.
package tuning

import (
	"fmt"
	"os"

	"github.com/pixil98/go-errors"
	"gopkg.in/yaml.v3"
)

type Tuning struct {
	Needs  Needs  `yaml:"needs"`
	Health Health `yaml:"health"`
	Skills Skills `yaml:"skills"`
	Vision Vision `yaml:"vision"`
	Clock  Clock  `yaml:"clock"`
}

type Needs struct {
	HungerDecay  float64 `yaml:"hunger_decay"`
	ThirstDecay  float64 `yaml:"thirst_decay"`
	EatRestore   float64 `yaml:"eat_restore"`
	DrinkRestore float64 `yaml:"drink_restore"`
	// EnergyDecay is lost each tick awake; SleepRestore is gained each tick
	// asleep.
	EnergyDecay  float64 `yaml:"energy_decay"`
	SleepRestore float64 `yaml:"sleep_restore"`
	// SleepBelow is the energy a player must be under to fall asleep.
	SleepBelow float64 `yaml:"sleep_below"`
	// WarnBelow is the level under which players are told a need is pressing.
	WarnBelow float64 `yaml:"warn_below"`
}

type Health struct {
	Max            float64 `yaml:"max"`
	StarvationLoss float64 `yaml:"starvation_loss"`
	Regen          float64 `yaml:"regen"`
	// RegenAbove is the level both needs must exceed before health regenerates.
	RegenAbove float64 `yaml:"regen_above"`
}

type Skills struct {
	// ExperiencePerLevel is how many successful uses it takes to gain a level.
	ExperiencePerLevel int     `yaml:"experience_per_level"`
	MaxLevel           int     `yaml:"max_level"`
	RestoreBonus       float64 `yaml:"restore_bonus"`
}

type Vision struct {
	SightRadius   int `yaml:"sight_radius"`
	HearingRadius int `yaml:"hearing_radius"`
	MapRadius     int `yaml:"map_radius"`
	MaxMapRadius  int `yaml:"max_map_radius"`
}

type Clock struct {
	// TickSeconds is how much in-game time passes per tick.
	TickSeconds int `yaml:"tick_seconds"`
}

// Default returns the tuning used when no file is configured.
func Default() Tuning {
	return Tuning{
		Needs: Needs{
			HungerDecay:  5,
			ThirstDecay:  5,
			EatRestore:   25,
			DrinkRestore: 30,
			EnergyDecay:  1,
			SleepRestore: 5,
			SleepBelow:   75,
			WarnBelow:    25,
		},
		Health: Health{
			Max:            100,
			StarvationLoss: 10,
			Regen:          1,
			RegenAbove:     50,
		},
		Skills: Skills{
			ExperiencePerLevel: 5,
			MaxLevel:           10,
			RestoreBonus:       2,
		},
		Vision: Vision{
			SightRadius:   3,
			HearingRadius: 5,
			MapRadius:     3,
			MaxMapRadius:  8,
		},
		Clock: Clock{
			TickSeconds: 15,
		},
	}
}

// Load reads a YAML file on top of the defaults, so a file only needs to name
// the values it changes.
func Load(path string) (Tuning, error) {
	t := Default()

	raw, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("reading tuning %q: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("parsing tuning %q: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("validating tuning %q: %w", path, err)
	}

	return t, nil
}

func (t *Tuning) Validate() error {
	el := errors.NewErrorList()

	if t.Needs.HungerDecay < 0 || t.Needs.ThirstDecay < 0 {
		el.Add(fmt.Errorf("needs decay must not be negative"))
	}
	if t.Needs.EnergyDecay < 0 {
		el.Add(fmt.Errorf("needs energy_decay must not be negative"))
	}
	if t.Needs.EatRestore <= 0 || t.Needs.DrinkRestore <= 0 || t.Needs.SleepRestore <= 0 {
		el.Add(fmt.Errorf("needs restore amounts must be positive"))
	}
	if t.Needs.SleepBelow <= 0 || t.Needs.SleepBelow > 100 {
		el.Add(fmt.Errorf("needs sleep_below must be between 0 and 100"))
	}
	if t.Health.Max <= 0 {
		el.Add(fmt.Errorf("health max must be positive"))
	}
	if t.Health.StarvationLoss < 0 || t.Health.Regen < 0 {
		el.Add(fmt.Errorf("health loss and regen must not be negative"))
	}
	if t.Skills.ExperiencePerLevel <= 0 {
		el.Add(fmt.Errorf("skills experience_per_level must be positive"))
	}
	if t.Skills.MaxLevel < 0 {
		el.Add(fmt.Errorf("skills max_level must not be negative"))
	}
	if t.Vision.MapRadius < 0 || t.Vision.SightRadius < 0 || t.Vision.HearingRadius < 0 {
		el.Add(fmt.Errorf("vision radii must not be negative"))
	}
	if t.Vision.MaxMapRadius < t.Vision.MapRadius {
		el.Add(fmt.Errorf("vision max_map_radius must be at least map_radius"))
	}

	if t.Clock.TickSeconds <= 0 {
		el.Add(fmt.Errorf("clock tick_seconds must be positive"))
	}

	return el.Err()
}
