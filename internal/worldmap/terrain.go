package worldmap

import "fmt"

// Terrain is the kind of ground occupying a single map cell.
type Terrain int

const (
	TerrainGrass Terrain = iota
	TerrainForest
	TerrainWater
	TerrainSand
	TerrainMountain
)

type terrainInfo struct {
	symbol      rune
	name        string
	description string
	passable    bool
	food        bool
	water       bool
}

var terrains = map[Terrain]terrainInfo{
	TerrainGrass: {
		symbol:      '.',
		name:        "grassland",
		description: "Tall grass sways around you. Seeds and roots could be gathered here.",
		passable:    true,
		food:        true,
	},
	TerrainForest: {
		symbol:      'T',
		name:        "forest",
		description: "Dense trees crowd around you. Berry bushes grow in the undergrowth.",
		passable:    true,
		food:        true,
	},
	TerrainWater: {
		symbol:      '~',
		name:        "water",
		description: "Cold, clear water.",
		passable:    false,
		water:       true,
	},
	TerrainSand: {
		symbol:      ':',
		name:        "sand",
		description: "Loose sand shifts under your feet. Nothing grows here.",
		passable:    true,
	},
	TerrainMountain: {
		symbol:      '^',
		name:        "mountain",
		description: "Sheer rock rises above you.",
		passable:    false,
	},
}

var terrainBySymbol = func() map[rune]Terrain {
	m := make(map[rune]Terrain, len(terrains))
	for t, info := range terrains {
		m[info.symbol] = t
	}
	return m
}()

// ParseTerrain maps a layout symbol to its terrain.
func ParseTerrain(r rune) (Terrain, bool) {
	t, ok := terrainBySymbol[r]
	return t, ok
}

func (t Terrain) Symbol() rune {
	return terrains[t].symbol
}

func (t Terrain) String() string {
	if info, ok := terrains[t]; ok {
		return info.name
	}
	return fmt.Sprintf("terrain(%d)", int(t))
}

func (t Terrain) Description() string {
	return terrains[t].description
}

// Passable reports whether a player may stand on the terrain.
func (t Terrain) Passable() bool {
	return terrains[t].passable
}

// Food reports whether something edible can be foraged from the terrain.
func (t Terrain) Food() bool {
	return terrains[t].food
}

// Water reports whether the terrain can be drunk from.
func (t Terrain) Water() bool {
	return terrains[t].water
}
