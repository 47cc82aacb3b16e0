package game

import (
	"github.com/google/uuid"

	"github.com/pixil98/go-survive/internal/tuning"
	"github.com/pixil98/go-survive/internal/worldmap"
)

const (
	NeedMin = 0.0
	NeedMax = 100.0
)

// PlayerId identifies a player for as long as their session is active. Ids
// are never reused.
type PlayerId string

func newPlayerId() PlayerId {
	return PlayerId(uuid.NewString())
}

type Needs struct {
	Hunger float64 `json:"hunger"`
	Thirst float64 `json:"thirst"`
	Energy float64 `json:"energy"`
}

func clampNeed(v float64) float64 {
	return min(max(v, NeedMin), NeedMax)
}

type Skill string

const (
	SkillForaging Skill = "foraging"
	SkillSurvival Skill = "survival"
)

// Skills lists every skill in display order.
var Skills = []Skill{SkillForaging, SkillSurvival}

type skillProgress struct {
	level      int
	experience int
}

// Condition summarizes how a player is doing, derived from health and needs.
type Condition string

const (
	ConditionHealthy    Condition = "healthy"
	ConditionHungry     Condition = "hungry"
	ConditionThirsty    Condition = "thirsty"
	ConditionStarving   Condition = "starving"
	ConditionDehydrated Condition = "dehydrated"
	ConditionTired      Condition = "tired"
	ConditionExhausted  Condition = "exhausted"
	ConditionNearDeath  Condition = "near death"
)

// Player is the world's record of one active player. It is owned by the
// world goroutine and never shared.
type Player struct {
	id        PlayerId
	name      string
	pos       worldmap.Coord
	needs     Needs
	health    float64
	skills    map[Skill]*skillProgress
	condition Condition
	asleep    bool
	deaths    int
}

func newPlayer(id PlayerId, name string, pos worldmap.Coord, t tuning.Tuning) *Player {
	p := &Player{
		id:     id,
		name:   name,
		pos:    pos,
		skills: make(map[Skill]*skillProgress, len(Skills)),
	}
	for _, s := range Skills {
		p.skills[s] = &skillProgress{}
	}
	p.revive(pos, t)
	return p
}

// revive puts the player at pos, awake, with full needs and health.
func (p *Player) revive(pos worldmap.Coord, t tuning.Tuning) {
	p.pos = pos
	p.asleep = false
	p.needs = Needs{Hunger: NeedMax, Thirst: NeedMax, Energy: NeedMax}
	p.health = t.Health.Max
	p.updateCondition(t)
}

func (p *Player) updateCondition(t tuning.Tuning) {
	p.condition = deriveCondition(p.needs, p.health, t)
}

func deriveCondition(n Needs, health float64, t tuning.Tuning) Condition {
	switch {
	case health <= t.Health.Max/4:
		return ConditionNearDeath
	case n.Thirst <= NeedMin:
		return ConditionDehydrated
	case n.Hunger <= NeedMin:
		return ConditionStarving
	case n.Energy <= NeedMin:
		return ConditionExhausted
	case n.Thirst < t.Needs.WarnBelow:
		return ConditionThirsty
	case n.Hunger < t.Needs.WarnBelow:
		return ConditionHungry
	case n.Energy < t.Needs.WarnBelow:
		return ConditionTired
	default:
		return ConditionHealthy
	}
}

// train records one successful use of a skill and reports whether it gained
// a level.
func (p *Player) train(s Skill, t tuning.Tuning) bool {
	sp := p.skills[s]
	if sp.level >= t.Skills.MaxLevel {
		return false
	}
	sp.experience++
	level := min(sp.experience/t.Skills.ExperiencePerLevel, t.Skills.MaxLevel)
	if level == sp.level {
		return false
	}
	sp.level = level
	return true
}

// restoreAmount is how much a single eat or drink restores for a player with
// the given skill.
func (p *Player) restoreAmount(base float64, s Skill, t tuning.Tuning) float64 {
	return base + t.Skills.RestoreBonus*float64(p.skills[s].level)
}

func (p *Player) vitals(t tuning.Tuning) *Vitals {
	return &Vitals{
		Hunger:    p.needs.Hunger,
		Thirst:    p.needs.Thirst,
		Energy:    p.needs.Energy,
		Health:    p.health,
		MaxHealth: t.Health.Max,
		Condition: p.condition,
		Asleep:    p.asleep,
	}
}

func (p *Player) view() PlayerView {
	skills := make(map[Skill]int, len(p.skills))
	for s, sp := range p.skills {
		skills[s] = sp.level
	}
	return PlayerView{
		Id:        p.id,
		Name:      p.name,
		Position:  p.pos,
		Needs:     p.needs,
		Health:    p.health,
		Condition: p.condition,
		Asleep:    p.asleep,
		Skills:    skills,
		Deaths:    p.deaths,
	}
}
