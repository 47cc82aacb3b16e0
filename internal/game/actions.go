package game

import (
	"fmt"
	"strings"

	"github.com/pixil98/go-survive/internal/commands"
	"github.com/pixil98/go-survive/internal/display"
	"github.com/pixil98/go-survive/internal/worldmap"
)

const statusBoxWidth = 44

var (
	statusTemplate = display.MustParseTemplate("status", `Health {{ bar .Health .MaxHealth }}
Hunger {{ bar .Hunger .NeedMax }}
Thirst {{ bar .Thirst .NeedMax }}
Energy {{ bar .Energy .NeedMax }}`)

	whoTemplate = display.MustParseTemplate("who", `Survivors in the wilderness ({{ len .Players }}):
{{- range .Players }}
  {{ .Name }}{{ if .You }} (you){{ end }}{{ if .Asleep }} (asleep){{ end }}
{{- end }}`)

	skillsTemplate = display.MustParseTemplate("skills", `Your skills:
{{- range .Skills }}
  {{ printf "%-10s" .Name }} level {{ .Level }}
  {{- if .Mastered }}  (mastered)
  {{- else }}  {{ shortbar .Progress $.PerLevel }}  {{ .Remaining }} more {{ ternary "use" "uses" (eq .Remaining 1) }} to level {{ add1 .Level }}
  {{- end }}
{{- end }}`)
)

func (s *state) apply(id PlayerId, cmd commands.Command) (Result, error) {
	p, ok := s.players[id]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrInternalState, id)
	}

	woke := false
	if p.asleep {
		switch cmd.(type) {
		case commands.Look, commands.Map:
			return Result{Text: "You can't look while you're asleep."}, nil
		case commands.Say:
			return Result{Text: "You can't talk while you're asleep."}, nil
		case commands.Sleep:
			return Result{Text: "You are already asleep."}, nil
		case commands.Move, commands.Eat, commands.Drink, commands.Rest:
			s.wake(p, fmt.Sprintf("%s jolts awake.", p.name))
			woke = true
		}
	}

	res, err := s.perform(p, cmd)
	if woke && err == nil {
		res.Text = strings.TrimSuffix("You wake with a start.\n"+res.Text, "\n")
		if res.Delta == nil {
			res.Delta = &Delta{Tick: s.tick}
		}
		if res.Delta.Vitals == nil {
			res.Delta.Vitals = p.vitals(s.tuning)
		}
	}
	return res, err
}

func (s *state) perform(p *Player, cmd commands.Command) (Result, error) {
	switch c := cmd.(type) {
	case commands.Move:
		return s.move(p, c.Direction), nil
	case commands.Look:
		return s.look(p), nil
	case commands.Map:
		return s.showMap(p, c.Radius)
	case commands.Status:
		return s.status(p)
	case commands.Who:
		return s.who(p)
	case commands.Say:
		return s.say(p, c.Text), nil
	case commands.Eat:
		return s.eat(p), nil
	case commands.Drink:
		return s.drink(p), nil
	case commands.Rest:
		return Result{Text: "You sit down and rest for a while."}, nil
	case commands.Sleep:
		return s.sleep(p), nil
	case commands.Skills:
		return s.skills(p)
	case commands.Help:
		text, err := commands.HelpText(c.Topic)
		if err != nil {
			return Result{}, err
		}
		return Result{Text: text}, nil
	case commands.Quit:
		return Result{Text: "You leave the wilderness behind. Farewell.", Quit: true}, nil
	default:
		return Result{}, commands.NewUserError(commands.ErrUnknownCommand, "You don't know how to do that.")
	}
}

func (s *state) move(p *Player, dir worldmap.Direction) Result {
	dest := p.pos.Step(dir)
	t, ok := s.grid.At(dest)
	if !ok {
		return Result{Text: "The wilderness ends there. You can't go that way."}
	}
	if !t.Passable() {
		return Result{Text: fmt.Sprintf("The %s blocks your way %s.", t, dir)}
	}

	sight := s.tuning.Vision.SightRadius
	from := p.pos
	watchers := s.nearby(from, sight, p.id)
	p.pos = dest
	for _, o := range s.nearby(dest, sight, p.id) {
		if o.pos.Distance(from) > sight {
			watchers = append(watchers, o)
		}
	}

	for _, o := range watchers {
		sawFrom := o.pos.Distance(from) <= sight
		seesTo := o.pos.Distance(dest) <= sight
		var msg string
		switch {
		case sawFrom && seesTo:
			msg = fmt.Sprintf("%s moves %s.", p.name, dir)
		case sawFrom:
			msg = fmt.Sprintf("%s leaves to the %s.", p.name, dir)
		default:
			msg = fmt.Sprintf("%s arrives from the %s.", p.name, dir.Opposite())
		}
		s.notify(o, msg, true)
	}

	return Result{
		Text:  fmt.Sprintf("You walk %s.\n%s", dir, t.Description()),
		Delta: &Delta{Tick: s.tick, Map: s.mapFor(p, s.tuning.Vision.MapRadius)},
	}
}

func (s *state) look(p *Player) Result {
	t, _ := s.grid.At(p.pos)
	c := s.clock()
	lines := []string{
		fmt.Sprintf("You are standing in %s.", t),
		t.Description(),
		fmt.Sprintf("It is %s (%s).", c.Period(), c),
	}
	if s.grid.Near(p.pos, 1, worldmap.Terrain.Water) && !t.Water() {
		lines = append(lines, "You hear water close by.")
	}
	if others := s.nearby(p.pos, s.tuning.Vision.SightRadius, p.id); len(others) > 0 {
		lines = append(lines, fmt.Sprintf("You see %s nearby.", joinNames(others)))
	}
	lines = append(lines, "Exits: "+s.exits(p.pos))

	return Result{
		Text:  strings.Join(lines, "\n"),
		Delta: &Delta{Tick: s.tick, Map: s.mapFor(p, s.tuning.Vision.MapRadius)},
	}
}

// exits lists the directions a player at pos can walk, clockwise from north.
func (s *state) exits(pos worldmap.Coord) string {
	var open []string
	for _, d := range worldmap.Directions {
		if t, ok := s.grid.At(pos.Step(d)); ok && t.Passable() {
			open = append(open, d.String())
		}
	}
	if len(open) == 0 {
		return "none"
	}
	return strings.Join(open, ", ")
}

func (s *state) showMap(p *Player, radius int) (Result, error) {
	if radius == 0 {
		radius = s.tuning.Vision.MapRadius
	}
	if radius < 1 || radius > s.tuning.Vision.MaxMapRadius {
		return Result{}, commands.InvalidArgument("The map radius must be between 1 and %d.", s.tuning.Vision.MaxMapRadius)
	}
	return Result{Delta: &Delta{Tick: s.tick, Map: s.mapFor(p, radius)}}, nil
}

func (s *state) status(p *Player) (Result, error) {
	bars, err := statusTemplate.Execute(struct {
		Health, MaxHealth, Hunger, Thirst, Energy, NeedMax float64
	}{
		Health:    p.health,
		MaxHealth: s.tuning.Health.Max,
		Hunger:    p.needs.Hunger,
		Thirst:    p.needs.Thirst,
		Energy:    p.needs.Energy,
		NeedMax:   NeedMax,
	})
	if err != nil {
		return Result{}, fmt.Errorf("rendering status: %w", err)
	}

	var barLines []display.Line
	for _, l := range strings.Split(bars, "\n") {
		barLines = append(barLines, display.Line{Value: l})
	}

	condition := string(p.condition)
	if p.asleep {
		condition += ", asleep"
	}

	t, _ := s.grid.At(p.pos)
	text := display.Box([]display.Section{
		{Header: p.name, Lines: barLines},
		{Lines: []display.Line{
			{Value: fmt.Sprintf("Condition: %s", condition)},
			{Value: fmt.Sprintf("Location:  %s %s", t, p.pos)},
			{Value: fmt.Sprintf("Deaths:    %d", p.deaths)},
		}},
		{Lines: []display.Line{
			{Value: s.clock().String(), Center: true},
		}},
	}, statusBoxWidth)

	return Result{
		Text:  text,
		Delta: &Delta{Tick: s.tick, Vitals: p.vitals(s.tuning)},
	}, nil
}

func (s *state) who(p *Player) (Result, error) {
	type entry struct {
		Name        string
		You, Asleep bool
	}
	var players []entry
	for _, o := range s.sortedPlayers() {
		players = append(players, entry{Name: o.name, You: o.id == p.id, Asleep: o.asleep})
	}

	text, err := whoTemplate.Execute(struct{ Players []entry }{players})
	if err != nil {
		return Result{}, fmt.Errorf("rendering who: %w", err)
	}
	return Result{Text: text}, nil
}

func (s *state) say(p *Player, text string) Result {
	for _, o := range s.nearby(p.pos, s.tuning.Vision.HearingRadius, p.id) {
		s.notify(o, fmt.Sprintf("%s says, \"%s\"", p.name, text), false)
	}
	return Result{Text: fmt.Sprintf("You say, \"%s\"", text)}
}

func (s *state) eat(p *Player) Result {
	t, _ := s.grid.At(p.pos)
	if !t.Food() {
		return Result{Text: fmt.Sprintf("There is nothing to eat in the %s.", t)}
	}
	if p.needs.Hunger >= NeedMax {
		return Result{Text: "You are not hungry."}
	}

	p.needs.Hunger = clampNeed(p.needs.Hunger + p.restoreAmount(s.tuning.Needs.EatRestore, SkillForaging, s.tuning))
	p.updateCondition(s.tuning)

	lines := []string{fmt.Sprintf("You forage in the %s and eat what you find.", t)}
	if p.train(SkillForaging, s.tuning) {
		lines = append(lines, fmt.Sprintf("Your %s skill improves to level %d.", SkillForaging, p.skills[SkillForaging].level))
	}
	return Result{
		Text:  strings.Join(lines, "\n"),
		Delta: &Delta{Tick: s.tick, Vitals: p.vitals(s.tuning)},
	}
}

func (s *state) drink(p *Player) Result {
	if !s.grid.Near(p.pos, 1, worldmap.Terrain.Water) {
		return Result{Text: "There is no water within reach."}
	}
	if p.needs.Thirst >= NeedMax {
		return Result{Text: "You are not thirsty."}
	}

	p.needs.Thirst = clampNeed(p.needs.Thirst + p.restoreAmount(s.tuning.Needs.DrinkRestore, SkillSurvival, s.tuning))
	p.updateCondition(s.tuning)

	lines := []string{"You kneel by the water and drink deeply."}
	if p.train(SkillSurvival, s.tuning) {
		lines = append(lines, fmt.Sprintf("Your %s skill improves to level %d.", SkillSurvival, p.skills[SkillSurvival].level))
	}
	return Result{
		Text:  strings.Join(lines, "\n"),
		Delta: &Delta{Tick: s.tick, Vitals: p.vitals(s.tuning)},
	}
}

func (s *state) sleep(p *Player) Result {
	if p.needs.Energy >= s.tuning.Needs.SleepBelow {
		return Result{Text: "You're not tired enough to sleep."}
	}

	s.tellNearby(p, fmt.Sprintf("%s lies down and falls asleep.", p.name))
	p.asleep = true
	return Result{
		Text:  "You close your eyes and drift off to sleep.",
		Delta: &Delta{Tick: s.tick, Vitals: p.vitals(s.tuning)},
	}
}

// wake brings p out of sleep and tells anyone watching.
func (s *state) wake(p *Player, observed string) {
	p.asleep = false
	s.tellNearby(p, observed)
}

func (s *state) skills(p *Player) (Result, error) {
	type entry struct {
		Name             Skill
		Level, Remaining int
		Progress         float64
		Mastered         bool
	}
	per := s.tuning.Skills.ExperiencePerLevel
	entries := make([]entry, 0, len(Skills))
	for _, sk := range Skills {
		sp := p.skills[sk]
		entries = append(entries, entry{
			Name:      sk,
			Level:     sp.level,
			Remaining: (sp.level+1)*per - sp.experience,
			Progress:  float64(sp.experience - sp.level*per),
			Mastered:  sp.level >= s.tuning.Skills.MaxLevel,
		})
	}

	text, err := skillsTemplate.Execute(struct {
		PerLevel float64
		Skills   []entry
	}{float64(per), entries})
	if err != nil {
		return Result{}, fmt.Errorf("rendering skills: %w", err)
	}
	return Result{Text: text}, nil
}
