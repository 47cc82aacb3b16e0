package commands

import (
	"strconv"
	"strings"

	"github.com/pixil98/go-survive/internal/display"
	"github.com/pixil98/go-survive/internal/worldmap"
)

// parseFunc builds a command from the verb the player typed, its
// whitespace-split arguments, and the raw text following the verb.
type parseFunc func(invoked string, args []string, rest string) (Command, error)

type verb struct {
	name    string
	aliases []string
	usage   string
	summary string
	parse   parseFunc
}

// verbs is the table of everything a player can type. Help output follows
// this order.
var verbs = []*verb{
	{
		name:    "go",
		aliases: []string{"move", "walk"},
		usage:   "go <direction>",
		summary: "Walk one step. Directions may be abbreviated (n, ne, e, se, s, sw, w, nw).",
		parse: func(invoked string, args []string, _ string) (Command, error) {
			if len(args) != 1 {
				return nil, InvalidArgument("Go where? Usage: %s <direction>", invoked)
			}
			d, ok := worldmap.ParseDirection(args[0])
			if !ok {
				return nil, InvalidArgument("%q is not a direction.", args[0])
			}
			return Move{Direction: d}, nil
		},
	},
	{
		name:    "north",
		aliases: []string{"n", "northeast", "ne", "east", "e", "southeast", "se", "south", "s", "southwest", "sw", "west", "w", "northwest", "nw"},
		usage:   "<direction>",
		summary: "Shorthand for go <direction>.",
		parse: func(invoked string, args []string, _ string) (Command, error) {
			if err := noArgs(invoked, args); err != nil {
				return nil, err
			}
			d, _ := worldmap.ParseDirection(invoked)
			return Move{Direction: d}, nil
		},
	},
	{
		name:    "look",
		aliases: []string{"l"},
		usage:   "look",
		summary: "Describe your surroundings.",
		parse:   fixed(Look{}),
	},
	{
		name:    "map",
		aliases: []string{"m"},
		usage:   "map [radius]",
		summary: "Draw the map around you.",
		parse: func(invoked string, args []string, _ string) (Command, error) {
			switch len(args) {
			case 0:
				return Map{}, nil
			case 1:
				r, err := strconv.Atoi(args[0])
				if err != nil || r < 1 {
					return nil, InvalidArgument("%q is not a valid radius.", args[0])
				}
				return Map{Radius: r}, nil
			default:
				return nil, InvalidArgument("Usage: %s [radius]", invoked)
			}
		},
	},
	{
		name:    "status",
		aliases: []string{"st", "score", "vitals", "v"},
		usage:   "status",
		summary: "Show your needs, health and the time of day.",
		parse:   fixed(Status{}),
	},
	{
		name:    "who",
		aliases: []string{"players", "pl"},
		usage:   "who",
		summary: "List everyone in the world.",
		parse:   fixed(Who{}),
	},
	{
		name:    "say",
		aliases: []string{"'", `"`},
		usage:   "say <message>",
		summary: "Speak to everyone within earshot.",
		parse: func(invoked string, _ []string, rest string) (Command, error) {
			if rest == "" {
				return nil, InvalidArgument("Say what?")
			}
			return Say{Text: rest}, nil
		},
	},
	{
		name:    "eat",
		aliases: []string{"forage"},
		usage:   "eat",
		summary: "Forage for food where you stand.",
		parse:   fixed(Eat{}),
	},
	{
		name:    "drink",
		usage:   "drink",
		summary: "Drink from water beside you.",
		parse:   fixed(Drink{}),
	},
	{
		name:    "rest",
		aliases: []string{"wait"},
		usage:   "rest",
		summary: "Let time pass.",
		parse:   fixed(Rest{}),
	},
	{
		name:    "sleep",
		usage:   "sleep",
		summary: "Sleep to regain energy. Moving, eating or drinking wakes you.",
		parse:   fixed(Sleep{}),
	},
	{
		name:    "skills",
		aliases: []string{"sk"},
		usage:   "skills",
		summary: "Show your skill levels.",
		parse:   fixed(Skills{}),
	},
	{
		name:    "help",
		aliases: []string{"?"},
		usage:   "help [command]",
		summary: "List commands, or explain one.",
		parse: func(invoked string, args []string, _ string) (Command, error) {
			switch len(args) {
			case 0:
				return Help{}, nil
			case 1:
				v, ok := lookup(args[0])
				if !ok {
					return nil, InvalidArgument("There is no help on %q.", args[0])
				}
				return Help{Topic: v.name}, nil
			default:
				return nil, InvalidArgument("Usage: %s [command]", invoked)
			}
		},
	},
	{
		name:    "quit",
		aliases: []string{"exit", "logout"},
		usage:   "quit",
		summary: "Leave the world.",
		parse:   fixed(Quit{}),
	},
}

var verbIndex map[string]*verb

func init() {
	verbIndex = make(map[string]*verb)
	for _, v := range verbs {
		verbIndex[v.name] = v
		for _, a := range v.aliases {
			verbIndex[a] = v
		}
	}
}

func lookup(name string) (*verb, bool) {
	v, ok := verbIndex[strings.ToLower(name)]
	return v, ok
}

func fixed(c Command) parseFunc {
	return func(invoked string, args []string, _ string) (Command, error) {
		if err := noArgs(invoked, args); err != nil {
			return nil, err
		}
		return c, nil
	}
}

func noArgs(invoked string, args []string) error {
	if len(args) > 0 {
		return InvalidArgument("%s takes no arguments.", invoked)
	}
	return nil
}

// Dispatcher turns a line of player input into a Command. It holds no state
// and is safe for concurrent use.
type Dispatcher struct{}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Parse maps the verb (case-insensitive) to its command and validates the
// arguments. Failures are *UserError values wrapping ErrUnknownCommand or
// ErrInvalidArgument.
func (d *Dispatcher) Parse(line string) (Command, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, InvalidArgument("Say something.")
	}

	// A leading quote is shorthand for say and needs no space after it.
	if line[0] == '\'' || line[0] == '"' {
		v := verbIndex[line[:1]]
		return v.parse(line[:1], nil, strings.TrimSpace(line[1:]))
	}

	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	v, ok := lookup(name)
	if !ok {
		return nil, unknownCommand(name)
	}

	return v.parse(strings.ToLower(name), strings.Fields(rest), rest)
}

var (
	helpListTemplate = display.MustParseTemplate("help", `Commands:
{{- range .Verbs }}
  {{ .Usage | printf "%-*s" $.Width }}  {{ .Summary }}
{{- end }}`)

	helpTopicTemplate = display.MustParseTemplate("help-topic", `Usage: {{ .Usage }}
{{ .Summary }}
{{- with .Aliases }}
Also: {{ . | sortAlpha | join ", " }}
{{- end }}`)
)

// HelpText returns the command list, or the usage of a single command when
// topic is set.
func HelpText(topic string) (string, error) {
	if topic != "" {
		v, ok := lookup(topic)
		if !ok {
			return "", InvalidArgument("There is no help on %q.", topic)
		}
		return helpTopicTemplate.Execute(struct {
			Usage, Summary string
			Aliases        []string
		}{v.usage, v.summary, append([]string(nil), v.aliases...)})
	}

	type entry struct{ Usage, Summary string }
	entries := make([]entry, len(verbs))
	width := 0
	for i, v := range verbs {
		entries[i] = entry{v.usage, v.summary}
		width = max(width, len(v.usage))
	}
	return helpListTemplate.Execute(struct {
		Width int
		Verbs []entry
	}{width, entries})
}
