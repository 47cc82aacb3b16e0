package commands

import "github.com/pixil98/go-survive/internal/worldmap"

// Command is a parsed player request. The set of implementations is closed:
// every variant lives in this file, and the world handles each one in a single
// type switch.
type Command interface {
	// Verb is the canonical name of the command, used for logging and help.
	Verb() string
	command()
}

// Move walks one cell in a direction.
type Move struct {
	Direction worldmap.Direction
}

// Look describes the player's surroundings.
type Look struct{}

// Map draws the mini-map. A zero Radius means the configured default.
type Map struct {
	Radius int
}

// Status reports needs and health.
type Status struct{}

// Who lists active players.
type Who struct{}

// Say speaks to everyone within earshot.
type Say struct {
	Text string
}

// Eat forages food from the current cell.
type Eat struct{}

// Drink drinks from nearby water.
type Drink struct{}

// Rest lets time pass.
type Rest struct{}

// Sleep rests until energy is restored.
type Sleep struct{}

// Skills lists skill levels.
type Skills struct{}

// Help lists commands, or explains one when Topic is set.
type Help struct {
	Topic string
}

// Quit ends the session.
type Quit struct{}

func (Move) Verb() string   { return "move" }
func (Look) Verb() string   { return "look" }
func (Map) Verb() string    { return "map" }
func (Status) Verb() string { return "status" }
func (Who) Verb() string    { return "who" }
func (Say) Verb() string    { return "say" }
func (Eat) Verb() string    { return "eat" }
func (Drink) Verb() string  { return "drink" }
func (Rest) Verb() string   { return "rest" }
func (Sleep) Verb() string  { return "sleep" }
func (Skills) Verb() string { return "skills" }
func (Help) Verb() string   { return "help" }
func (Quit) Verb() string   { return "quit" }

func (Move) command()   {}
func (Look) command()   {}
func (Map) command()    {}
func (Status) command() {}
func (Who) command()    {}
func (Say) command()    {}
func (Eat) command()    {}
func (Drink) command()  {}
func (Rest) command()   {}
func (Sleep) command()  {}
func (Skills) command() {}
func (Help) command()   {}
func (Quit) command()   {}
