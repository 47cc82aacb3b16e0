package worldmap

import (
	"fmt"

	"github.com/pixil98/go-errors"
)

// LayoutSchema is the JSON schema every layout asset file must satisfy.
const LayoutSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["version", "id", "spec"],
  "properties": {
    "version": {"type": "integer", "minimum": 1},
    "id": {"type": "string", "pattern": "^[a-zA-Z0-9-]+$"},
    "spec": {
      "type": "object",
      "required": ["name", "rows", "spawn"],
      "properties": {
        "name": {"type": "string", "minLength": 1},
        "rows": {
          "type": "array",
          "minItems": 1,
          "items": {"type": "string", "pattern": "^[.T~:^]+$"}
        },
        "spawn": {
          "type": "object",
          "required": ["x", "y"],
          "properties": {
            "x": {"type": "integer", "minimum": 0},
            "y": {"type": "integer", "minimum": 0}
          }
        }
      }
    }
  }
}`

// Layout is the stored form of a map: rows of terrain symbols plus a spawn.
type Layout struct {
	Name  string   `json:"name"`
	Rows  []string `json:"rows"`
	Spawn Coord    `json:"spawn"`
}

func (l *Layout) Validate() error {
	el := errors.NewErrorList()

	if l.Name == "" {
		el.Add(fmt.Errorf("name is required"))
	}
	if len(l.Rows) == 0 {
		el.Add(fmt.Errorf("rows are required"))
		return el.Err()
	}

	_, err := l.Grid()
	el.Add(err)

	return el.Err()
}

// Grid builds the playable grid described by the layout.
func (l *Layout) Grid() (*Grid, error) {
	return NewGrid(l.Name, l.Rows, l.Spawn)
}
