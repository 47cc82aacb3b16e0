package command

import (
	"fmt"
	"os"

	"github.com/pixil98/go-survive/internal/journal"
)

const defaultJournalPrefix = "survive"

// JournalConfig enables the tick and session journal when Path is set.
type JournalConfig struct {
	Path   string `json:"path"`
	Prefix string `json:"prefix"`
}

func (c *JournalConfig) validate() error {
	if c.Path == "" {
		return nil
	}
	info, err := os.Stat(c.Path)
	if err != nil {
		return fmt.Errorf("journal: invalid path %q: %w", c.Path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("journal: path %q is not a directory", c.Path)
	}
	return nil
}

func (c *JournalConfig) buildWriter() *journal.Writer {
	if c.Path == "" {
		return nil
	}
	prefix := c.Prefix
	if prefix == "" {
		prefix = defaultJournalPrefix
	}
	return journal.NewWriter(c.Path, prefix)
}
