package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"

	"github.com/pixil98/go-survive/internal/session"
)

type SessionsConfig struct {
	MaxSessions int    `json:"max_sessions"`
	IdleTimeout string `json:"idle_timeout"`
}

func (c *SessionsConfig) validate() error {
	el := errors.NewErrorList()

	if c.MaxSessions < 0 {
		el.Add(fmt.Errorf("sessions: max_sessions must not be negative"))
	}
	if c.IdleTimeout != "" {
		d, err := time.ParseDuration(c.IdleTimeout)
		if err != nil {
			el.Add(fmt.Errorf("sessions: parsing idle_timeout: %w", err))
		} else if d < time.Minute {
			el.Add(fmt.Errorf("sessions: idle_timeout must be at least 1 minute"))
		}
	}

	return el.Err()
}

func (c *SessionsConfig) options() []session.ManagerOpt {
	opts := []session.ManagerOpt{session.WithMaxSessions(c.MaxSessions)}
	if d, err := time.ParseDuration(c.IdleTimeout); err == nil {
		opts = append(opts, session.WithIdleTimeout(d))
	}
	return opts
}
