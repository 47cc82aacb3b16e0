package listener

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/pixil98/go-survive/internal/session"
)

// SessionRunner serves a single client connection until it ends.
type SessionRunner interface {
	RunSession(ctx context.Context, conn io.ReadWriter) error
}

type ConnectionManager struct {
	sr SessionRunner
}

func NewConnectionManager(sr SessionRunner) *ConnectionManager {
	return &ConnectionManager{
		sr: sr,
	}
}

func (m *ConnectionManager) AcceptConnection(ctx context.Context, conn io.ReadWriter) {
	err := m.sr.RunSession(ctx, conn)
	switch {
	case errors.Is(err, session.ErrTooManySessions):
		slog.InfoContext(ctx, "turned away connection", "error", err)
	case err != nil:
		slog.WarnContext(ctx, "player session", "error", err)
	}
}
