package messaging

import (
	"github.com/pixil98/go-survive/internal/game"
)

// NatsPublisher publishes deltas to individual player NATS subjects.
type NatsPublisher struct {
	server *NatsServer
}

// NewNatsPublisher wraps a NatsServer for per-player message delivery.
func NewNatsPublisher(server *NatsServer) *NatsPublisher {
	return &NatsPublisher{server: server}
}

// PublishToPlayer fails with ErrNotStarted rather than waiting for the
// server, since the world goroutine calls it.
func (p *NatsPublisher) PublishToPlayer(id game.PlayerId, data []byte) error {
	select {
	case <-p.server.Ready():
	default:
		return ErrNotStarted
	}
	return p.server.Publish(game.PlayerSubject(id), data)
}
