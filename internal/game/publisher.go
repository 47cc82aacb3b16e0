package game

import "fmt"

// Publisher delivers encoded deltas to a player's session. Implementations
// must not block the world on a slow or departed reader.
type Publisher interface {
	PublishToPlayer(id PlayerId, data []byte) error
}

// PlayerSubject is the messaging subject a player's deltas are published on.
func PlayerSubject(id PlayerId) string {
	return fmt.Sprintf("player-%s", id)
}
