package game

import "errors"

var (
	ErrNameConflict = errors.New("name already in use")
	ErrInvalidName  = errors.New("invalid name")
	// ErrInternalState reports a request for a player the world no longer
	// holds. It ends that player's session only.
	ErrInternalState = errors.New("player is not in the world")
	ErrWorldStopped  = errors.New("world stopped")
)
