package session

// State is where a session is in its life. States only move forward.
type State int32

const (
	StateConnecting State = iota
	StateNaming
	StateActive
	StateClosing
	StateClosed
)

var stateNames = [...]string{
	StateConnecting: "connecting",
	StateNaming:     "naming",
	StateActive:     "active",
	StateClosing:    "closing",
	StateClosed:     "closed",
}

func (s State) String() string {
	if s < StateConnecting || s > StateClosed {
		return "unknown"
	}
	return stateNames[s]
}
