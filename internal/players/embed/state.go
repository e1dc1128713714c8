package embed

type State int

const (
	// StateWaiting polls for the external player library.
	StateWaiting State = iota
	StateLoading
	StateReady
	StatePlaying
	StatePaused
	StateEnded
	// StateStopped means the library never became available. It is not an error.
	StateStopped
	StateUnavailable
)

func (s State) String() string {
	switch s {
	case StateWaiting:
		return "waiting"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateEnded:
		return "ended"
	case StateStopped:
		return "stopped"
	case StateUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Stopped and Unavailable are terminal for an item; only a new Load leaves them.
var transitions = map[State][]State{
	StateWaiting:     {StateLoading, StateStopped, StateUnavailable},
	StateLoading:     {StateReady, StatePlaying, StatePaused, StateEnded, StateUnavailable},
	StateReady:       {StateLoading, StatePlaying, StatePaused, StateEnded, StateUnavailable},
	StatePlaying:     {StateLoading, StatePaused, StateEnded, StateUnavailable},
	StatePaused:      {StateLoading, StatePlaying, StateEnded, StateUnavailable},
	StateEnded:       {StateLoading, StatePlaying, StatePaused},
	StateStopped:     {},
	StateUnavailable: {},
}

func (s State) CanTransition(to State) bool {
	for _, allowed := range transitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Busy reports whether the view should show a spinner.
func (s State) Busy() bool {
	return s == StateWaiting || s == StateLoading
}
