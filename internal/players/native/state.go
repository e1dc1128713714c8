package native

type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StatePlaying
	StatePaused
	StateEnded
	StateUnavailable
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
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
	case StateUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

func (s State) Icon() string {
	switch s {
	case StatePlaying:
		return "▶"
	case StatePaused, StateReady:
		return "⏸"
	case StateLoading:
		return "⏳"
	case StateUnavailable:
		return "⚠"
	case StateEnded:
		return "⏹"
	default:
		return "○"
	}
}

// Loading is reachable from every state: a new item always starts there, and
// a starved buffer drops playback back into it.
var transitions = map[State][]State{
	StateIdle:        {},
	StateLoading:     {StateReady, StatePlaying, StatePaused, StateEnded, StateUnavailable},
	StateReady:       {StatePlaying, StatePaused, StateEnded, StateUnavailable},
	StatePlaying:     {StatePaused, StateEnded, StateUnavailable},
	StatePaused:      {StatePlaying, StateEnded, StateUnavailable},
	StateEnded:       {StatePlaying, StatePaused},
	StateUnavailable: {},
}

func (s State) CanTransition(to State) bool {
	if to == StateLoading {
		return true
	}
	for _, allowed := range transitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Active reports whether controls should auto-hide in this state.
func (s State) Active() bool {
	return s == StatePlaying
}
