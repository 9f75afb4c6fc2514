package engine

// State is the phase of one loop iteration
type State uint8

const (
	StateIdle     State = iota // Waiting for the next tick
	StateSampling              // Reading key state
	StateDiffing               // Computing new presses
	StateDispatch              // Resolving keys and starting voices
	StatePrune                 // Dropping finished voices
)

var stateNames = [...]string{
	StateIdle:     "idle",
	StateSampling: "sampling",
	StateDiffing:  "diffing",
	StateDispatch: "dispatch",
	StatePrune:    "prune",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}
