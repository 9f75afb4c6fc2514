package constant

import "time"

// Poll Loop Timing
const (
	// PollInterval between key-state samples, bounds input latency without busy-spinning
	PollInterval = 10 * time.Millisecond

	// TerminalHoldWindow is how long a terminal key event counts as "pressed"
	// Terminals report no key-up, so presses are folded into snapshots by age
	TerminalHoldWindow = 60 * time.Millisecond
)

// Input Devices
const (
	EvdevGlob = "/dev/input/event*"
)
