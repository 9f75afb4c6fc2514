package audio

import (
	"sync/atomic"
)

// Voice is the handle of one in-flight clip playback
// The output goroutine marks it finished; the owner only polls
type Voice struct {
	params   Params
	finished atomic.Bool
}

// Finished reports whether playback has run to completion
func (v *Voice) Finished() bool {
	return v.finished.Load()
}

// Params returns the volume and speed the voice was started with
func (v *Voice) Params() Params {
	return v.params
}

func (v *Voice) finish() {
	v.finished.Store(true)
}
