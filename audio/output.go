package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/pkg/errors"
)

// ErrOutputClosed is returned by Start once the output no longer plays anything
var ErrOutputClosed = errors.New("audio output closed")

// Output starts prepared streamers asynchronously
// Start must return without waiting for playback; a streamer it refuses is never pulled
type Output interface {
	SampleRate() beep.SampleRate
	Start(s beep.Streamer) error
}

// SpeakerOutput plays through the default audio device
// The speaker mixes every started streamer on its own goroutine
type SpeakerOutput struct {
	mu          sync.Mutex
	sampleRate  beep.SampleRate
	initialized bool
}

// NewSpeakerOutput initializes the speaker with the given rate and buffer length
func NewSpeakerOutput(sampleRate beep.SampleRate, buffer time.Duration) (*SpeakerOutput, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(buffer)); err != nil {
		return nil, errors.Wrap(err, "initialize speaker")
	}
	return &SpeakerOutput{
		sampleRate:  sampleRate,
		initialized: true,
	}, nil
}

// SampleRate implements Output
func (o *SpeakerOutput) SampleRate() beep.SampleRate {
	return o.sampleRate
}

// Start implements Output
func (o *SpeakerOutput) Start(s beep.Streamer) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.initialized {
		return ErrOutputClosed
	}
	speaker.Play(s)
	return nil
}

// Close drops every streamer still playing
func (o *SpeakerOutput) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.initialized {
		return
	}
	// beep keeps the device open; clearing the mixer silences it
	speaker.Clear()
	o.initialized = false
}

// MixerOutput collects voices in an in-process mixer that the caller pulls
// Used for offline rendering and deterministic playback in tests
type MixerOutput struct {
	mu         sync.Mutex
	sampleRate beep.SampleRate
	mixer      beep.Mixer
}

// NewMixerOutput creates a pull-driven output
func NewMixerOutput(sampleRate beep.SampleRate) *MixerOutput {
	return &MixerOutput{sampleRate: sampleRate}
}

// SampleRate implements Output
func (o *MixerOutput) SampleRate() beep.SampleRate {
	return o.sampleRate
}

// Start implements Output
func (o *MixerOutput) Start(s beep.Streamer) error {
	o.mu.Lock()
	o.mixer.Add(s)
	o.mu.Unlock()
	return nil
}

// Stream pulls mixed samples, making MixerOutput a beep.Streamer itself
func (o *MixerOutput) Stream(samples [][2]float64) (n int, ok bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.mixer.Stream(samples)
}

// Err implements beep.Streamer
func (o *MixerOutput) Err() error {
	return nil
}

// Playing returns the number of streamers not yet drained
func (o *MixerOutput) Playing() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.mixer.Len()
}

// Render pulls d worth of output in fixed chunks and returns the peak amplitude
func (o *MixerOutput) Render(d time.Duration) float64 {
	const chunk = 512
	buf := make([][2]float64, chunk)

	var peak float64
	for remaining := o.sampleRate.N(d); remaining > 0; remaining -= chunk {
		n := chunk
		if remaining < chunk {
			n = remaining
		}
		clear(buf[:n])
		o.Stream(buf[:n])
		for _, frame := range buf[:n] {
			for _, v := range frame {
				if v < 0 {
					v = -v
				}
				if v > peak {
					peak = v
				}
			}
		}
	}
	return peak
}
