package constant

import "time"

// Audio Output Settings
const (
	AudioSampleRate = 44100

	// AudioBufferDuration is the speaker buffer length, bounds trigger-to-sound latency
	AudioBufferDuration = 100 * time.Millisecond

	// AudioResampleQuality is passed to beep.ResampleRatio (valid 1-64)
	AudioResampleQuality = 4
)

// Voice Variation
// Every trigger draws fresh volume and speed so repeated presses differ
const (
	VoiceBaseVolume = 1.0
	VoiceVolumeMin  = 0.50
	VoiceVolumeMax  = 1.50
	VoiceSpeedMin   = 0.8
	VoiceSpeedMax   = 1.4
)
