package audio

import (
	"math/rand/v2"

	"github.com/pkg/errors"

	"github.com/lixenwraith/keyclack/constant"
)

// Sentinel errors
var (
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrInvalidParams     = errors.New("invalid voice parameters")
)

// Params are the playback parameters of one voice
type Params struct {
	Volume float64 // Linear gain, 1.0 = as recorded
	Speed  float64 // Playback rate, 1.0 = as recorded, also shifts pitch
}

// Band is a half-open [Min, Max) range for uniform draws
type Band struct {
	Min float64
	Max float64
}

// Draw returns a uniform value in the band, Min when the band is empty
func (b Band) Draw(r *rand.Rand) float64 {
	if b.Max <= b.Min {
		return b.Min
	}
	return b.Min + r.Float64()*(b.Max-b.Min)
}

// Contains reports whether v can be produced by Draw
func (b Band) Contains(v float64) bool {
	if b.Max <= b.Min {
		return v == b.Min
	}
	return v >= b.Min && v < b.Max
}

// Variation describes how voices deviate from nominal playback
type Variation struct {
	BaseVolume float64
	Volume     Band // Multiplier applied to BaseVolume
	Speed      Band
}

// DefaultVariation returns the stock volume and speed bands
func DefaultVariation() Variation {
	return Variation{
		BaseVolume: constant.VoiceBaseVolume,
		Volume:     Band{Min: constant.VoiceVolumeMin, Max: constant.VoiceVolumeMax},
		Speed:      Band{Min: constant.VoiceSpeedMin, Max: constant.VoiceSpeedMax},
	}
}

// Draw produces fresh, independent volume and speed for one voice
func (v Variation) Draw(r *rand.Rand) Params {
	return Params{
		Volume: v.BaseVolume * v.Volume.Draw(r),
		Speed:  v.Speed.Draw(r),
	}
}

// Validate rejects bands that cannot produce playable parameters
func (v Variation) Validate() error {
	if v.BaseVolume < 0 {
		return errors.Wrapf(ErrInvalidParams, "base volume %v is negative", v.BaseVolume)
	}
	if v.Volume.Min < 0 || v.Volume.Max < v.Volume.Min {
		return errors.Wrapf(ErrInvalidParams, "volume band [%v, %v)", v.Volume.Min, v.Volume.Max)
	}
	if v.Speed.Min <= 0 || v.Speed.Max < v.Speed.Min {
		return errors.Wrapf(ErrInvalidParams, "speed band [%v, %v)", v.Speed.Min, v.Speed.Max)
	}
	return nil
}
