package audio

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/lixenwraith/keyclack/constant"
	"github.com/lixenwraith/keyclack/logger"
)

// Engine turns clip bytes into independent voices on an Output
type Engine struct {
	out       Output
	format    Format
	variation Variation
	quality   int

	mu  sync.Mutex // Protects rng
	rng *rand.Rand

	log *logrus.Entry
}

// Option configures an Engine
type Option func(*Engine)

// WithRand sets the source for volume and speed draws
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) {
		e.rng = r
	}
}

// WithVariation overrides the volume and speed bands
func WithVariation(v Variation) Option {
	return func(e *Engine) {
		e.variation = v
	}
}

// WithQuality sets the resampler quality (1-64)
func WithQuality(q int) Option {
	return func(e *Engine) {
		if q >= 1 && q <= 64 {
			e.quality = q
		}
	}
}

// NewEngine creates an engine decoding clips of the given format
func NewEngine(out Output, format Format, opts ...Option) *Engine {
	e := &Engine{
		out:       out,
		format:    format,
		variation: DefaultVariation(),
		quality:   constant.AudioResampleQuality,
		rng:       rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64())),
		log:       logger.GetLogger("audio"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Play starts a voice with freshly drawn volume and speed
func (e *Engine) Play(buf []byte) (*Voice, error) {
	e.mu.Lock()
	p := e.variation.Draw(e.rng)
	e.mu.Unlock()

	return e.PlayWith(buf, p)
}

// PlayWith starts a voice with explicit parameters
// Returns once the voice is handed to the output; playback continues asynchronously
func (e *Engine) PlayWith(buf []byte, p Params) (*Voice, error) {
	if p.Speed <= 0 || p.Volume < 0 || math.IsNaN(p.Speed) || math.IsNaN(p.Volume) {
		return nil, errors.Wrapf(ErrInvalidParams, "volume %v speed %v", p.Volume, p.Speed)
	}

	stream, format, err := e.format.Decode(buf)
	if err != nil {
		return nil, errors.Wrap(err, "decode clip")
	}

	v := &Voice{params: p}

	// Resampling to the output rate and speeding up are one ratio
	ratio := float64(format.SampleRate) / float64(e.out.SampleRate()) * p.Speed
	var s beep.Streamer = beep.ResampleRatio(e.quality, ratio, stream)

	s = &effects.Volume{
		Streamer: s,
		Base:     2,
		Volume:   math.Log2(p.Volume),
		Silent:   p.Volume == 0,
	}

	err = e.out.Start(beep.Seq(s, beep.Callback(func() {
		v.finish()
		if err := stream.Close(); err != nil {
			e.log.WithError(err).Debug("Failed closing clip decoder")
		}
	})))
	if err != nil {
		stream.Close()
		return nil, errors.Wrap(err, "start voice")
	}

	e.log.Tracef("Voice started: volume %.2f speed %.2f (%d Hz source)", p.Volume, p.Speed, format.SampleRate)
	return v, nil
}

// Format returns the clip format the engine decodes
func (e *Engine) Format() Format {
	return e.format
}
