// Package engine runs the sampling loop: it turns key-press edges into voices,
// repairs stale key mappings against the sounds on disk, and sweeps finished voices.
package engine

import (
	"context"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"

	"github.com/lixenwraith/keyclack/asset"
	"github.com/lixenwraith/keyclack/audio"
	"github.com/lixenwraith/keyclack/constant"
	"github.com/lixenwraith/keyclack/input"
	"github.com/lixenwraith/keyclack/keymap"
	"github.com/lixenwraith/keyclack/logger"
	"github.com/lixenwraith/keyclack/status"
)

// Voice is a started playback the loop tracks until it finishes
type Voice interface {
	Finished() bool
}

// Player starts one voice from a shared clip buffer without waiting for it
type Player interface {
	Play(buf []byte) (Voice, error)
}

// PlayerFunc adapts a function to Player
type PlayerFunc func(buf []byte) (Voice, error)

// Play implements Player
func (f PlayerFunc) Play(buf []byte) (Voice, error) {
	return f(buf)
}

// AudioPlayer plays through an audio engine with randomized volume and speed
func AudioPlayer(e *audio.Engine) Player {
	return PlayerFunc(func(buf []byte) (Voice, error) {
		v, err := e.Play(buf)
		if err != nil {
			return nil, err
		}
		return v, nil
	})
}

// Clips looks up cached clip bytes by sound id
type Clips interface {
	Clip(id int) ([]byte, bool)
}

// Config wires the loop's collaborators
type Config struct {
	Source    input.Source
	KeyMap    *keymap.KeyMap
	Available asset.Available
	Clips     Clips
	Player    Player

	// PollInterval defaults to constant.PollInterval
	PollInterval time.Duration
	// Rand draws replacement sound ids; seeded from the clock when nil
	Rand *rand.Rand
	// Status receives the loop counters; a private registry is used when nil
	Status *status.Registry
}

// Counter names published to the status registry
const (
	StatIterations     = "loop.iterations"
	StatSnapshotErrors = "loop.snapshot_errors"
	StatPresses        = "keys.presses"
	StatRepairs        = "keys.repairs"
	StatVoices         = "voices.started"
	StatFailures       = "voices.failed"
	StatActive         = "voices.active"
)

// Stats counts loop activity since start
type Stats struct {
	Iterations     uint64
	Presses        uint64
	Repairs        uint64
	Voices         uint64
	Failures       uint64
	SnapshotErrors uint64
}

// Loop owns the key map and the active voices; it is driven from a single goroutine
// State and Stats may be read from any goroutine, other accessors only between steps
type Loop struct {
	source    input.Source
	keymap    *keymap.KeyMap
	available asset.Available
	clips     Clips
	player    Player
	interval  time.Duration
	rng       *rand.Rand

	state  atomic.Uint32
	prev   input.Snapshot
	active []Voice

	// Cached counter pointers
	status         *status.Registry
	statIterations *atomic.Uint64
	statSnapErrors *atomic.Uint64
	statPresses    *atomic.Uint64
	statRepairs    *atomic.Uint64
	statVoices     *atomic.Uint64
	statFailures   *atomic.Uint64
	statActive     *atomic.Uint64

	log *logrus.Entry
}

// New validates the configuration and returns an idle loop
// An empty sound set is refused: there would be nothing to repair a key with
func New(cfg Config) (*Loop, error) {
	switch {
	case cfg.Source == nil:
		return nil, errors.New("engine: nil input source")
	case cfg.KeyMap == nil:
		return nil, errors.New("engine: nil key map")
	case cfg.Clips == nil:
		return nil, errors.New("engine: nil clip cache")
	case cfg.Player == nil:
		return nil, errors.New("engine: nil player")
	case cfg.Available.Len() == 0:
		return nil, errors.Wrap(asset.ErrNoSounds, "engine")
	}

	interval := cfg.PollInterval
	if interval <= 0 {
		interval = constant.PollInterval
	}
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64()))
	}

	reg := cfg.Status
	if reg == nil {
		reg = status.NewRegistry()
	}

	return &Loop{
		source:         cfg.Source,
		keymap:         cfg.KeyMap,
		available:      cfg.Available,
		clips:          cfg.Clips,
		player:         cfg.Player,
		interval:       interval,
		rng:            rng,
		status:         reg,
		statIterations: reg.Counter(StatIterations),
		statSnapErrors: reg.Counter(StatSnapshotErrors),
		statPresses:    reg.Counter(StatPresses),
		statRepairs:    reg.Counter(StatRepairs),
		statVoices:     reg.Counter(StatVoices),
		statFailures:   reg.Counter(StatFailures),
		statActive:     reg.Counter(StatActive),
		log:            logger.GetLogger("engine"),
	}, nil
}

// Prime records the current key state as the baseline so keys held at startup do not sound
func (l *Loop) Prime() {
	snap, err := l.source.Snapshot()
	if err != nil {
		l.log.WithError(err).Debug("Initial key state unavailable, starting from empty")
		return
	}
	l.prev = snap
}

// Run primes the baseline and steps once per poll interval until ctx is cancelled
func (l *Loop) Run(ctx context.Context) error {
	l.Prime()
	l.log.Info("Start typing!")

	limiter := ratelimit.New(1, ratelimit.Per(l.interval), ratelimit.WithoutSlack)
	for {
		select {
		case <-ctx.Done():
			fields := logrus.Fields{}
			l.status.Range(func(name string, value uint64) {
				fields[name] = value
			})
			l.log.WithFields(fields).Debug("Loop stopped")
			return nil
		default:
		}

		limiter.Take()
		l.Step()
	}
}

// Step runs one Sampling, Diffing, Dispatch, Prune pass
// A failed sample skips the pass and keeps the previous snapshot
func (l *Loop) Step() {
	l.statIterations.Add(1)

	l.setState(StateSampling)
	cur, err := l.source.Snapshot()
	if err != nil {
		l.statSnapErrors.Add(1)
		l.log.WithError(err).Debug("Skipping iteration")
		l.setState(StateIdle)
		return
	}

	l.setState(StateDiffing)
	edges := input.Edges(l.prev, cur)
	l.prev = cur

	l.setState(StateDispatch)
	for _, key := range edges {
		l.dispatch(key)
	}

	l.setState(StatePrune)
	l.prune()

	l.setState(StateIdle)
}

func (l *Loop) setState(s State) {
	l.state.Store(uint32(s))
}

func (l *Loop) dispatch(key string) {
	l.statPresses.Add(1)
	id := l.resolve(key)

	buf, ok := l.clips.Clip(id)
	if !ok {
		l.statFailures.Add(1)
		l.log.Warnf("Sound %d for %s missing from cache", id, key)
		return
	}

	v, err := l.player.Play(buf)
	if err != nil {
		l.statFailures.Add(1)
		l.log.WithError(err).Warnf("Skipping sound %d for %s", id, key)
		return
	}
	l.active = append(l.active, v)
	l.statVoices.Add(1)
}

// resolve maps a key to a playable sound id
// Unmapped and stale keys get a uniformly drawn id that sticks for the rest of the run
func (l *Loop) resolve(key string) int {
	id := l.keymap.Resolve(key)
	if l.available.Contains(id) {
		return id
	}

	drawn, _ := l.available.Pick(l.rng)
	l.keymap.Reassign(key, drawn)
	l.statRepairs.Add(1)
	l.log.Tracef("Reassigned %s: %d -> %d", key, id, drawn)
	return drawn
}

func (l *Loop) prune() {
	kept := l.active[:0]
	for _, v := range l.active {
		if !v.Finished() {
			kept = append(kept, v)
		}
	}
	clear(l.active[len(kept):])
	l.active = kept
	l.statActive.Store(uint64(len(kept)))
}

// Active returns the number of tracked voices
func (l *Loop) Active() int {
	return len(l.active)
}

// Stats returns the activity counters
func (l *Loop) Stats() Stats {
	return Stats{
		Iterations:     l.statIterations.Load(),
		Presses:        l.statPresses.Load(),
		Repairs:        l.statRepairs.Load(),
		Voices:         l.statVoices.Load(),
		Failures:       l.statFailures.Load(),
		SnapshotErrors: l.statSnapErrors.Load(),
	}
}

// State returns the current phase; Idle between steps
func (l *Loop) State() State {
	return State(l.state.Load())
}

// KeyMap returns the live key map
func (l *Loop) KeyMap() *keymap.KeyMap {
	return l.keymap
}
