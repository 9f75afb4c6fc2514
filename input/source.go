// Package input samples keyboard state as sorted snapshots of key identifiers.
// Two backends exist: evdev reads global key state on Linux, the terminal backend
// folds tcell key events into a snapshot with a hold window.
package input

import (
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/lixenwraith/keyclack/constant"
	"github.com/lixenwraith/keyclack/logger"
)

var (
	// ErrNoKeyboard is returned when no usable key state source could be opened
	ErrNoKeyboard = errors.New("no usable keyboard")

	// ErrClosed is returned by Snapshot after Close
	ErrClosed = errors.New("input source closed")
)

// Source reports which keys are held right now
type Source interface {
	Snapshot() (Snapshot, error)
	Close() error
}

// Backend selects the Source implementation
type Backend string

const (
	BackendAuto     Backend = "auto"
	BackendEvdev    Backend = "evdev"
	BackendTerminal Backend = "terminal"
)

// ParseBackend validates a backend name, case-insensitive
func ParseBackend(name string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(name))); b {
	case BackendAuto, BackendEvdev, BackendTerminal:
		return b, nil
	case "":
		return BackendAuto, nil
	default:
		return "", errors.Errorf("unknown input backend %q", name)
	}
}

// Options configures Open
type Options struct {
	Backend Backend
	// Devices lists evdev paths; empty autodetects keyboards
	Devices []string
	// HoldWindow is how long a terminal key event stays pressed
	HoldWindow time.Duration
	// BeforeTerminal runs right before the terminal takes over the screen
	BeforeTerminal func()
}

// Open builds the configured source
// Auto prefers evdev and falls back to the terminal when no keyboard device is readable
func Open(opts Options) (Source, error) {
	log := logger.GetLogger("input")

	if opts.HoldWindow <= 0 {
		opts.HoldWindow = constant.TerminalHoldWindow
	}

	openTerminal := func() (Source, error) {
		if opts.BeforeTerminal != nil {
			opts.BeforeTerminal()
		}
		src, err := NewTerminalSource(opts.HoldWindow)
		if err != nil {
			return nil, err
		}
		return src, nil
	}

	switch opts.Backend {
	case BackendEvdev:
		src, err := OpenEvdev(opts.Devices)
		if err != nil {
			return nil, err
		}
		return src, nil
	case BackendTerminal:
		return openTerminal()
	case BackendAuto, "":
		src, err := OpenEvdev(opts.Devices)
		if err == nil {
			return src, nil
		}
		log.WithError(err).Info("Global key state unavailable, using terminal input")
		return openTerminal()
	default:
		return nil, errors.Errorf("unknown input backend %q", opts.Backend)
	}
}
