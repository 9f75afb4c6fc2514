//go:build !linux

package input

import (
	"github.com/pkg/errors"
)

// OpenEvdev is only available on Linux
func OpenEvdev(paths []string) (*EvdevSource, error) {
	return nil, errors.Wrap(ErrNoKeyboard, "evdev requires linux")
}
