package input

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/lixenwraith/keyclack/logger"
)

// Linux input ABI values (linux/input.h, linux/input-event-codes.h)
const (
	evKey   = 0x01
	keyMax  = 0x2ff
	keyBits = keyMax/8 + 1

	iocRead      = 2
	iocNRShift   = 0
	iocTypeShift = 8
	iocSizeShift = 16
	iocDirShift  = 30
)

// Keys every real keyboard reports; mice and power buttons lack them
var keyboardProbe = []uint16{30, 44, 57, 28} // A Z Space Enter

// ioc mirrors the _IOC macro
func ioc(dir, typ, nr, size uint) uint {
	return dir<<iocDirShift | size<<iocSizeShift | typ<<iocTypeShift | nr<<iocNRShift
}

// eviocgkey is EVIOCGKEY(len): the held-key bitmap
func eviocgkey(size int) uint {
	return ioc(iocRead, 'E', 0x18, uint(size))
}

// eviocgbit is EVIOCGBIT(ev, len): the codes a device can emit for event type ev
func eviocgbit(ev, size int) uint {
	return ioc(iocRead, 'E', 0x20+uint(ev), uint(size))
}

// bitSet tests bit n of a little-endian kernel bitmap
func bitSet(bits []byte, n uint16) bool {
	i := int(n / 8)
	if i >= len(bits) {
		return false
	}
	return bits[i]&(1<<(n%8)) != 0
}

// pressedCodes lists the set bits of a key bitmap in ascending order
func pressedCodes(bits []byte) []uint16 {
	var codes []uint16
	for i, b := range bits {
		if b == 0 {
			continue
		}
		for j := 0; j < 8; j++ {
			if b&(1<<j) != 0 {
				codes = append(codes, uint16(i*8+j))
			}
		}
	}
	return codes
}

// isKeyboard checks an EV_KEY capability bitmap for the typing keys
func isKeyboard(caps []byte) bool {
	for _, code := range keyboardProbe {
		if !bitSet(caps, code) {
			return false
		}
	}
	return true
}

// keyDevice is one opened evdev node
type keyDevice interface {
	Path() string
	// KeyState fills buf with the held-key bitmap
	KeyState(buf []byte) error
	Close() error
}

// EvdevSource merges the key state of every opened keyboard into one snapshot
type EvdevSource struct {
	devices []keyDevice
	buf     []byte
	closed  bool
	log     *logrus.Entry
}

func newEvdevSource(devices []keyDevice) *EvdevSource {
	return &EvdevSource{
		devices: devices,
		buf:     make([]byte, keyBits),
		log:     logger.GetLogger("input"),
	}
}

// Snapshot implements Source
// A read failure on any device fails the whole sample so the caller keeps its previous one
func (s *EvdevSource) Snapshot() (Snapshot, error) {
	if s.closed {
		return Snapshot{}, ErrClosed
	}

	var names []string
	for _, dev := range s.devices {
		clear(s.buf)
		if err := dev.KeyState(s.buf); err != nil {
			return Snapshot{}, errors.Wrapf(err, "read key state of %s", dev.Path())
		}
		for _, code := range pressedCodes(s.buf) {
			names = append(names, EvdevName(code))
		}
	}
	return NewSnapshot(names...), nil
}

// Devices returns the paths of the opened keyboards
func (s *EvdevSource) Devices() []string {
	paths := make([]string, len(s.devices))
	for i, dev := range s.devices {
		paths[i] = dev.Path()
	}
	return paths
}

// Close implements Source
func (s *EvdevSource) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var first error
	for _, dev := range s.devices {
		if err := dev.Close(); err != nil && first == nil {
			first = errors.Wrapf(err, "close %s", dev.Path())
		}
	}
	s.log.Debugf("Closed %d keyboards", len(s.devices))
	return first
}
