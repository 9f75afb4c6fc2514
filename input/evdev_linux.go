//go:build linux

package input

import (
	"os"
	"path/filepath"
	"runtime"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/lixenwraith/keyclack/constant"
	"github.com/lixenwraith/keyclack/logger"
)

type evdevFile struct {
	f *os.File
}

func (d *evdevFile) Path() string {
	return d.f.Name()
}

func (d *evdevFile) KeyState(buf []byte) error {
	return ioctlBuf(d.f, eviocgkey(len(buf)), buf)
}

func (d *evdevFile) Close() error {
	return d.f.Close()
}

// ioctlBuf issues a read ioctl that fills buf
func ioctlBuf(f *os.File, req uint, buf []byte) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, f.Fd(), uintptr(req), uintptr(unsafe.Pointer(&buf[0])))
	runtime.KeepAlive(f)
	if errno != 0 {
		return errno
	}
	return nil
}

// OpenEvdev opens keyboards for global key state
// With no paths every /dev/input/event* node is probed and unreadable or non-keyboard nodes are skipped;
// explicitly listed paths must all open
func OpenEvdev(paths []string) (*EvdevSource, error) {
	log := logger.GetLogger("input")

	explicit := len(paths) > 0
	if !explicit {
		var err error
		paths, err = filepath.Glob(constant.EvdevGlob)
		if err != nil {
			return nil, errors.Wrap(err, "list input devices")
		}
	}

	var devices []keyDevice
	fail := func(err error) (*EvdevSource, error) {
		for _, dev := range devices {
			dev.Close()
		}
		return nil, err
	}

	caps := make([]byte, keyBits)
	for _, path := range paths {
		f, err := os.OpenFile(path, os.O_RDONLY, 0)
		if err != nil {
			if explicit {
				return fail(errors.Wrapf(err, "open %s", path))
			}
			log.Debugf("Skipping %s: %v", path, err)
			continue
		}

		clear(caps)
		if err := ioctlBuf(f, eviocgbit(evKey, len(caps)), caps); err != nil || !isKeyboard(caps) {
			f.Close()
			if explicit {
				return fail(errors.Errorf("%s is not a keyboard", path))
			}
			continue
		}

		log.Debugf("Using keyboard %s", path)
		devices = append(devices, &evdevFile{f: f})
	}

	if len(devices) == 0 {
		return nil, errors.Wrapf(ErrNoKeyboard, "probed %d evdev nodes", len(paths))
	}
	return newEvdevSource(devices), nil
}
