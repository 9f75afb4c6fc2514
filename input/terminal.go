package input

import (
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/lixenwraith/keyclack/logger"
)

const terminalBanner = "keyclack: typing sounds active, Ctrl+C to quit"

// TerminalSource derives key state from terminal key events
// Terminals send no key-up, so a key stays held for the hold window after its last event;
// autorepeat keeps refreshing it and re-triggers once the repeat gap exceeds the window
type TerminalSource struct {
	screen tcell.Screen
	hold   time.Duration
	now    func() time.Time

	mu       sync.Mutex
	lastSeen map[string]time.Time
	closed   bool

	quit     chan struct{}
	quitOnce sync.Once
	done     chan struct{}

	log *logrus.Entry
}

// NewTerminalSource takes over the controlling terminal
func NewTerminalSource(hold time.Duration) (*TerminalSource, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, errors.Wrap(err, "create terminal screen")
	}
	return newTerminalSource(screen, hold, time.Now)
}

func newTerminalSource(screen tcell.Screen, hold time.Duration, now func() time.Time) (*TerminalSource, error) {
	if err := screen.Init(); err != nil {
		return nil, errors.Wrap(err, "initialize terminal screen")
	}

	s := &TerminalSource{
		screen:   screen,
		hold:     hold,
		now:      now,
		lastSeen: make(map[string]time.Time),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
		log:      logger.GetLogger("input"),
	}
	s.draw()

	go s.poll()
	return s, nil
}

// Quit is closed when the user presses Ctrl+C
func (s *TerminalSource) Quit() <-chan struct{} {
	return s.quit
}

// Snapshot implements Source
func (s *TerminalSource) Snapshot() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Snapshot{}, ErrClosed
	}

	now := s.now()
	names := make([]string, 0, len(s.lastSeen))
	for name, seen := range s.lastSeen {
		if now.Sub(seen) >= s.hold {
			delete(s.lastSeen, name)
			continue
		}
		names = append(names, name)
	}
	return NewSnapshot(names...), nil
}

// Close restores the terminal and waits for the event goroutine
func (s *TerminalSource) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.screen.Fini()
	select {
	case <-s.done:
	case <-time.After(time.Second):
		return errors.New("terminal event loop did not stop")
	}
	return nil
}

func (s *TerminalSource) poll() {
	defer close(s.done)

	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			s.log.Debug("Terminal input stopped")
			return
		}

		switch ev := ev.(type) {
		case *tcell.EventKey:
			if isInterrupt(ev) {
				s.quitOnce.Do(func() { close(s.quit) })
				continue
			}
			s.press(ev)
		case *tcell.EventResize:
			s.draw()
		}
	}
}

func (s *TerminalSource) press(ev *tcell.EventKey) {
	names := EventNames(ev)
	if len(names) == 0 {
		return
	}

	seen := s.now()
	s.mu.Lock()
	for _, name := range names {
		s.lastSeen[name] = seen
	}
	s.mu.Unlock()
}

func (s *TerminalSource) draw() {
	s.screen.Clear()
	for i, r := range terminalBanner {
		s.screen.SetContent(i, 0, r, nil, tcell.StyleDefault)
	}
	s.screen.Show()
}

func isInterrupt(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyCtrlC {
		return true
	}
	return ev.Key() == tcell.KeyRune && ev.Modifiers()&tcell.ModCtrl != 0 && (ev.Rune() == 'c' || ev.Rune() == 'C')
}
