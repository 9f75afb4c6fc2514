package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/keyclack/engine"
	"github.com/lixenwraith/keyclack/input"
	"github.com/lixenwraith/keyclack/logger"
)

// run builds every component and drives the loop until a signal or Ctrl+C
func (a *app) run(cmd *cobra.Command) error {
	log := logger.GetLogger("main")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Startup failures surface before the terminal may be taken over
	cache, err := a.loadSounds()
	if err != nil {
		return err
	}
	km, err := a.loadKeymap()
	if err != nil {
		return err
	}
	log.Infof("Loaded %d key bindings from %q, default sound %d", km.Len(), a.cfg.Keymap.File, km.Default())

	out, eng, err := a.newAudio()
	if err != nil {
		return err
	}
	defer out.Close()

	opts := a.cfg.InputOptions()
	opts.BeforeTerminal = logger.DisableConsole
	src, err := input.Open(opts)
	if err != nil {
		logger.EnableConsole()
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			src.Close()
			logger.EnableConsole()
			panic(r)
		}
	}()

	if ts, ok := src.(*input.TerminalSource); ok {
		go quitOn(ctx, ts.Quit(), stop)
	}

	loop, err := engine.New(engine.Config{
		Source:       src,
		KeyMap:       km,
		Available:    cache.Available(),
		Clips:        cache,
		Player:       engine.AudioPlayer(eng),
		PollInterval: a.cfg.Loop.PollInterval,
	})
	if err != nil {
		src.Close()
		logger.EnableConsole()
		return err
	}

	runErr := loop.Run(ctx)

	if err := src.Close(); err != nil {
		log.WithError(err).Warn("Failed closing input source")
	}
	logger.EnableConsole()

	stats := loop.Stats()
	log.Infof("Stopped: %d presses, %d voices, %d repairs, %d failures",
		stats.Presses, stats.Voices, stats.Repairs, stats.Failures)
	return runErr
}


// quitOn cancels once quit fires, or returns when ctx ends first
func quitOn(ctx context.Context, quit <-chan struct{}, cancel context.CancelFunc) {
	select {
	case <-quit:
		cancel()
	case <-ctx.Done():
	}
}
