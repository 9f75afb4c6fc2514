package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/keyclack/audio"
)

const previewPoll = 20 * time.Millisecond

func (a *app) previewCommand() *cobra.Command {
	var (
		volume float64
		speed  float64
	)

	command := &cobra.Command{
		Use:   "preview <id>",
		Short: "Play one sound",
		Long: `Play a single sound through the speaker and wait for it to finish.

Volume and speed are drawn like a key press unless given explicitly.`,
		Example: `  keyclack preview 12
  keyclack preview 12 --speed 1.4 --volume 0.5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return errors.Errorf("sound id %q is not an integer", args[0])
			}

			cache, err := a.loadSounds()
			if err != nil {
				return err
			}
			clip, ok := cache.Clip(id)
			if !ok {
				return errors.Errorf("sound %d not found in %s", id, cache.Dir())
			}

			out, eng, err := a.newAudio()
			if err != nil {
				return err
			}
			defer out.Close()

			var voice *audio.Voice
			if volume > 0 || speed > 0 {
				rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64()))
				p := a.cfg.Variation().Draw(rng)
				if volume > 0 {
					p.Volume = volume
				}
				if speed > 0 {
					p.Speed = speed
				}
				voice, err = eng.PlayWith(clip, p)
			} else {
				voice, err = eng.Play(clip)
			}
			if err != nil {
				return err
			}

			p := voice.Params()
			fmt.Fprintf(cmd.OutOrStdout(), "Playing sound %d at volume %.2f, speed %.2f\n", id, p.Volume, p.Speed)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return waitFinished(ctx, voice, previewPoll)
		},
	}

	command.Flags().Float64Var(&volume, "volume", 0, "Fixed volume multiplier")
	command.Flags().Float64Var(&speed, "speed", 0, "Fixed playback speed")

	return command
}

// waitFinished polls a voice until it finishes or ctx ends
func waitFinished(ctx context.Context, voice *audio.Voice, every time.Duration) error {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for !voice.Finished() {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
	return nil
}
