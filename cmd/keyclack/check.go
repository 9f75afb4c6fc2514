package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate keymap and sounds",
		Long: `Load the keymap and every sound, then report bindings whose sound is missing.

Missing bindings are not errors: they are rebound to a random sound on first press.
Unreadable files, a malformed keymap or an empty sound directory fail the check.`,
		Example: `  keyclack check
  keyclack check --keymap ./keymap.toml --assets ./output`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			cache, err := a.loadSounds()
			if err != nil {
				return err
			}
			km, err := a.loadKeymap()
			if err != nil {
				return err
			}
			available := cache.Available()

			fmt.Fprintf(out, "sounds: %d in %s\n", available.Len(), cache.Dir())
			fmt.Fprintf(out, "keymap: %d bindings in %s\n", km.Len(), a.cfg.Keymap.File)

			stale := 0
			for _, e := range km.Entries() {
				if !available.Contains(e.SoundID) {
					fmt.Fprintf(out, "  %s -> %d: missing, rebound at runtime\n", e.Key, e.SoundID)
					stale++
				}
			}

			if available.Contains(km.Default()) {
				fmt.Fprintf(out, "default sound %d: present\n", km.Default())
			} else {
				fmt.Fprintf(out, "default sound %d: missing, unbound keys get a random sound\n", km.Default())
			}
			fmt.Fprintf(out, "%d of %d bindings need repair\n", stale, km.Len())
			return nil
		},
	}
}
