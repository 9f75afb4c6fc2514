package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func (a *app) soundsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sounds",
		Short: "List available sounds",
		Long:  `List every sound id found in the asset directory with its size and duration.`,
		Example: `  keyclack sounds
  keyclack sounds --assets ./sounds`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := a.loadSounds()
			if err != nil {
				return err
			}

			format := a.cfg.Format()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSIZE\tDURATION")
			for _, id := range cache.Available().IDs() {
				clip, _ := cache.Clip(id)

				duration := "undecodable"
				if info, err := format.Probe(clip); err == nil {
					duration = info.Duration.Round(time.Millisecond).String()
				}
				fmt.Fprintf(w, "%d\t%s\t%s\n", id, humanize.Bytes(uint64(len(clip))), duration)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d sounds, %s in %s\n", cache.Len(), humanize.Bytes(cache.Size()), cache.Dir())
			return nil
		},
	}
}
