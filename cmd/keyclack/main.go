package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/lixenwraith/keyclack/config"
	"github.com/lixenwraith/keyclack/logger"
)

// app carries per-invocation state shared by every command
type app struct {
	v          *viper.Viper
	configFile string
	cfg        *config.Config
}

func newRootCommand() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "keyclack",
		Short: "Play a typing sound for every key press",
		Long: `keyclack watches the keyboard and plays a randomized clip for each key press.

Sounds are read from key_sound_<id>.<ext> files and keys are bound to sound ids in a TOML
keymap. Keys bound to missing sounds are rebound to a random available sound on first press.`,
		Example: `  keyclack
  keyclack --assets ./sounds --input terminal -v
  keyclack check`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := bindFlags(a.v, cmd.Root().PersistentFlags(), flagKeys); err != nil {
				return err
			}
			return a.init()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.configFile, "config", "c", "", "Config file (default ./keyclack.{toml,yaml})")
	flags.String("assets", "", "Sound directory")
	flags.String("keymap", "", "Keymap TOML file")
	flags.String("input", "", "Input backend: auto, evdev or terminal")
	flags.StringP("log", "l", "", "Log file")
	flags.CountP("verbose", "v", "Verbose level")

	rootCmd.AddCommand(a.soundsCommand())
	rootCmd.AddCommand(a.checkCommand())
	rootCmd.AddCommand(a.previewCommand())

	return rootCmd
}

// flagKeys maps config keys to the persistent flags overriding them
var flagKeys = map[string]string{
	"assets.dir":    "assets",
	"keymap.file":   "keymap",
	"input.backend": "input",
	"log.file":      "log",
	"log.level":     "verbose",
}

// bindFlags makes each flag the highest-precedence source for its key
func bindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) error {
	for key, name := range keys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return errors.Wrapf(err, "bind flag --%s to %s", name, key)
		}
	}
	return nil
}

// init loads configuration and sets up logging for any command
func (a *app) init() error {
	cfg, err := config.Load(a.v, a.configFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	return logger.Init(logger.Options{
		Verbosity: cfg.Log.Level,
		File:      cfg.Log.File,
		Console:   true,
	})
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		logger.GetLogger("main").WithError(err).Fatal("keyclack failed")
	}
}
