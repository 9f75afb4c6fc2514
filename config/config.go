// Package config loads runtime settings from flags, KEYCLACK_* environment variables,
// an optional config file and built-in defaults, in that order of precedence.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gopxl/beep"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/lixenwraith/keyclack/audio"
	"github.com/lixenwraith/keyclack/constant"
	"github.com/lixenwraith/keyclack/input"
)

const (
	EnvPrefix = "KEYCLACK"
	appName   = "keyclack"
)

// ErrInvalid wraps every validation failure
var ErrInvalid = errors.New("invalid configuration")

type AssetsConfig struct {
	Dir       string `mapstructure:"dir"`
	Extension string `mapstructure:"extension"`
}

type KeymapConfig struct {
	File         string `mapstructure:"file"`
	DefaultSound int    `mapstructure:"default_sound"`
}

type LoopConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

type VoiceConfig struct {
	BaseVolume float64 `mapstructure:"base_volume"`
	VolumeMin  float64 `mapstructure:"volume_min"`
	VolumeMax  float64 `mapstructure:"volume_max"`
	SpeedMin   float64 `mapstructure:"speed_min"`
	SpeedMax   float64 `mapstructure:"speed_max"`
}

type AudioConfig struct {
	SampleRate int           `mapstructure:"sample_rate"`
	Buffer     time.Duration `mapstructure:"buffer"`
	Quality    int           `mapstructure:"quality"`
}

type InputConfig struct {
	Backend    string        `mapstructure:"backend"`
	Devices    []string      `mapstructure:"devices"`
	HoldWindow time.Duration `mapstructure:"hold_window"`
}

type LogConfig struct {
	Level int    `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// Config is the full runtime configuration
type Config struct {
	Assets AssetsConfig `mapstructure:"assets"`
	Keymap KeymapConfig `mapstructure:"keymap"`
	Loop   LoopConfig   `mapstructure:"loop"`
	Voice  VoiceConfig  `mapstructure:"voice"`
	Audio  AudioConfig  `mapstructure:"audio"`
	Input  InputConfig  `mapstructure:"input"`
	Log    LogConfig    `mapstructure:"log"`
}

// SetDefaults registers every key so environment overrides bind even without a file
func SetDefaults(v *viper.Viper) {
	v.SetDefault("assets.dir", constant.DefaultAssetDir)
	v.SetDefault("assets.extension", constant.DefaultExtension)

	v.SetDefault("keymap.file", constant.DefaultKeymapFile)
	v.SetDefault("keymap.default_sound", constant.DefaultSoundID)

	v.SetDefault("loop.poll_interval", constant.PollInterval)

	v.SetDefault("voice.base_volume", constant.VoiceBaseVolume)
	v.SetDefault("voice.volume_min", constant.VoiceVolumeMin)
	v.SetDefault("voice.volume_max", constant.VoiceVolumeMax)
	v.SetDefault("voice.speed_min", constant.VoiceSpeedMin)
	v.SetDefault("voice.speed_max", constant.VoiceSpeedMax)

	v.SetDefault("audio.sample_rate", constant.AudioSampleRate)
	v.SetDefault("audio.buffer", constant.AudioBufferDuration)
	v.SetDefault("audio.quality", constant.AudioResampleQuality)

	v.SetDefault("input.backend", string(input.BackendAuto))
	v.SetDefault("input.devices", []string{})
	v.SetDefault("input.hold_window", constant.TerminalHoldWindow)

	v.SetDefault("log.level", 0)
	v.SetDefault("log.file", "")
}

// Load reads configuration into v and decodes it
// An explicit file must exist; without one the default locations are searched and may be absent
func Load(v *viper.Viper, file string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(appName)
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, appName))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "read config")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the runtime cannot honor
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return errors.Wrapf(ErrInvalid, format, args...)
	}

	if c.Assets.Dir == "" {
		return invalid("assets.dir is empty")
	}
	if _, err := audio.ParseFormat(c.Assets.Extension); err != nil {
		return invalid("assets.extension: %v", err)
	}
	if c.Keymap.File == "" {
		return invalid("keymap.file is empty")
	}
	if c.Loop.PollInterval <= 0 {
		return invalid("loop.poll_interval must be positive, got %s", c.Loop.PollInterval)
	}
	if err := c.Variation().Validate(); err != nil {
		return invalid("voice: %v", err)
	}
	if c.Audio.SampleRate <= 0 {
		return invalid("audio.sample_rate must be positive, got %d", c.Audio.SampleRate)
	}
	if c.Audio.Buffer <= 0 {
		return invalid("audio.buffer must be positive, got %s", c.Audio.Buffer)
	}
	if c.Audio.Quality < 1 || c.Audio.Quality > 64 {
		return invalid("audio.quality must be within 1-64, got %d", c.Audio.Quality)
	}
	if _, err := input.ParseBackend(c.Input.Backend); err != nil {
		return invalid("input.backend: %v", err)
	}
	if c.Input.HoldWindow <= 0 {
		return invalid("input.hold_window must be positive, got %s", c.Input.HoldWindow)
	}
	if c.Log.Level < 0 {
		return invalid("log.level must not be negative")
	}
	return nil
}

// Variation returns the voice randomization bands
func (c *Config) Variation() audio.Variation {
	return audio.Variation{
		BaseVolume: c.Voice.BaseVolume,
		Volume:     audio.Band{Min: c.Voice.VolumeMin, Max: c.Voice.VolumeMax},
		Speed:      audio.Band{Min: c.Voice.SpeedMin, Max: c.Voice.SpeedMax},
	}
}

// Format returns the clip format for the configured extension
func (c *Config) Format() audio.Format {
	f, _ := audio.ParseFormat(c.Assets.Extension)
	return f
}

// SampleRate returns the output rate
func (c *Config) SampleRate() beep.SampleRate {
	return beep.SampleRate(c.Audio.SampleRate)
}

// InputOptions maps the input section onto input.Options
func (c *Config) InputOptions() input.Options {
	backend, _ := input.ParseBackend(c.Input.Backend)
	return input.Options{
		Backend:    backend,
		Devices:    c.Input.Devices,
		HoldWindow: c.Input.HoldWindow,
	}
}
