package main

import (
	"bytes"
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/keyclack/asset"
)

// wavClip builds a silent 16-bit mono clip at 8 kHz
func wavClip(t *testing.T, d time.Duration) []byte {
	t.Helper()
	const rate = 8000
	frames := int(d * rate / time.Second)
	dataLen := uint32(frames * 2)

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	for _, v := range []any{uint32(36) + dataLen} {
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, v))
	}
	buf.WriteString("WAVEfmt ")
	for _, v := range []any{uint32(16), uint16(1), uint16(1), uint32(rate), uint32(rate * 2), uint16(2), uint16(16)} {
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, v))
	}
	buf.WriteString("data")
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, dataLen))
	buf.Write(make([]byte, dataLen))
	return buf.Bytes()
}

type fixture struct {
	dir    string
	sounds string
	keymap string
}

func newFixture(t *testing.T, ids []int, keymap string) fixture {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("KEYCLACK_ASSETS_EXTENSION", "wav")

	f := fixture{
		dir:    dir,
		sounds: filepath.Join(dir, "sounds"),
		keymap: filepath.Join(dir, "keymap.toml"),
	}
	require.NoError(t, os.Mkdir(f.sounds, 0o755))
	for _, id := range ids {
		require.NoError(t, os.WriteFile(asset.Path(f.sounds, id, "wav"), wavClip(t, 50*time.Millisecond), 0o644))
	}
	require.NoError(t, os.WriteFile(f.keymap, []byte(keymap), 0o644))
	return f
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

// TestCheck_ReportsStaleBindings verifies check lists bindings to missing sounds
func TestCheck_ReportsStaleBindings(t *testing.T) {
	f := newFixture(t, []int{1, 2}, "A = 1\nB = 9\nSpace = 2\n")

	out, err := execute(t, "check", "--assets", f.sounds, "--keymap", f.keymap)
	require.NoError(t, err)

	require.Contains(t, out, "sounds: 2 in "+f.sounds)
	require.Contains(t, out, "keymap: 3 bindings")
	require.Contains(t, out, "B -> 9: missing")
	require.NotContains(t, out, "A -> 1")
	require.Contains(t, out, "default sound 65: missing")
	require.Contains(t, out, "1 of 3 bindings need repair")
}

// TestCheck_DefaultSoundPresent verifies check reports a present default sound
func TestCheck_DefaultSoundPresent(t *testing.T) {
	f := newFixture(t, []int{65}, "A = 65\n")

	out, err := execute(t, "check", "--assets", f.sounds, "--keymap", f.keymap)
	require.NoError(t, err)
	require.Contains(t, out, "default sound 65: present")
	require.Contains(t, out, "0 of 1 bindings need repair")
}

// TestCheck_FatalConditions verifies check fails on startup-fatal conditions
func TestCheck_FatalConditions(t *testing.T) {
	t.Run("malformed keymap", func(t *testing.T) {
		f := newFixture(t, []int{1}, "A = \"one\"\n")
		_, err := execute(t, "check", "--assets", f.sounds, "--keymap", f.keymap)
		require.Error(t, err)
	})

	t.Run("missing keymap", func(t *testing.T) {
		f := newFixture(t, []int{1}, "")
		_, err := execute(t, "check", "--assets", f.sounds, "--keymap", filepath.Join(f.dir, "absent.toml"))
		require.Error(t, err)
	})

	t.Run("no sounds", func(t *testing.T) {
		f := newFixture(t, nil, "A = 1\n")
		_, err := execute(t, "check", "--assets", f.sounds, "--keymap", f.keymap)
		require.True(t, errors.Is(err, asset.ErrNoSounds), "got %v", err)
	})

	t.Run("missing sound directory", func(t *testing.T) {
		f := newFixture(t, nil, "A = 1\n")
		_, err := execute(t, "check", "--assets", filepath.Join(f.dir, "absent"), "--keymap", f.keymap)
		require.Error(t, err)
	})

	t.Run("invalid config", func(t *testing.T) {
		f := newFixture(t, []int{1}, "A = 1\n")
		_, err := execute(t, "check", "--assets", f.sounds, "--keymap", f.keymap, "--input", "x11")
		require.Error(t, err)
	})
}

// TestSounds_ListsClips verifies sounds lists each clip with its duration
func TestSounds_ListsClips(t *testing.T) {
	f := newFixture(t, []int{3, 12}, "")
	require.NoError(t, os.WriteFile(filepath.Join(f.sounds, "notes.txt"), []byte("ignored"), 0o644))

	out, err := execute(t, "sounds", "--assets", f.sounds)
	require.NoError(t, err)

	require.Contains(t, out, "ID")
	require.Contains(t, out, "50ms")
	require.Contains(t, out, "2 sounds")
	require.NotContains(t, out, "notes")
}

// TestSounds_ConfigFile verifies sounds honors the config file
func TestSounds_ConfigFile(t *testing.T) {
	f := newFixture(t, []int{7}, "")
	cfgPath := filepath.Join(f.dir, "custom.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[assets]\ndir = \""+filepath.ToSlash(f.sounds)+"\"\n"), 0o644))

	out, err := execute(t, "sounds", "--config", cfgPath)
	require.NoError(t, err)
	require.Contains(t, out, "1 sounds")
}

// TestPreview_RejectsBadID verifies preview rejects malformed and unknown ids
func TestPreview_RejectsBadID(t *testing.T) {
	f := newFixture(t, []int{1}, "")

	_, err := execute(t, "preview", "abc", "--assets", f.sounds)
	require.Error(t, err)
	require.Contains(t, err.Error(), "not an integer")

	_, err = execute(t, "preview", "42", "--assets", f.sounds)
	require.Error(t, err)
	require.Contains(t, err.Error(), "sound 42 not found")
}

// TestQuitOn verifies the quit channel cancels the run context
func TestQuitOn(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	quit := make(chan struct{})

	done := make(chan struct{})
	go func() {
		quitOn(ctx, quit, cancel)
		close(done)
	}()

	close(quit)
	<-done
	require.Error(t, ctx.Err())
}

// TestBindFlags verifies bound flags override config keys and unknown flags are reported
func TestBindFlags(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("assets", "", "")
	require.NoError(t, flags.Parse([]string{"--assets", "/srv/sounds"}))

	v := viper.New()
	v.SetDefault("assets.dir", "./output")
	require.NoError(t, bindFlags(v, flags, map[string]string{"assets.dir": "assets"}))
	require.Equal(t, "/srv/sounds", v.GetString("assets.dir"))

	err := bindFlags(viper.New(), flags, map[string]string{"log.file": "log"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "--log")
}

// TestFlagKeysMatchRootFlags verifies every bound flag exists on the root command
func TestFlagKeysMatchRootFlags(t *testing.T) {
	root := newRootCommand()
	require.NoError(t, bindFlags(viper.New(), root.PersistentFlags(), flagKeys))
}
