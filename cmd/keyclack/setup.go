package main

import (
	"github.com/pkg/errors"

	"github.com/lixenwraith/keyclack/asset"
	"github.com/lixenwraith/keyclack/audio"
	"github.com/lixenwraith/keyclack/constant"
	"github.com/lixenwraith/keyclack/keymap"
)

// ext is the normalized clip extension used in file names
func (a *app) ext() string {
	return string(a.cfg.Format())
}

// loadSounds reads every clip; an empty directory is refused
func (a *app) loadSounds() (*asset.Cache, error) {
	cache, err := asset.BuildCache(a.cfg.Assets.Dir, a.ext())
	if err != nil {
		return nil, err
	}
	if cache.Len() == 0 {
		return nil, errors.Wrapf(asset.ErrNoSounds, "no %s<id>.%s files in %s", constant.SoundFilePrefix, a.ext(), a.cfg.Assets.Dir)
	}
	return cache, nil
}

func (a *app) loadKeymap() (*keymap.KeyMap, error) {
	return keymap.Load(a.cfg.Keymap.File, a.cfg.Keymap.DefaultSound)
}

// newAudio opens the speaker and an engine with the configured variation
func (a *app) newAudio() (*audio.SpeakerOutput, *audio.Engine, error) {
	out, err := audio.NewSpeakerOutput(a.cfg.SampleRate(), a.cfg.Audio.Buffer)
	if err != nil {
		return nil, nil, err
	}
	eng := audio.NewEngine(out, a.cfg.Format(),
		audio.WithVariation(a.cfg.Variation()),
		audio.WithQuality(a.cfg.Audio.Quality),
	)
	return out, eng, nil
}
