package keymap

import (
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"

	"github.com/lixenwraith/keyclack/logger"
)

// Load reads a keymap file of `"<key>" = <sound id>` pairs
// Any read or parse failure is returned; there is no partial load
func Load(path string, fallback int) (*KeyMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read keymap %q", path)
	}

	m, err := Parse(data, fallback)
	if err != nil {
		return nil, errors.Wrapf(err, "keymap %q", path)
	}

	logger.GetLogger("keymap").Debugf("Loaded %d key bindings from %q (default sound %d)", m.Len(), path, fallback)
	return m, nil
}

// Parse decodes keymap TOML
// Values must be integers; tables, strings and floats are rejected
func Parse(data []byte, fallback int) (*KeyMap, error) {
	var raw map[string]int
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "parse")
	}
	return New(raw, fallback), nil
}
