package constant

// Sound Assets
const (
	DefaultAssetDir   = "./output"
	DefaultExtension  = "mp3"
	DefaultKeymapFile = "keymap.toml"

	// SoundFilePrefix names clips as key_sound_<id>.<ext>
	SoundFilePrefix = "key_sound_"

	// DefaultSoundID is resolved for keys absent from the keymap
	DefaultSoundID = 65
)
