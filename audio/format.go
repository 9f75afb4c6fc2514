package audio

import (
	"bytes"
	"io"
	"strings"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/wav"
	"github.com/pkg/errors"
)

// Format is a clip encoding, named by its file extension
type Format string

const (
	FormatMP3 Format = "mp3"
	FormatWAV Format = "wav"
)

// ParseFormat maps a file extension (with or without the dot) to a Format
func ParseFormat(ext string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimPrefix(ext, ".")))
	switch f {
	case FormatMP3, FormatWAV:
		return f, nil
	}
	return "", errors.Wrapf(ErrUnsupportedFormat, "extension %q", ext)
}

// Decode opens a streaming decoder over buf
// buf is only read through a bytes.Reader, the caller's bytes are never written
func (f Format) Decode(buf []byte) (beep.StreamSeekCloser, beep.Format, error) {
	switch f {
	case FormatMP3:
		return mp3.Decode(io.NopCloser(bytes.NewReader(buf)))
	case FormatWAV:
		return wav.Decode(bytes.NewReader(buf))
	}
	return nil, beep.Format{}, errors.Wrapf(ErrUnsupportedFormat, "%q", string(f))
}

// ClipInfo describes a decoded clip
type ClipInfo struct {
	Format   beep.Format
	Frames   int
	Duration time.Duration
}

// Probe decodes buf far enough to report its format and length
func (f Format) Probe(buf []byte) (ClipInfo, error) {
	s, format, err := f.Decode(buf)
	if err != nil {
		return ClipInfo{}, errors.Wrap(err, "decode clip")
	}
	defer s.Close()

	return ClipInfo{
		Format:   format,
		Frames:   s.Len(),
		Duration: format.SampleRate.D(s.Len()),
	}, nil
}
