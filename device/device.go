// SPDX-License-Identifier: EPL-2.0

package device

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ik5/audseek/audio"
	"github.com/ik5/audseek/formats/aiff"
	"github.com/ik5/audseek/formats/wav"
)

const (
	NamePortAudio = "portaudio"
	NamePulse     = "pulse"
	NameSpeaker   = "speaker"
	// "wav:<path>" and "aiff:<path>" record to a file instead of playing
	prefixWAV  = "wav:"
	prefixAIFF = "aiff:"
)

var ErrUnknownDevice = errors.New("unknown output device")

// Options tunes the devices New builds.
type Options struct {
	// FramesPerBuffer for PortAudio.
	FramesPerBuffer int
	// QueueLen for PulseAudio and the speaker.
	QueueLen int
}

// New builds the device named by spec: "portaudio" (also the default for an
// empty spec), "pulse", "speaker", "wav:<path>" or "aiff:<path>". The device
// is returned closed.
func New(spec string, opts Options) (audio.Device, error) {
	switch name := strings.ToLower(strings.TrimSpace(spec)); {
	case name == "" || name == NamePortAudio:
		return NewPortAudio(opts.FramesPerBuffer), nil
	case name == NamePulse:
		return NewPulse(opts.QueueLen), nil
	case name == NameSpeaker:
		return NewSpeaker(opts.QueueLen), nil
	case strings.HasPrefix(name, prefixWAV):
		path, err := capturePath(spec, prefixWAV)
		if err != nil {
			return nil, err
		}
		return wav.NewCapture(path), nil
	case strings.HasPrefix(name, prefixAIFF):
		path, err := capturePath(spec, prefixAIFF)
		if err != nil {
			return nil, err
		}
		return aiff.NewCapture(path), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDevice, spec)
	}
}

// capturePath keeps the path as given, only the prefix is case-insensitive.
func capturePath(spec, prefix string) (string, error) {
	path := strings.TrimSpace(spec)[len(prefix):]
	if path == "" {
		return "", fmt.Errorf("%w: %q needs a file path", ErrUnknownDevice, spec)
	}
	return path, nil
}

// Finish finalizes devices that produce a file. It is a no-op for sound
// cards.
func Finish(d audio.Device) error {
	if f, ok := d.(interface{ Finish() error }); ok {
		return f.Finish()
	}
	return nil
}
