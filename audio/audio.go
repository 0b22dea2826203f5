// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"
	"strings"
	"sync"
	"time"
)

// Frame is one decoded unit of a compressed stream.
type Frame struct {
	// PCM holds interleaved stereo signed 16-bit samples. It is owned by the
	// codec and only valid until the next call to Next.
	PCM []int16
	// SampleRate of PCM in Hz.
	SampleRate int
	// Channels in PCM, always 2.
	Channels int
	// Size is the number of compressed bytes the frame occupied in the stream.
	Size int
	// Duration of the decoded audio.
	Duration time.Duration
	// Skipped counts junk bytes discarded while looking for this frame.
	Skipped int
}

// Samples returns the number of sample frames (per channel) in f.
func (f Frame) Samples() int {
	if f.Channels == 0 {
		return 0
	}
	return len(f.PCM) / f.Channels
}

// Codec produces a lazy, finite sequence of decoded frames.
type Codec interface {
	// Next decodes the next frame. It returns io.EOF when the stream is
	// exhausted, an error wrapping ErrRecoverable when a frame had to be
	// skipped, and any other error when decoding cannot continue.
	Next() (Frame, error)

	// Reset discards all decoder state. It is called after the underlying
	// reader was repositioned so decoding resynchronizes on the next frame.
	Reset()
}

// Decoder constructs a Codec reading compressed bytes from r.
type Decoder interface {
	Decode(r io.Reader) (Codec, error)
}

// Device is an audio output that accepts interleaved stereo 16-bit PCM.
type Device interface {
	// Open acquires the device.
	Open() error
	// Configure (re)initializes output at the given sample rate.
	Configure(sampleRate int) error
	// Write blocks until pcm was handed to the device.
	Write(pcm []int16) error
	// Close releases the device so other programs may use it.
	Close() error
}

// Registry maps file extensions (e.g., "mp3", "ogg") to decoders.
type Registry struct {
	codecs map[string]Decoder

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]Decoder),
		mtx:    &sync.Mutex{},
	}
}

// Register binds format to d. The format is matched case-insensitively and
// may be given with or without a leading dot.
func (r *Registry) Register(format string, d Decoder) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.codecs[normalizeFormat(format)] = d
}

func (r *Registry) Get(format string) (Decoder, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	d, ok := r.codecs[normalizeFormat(format)]
	return d, ok
}

// Formats lists the registered format keys.
func (r *Registry) Formats() []string {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	formats := make([]string, 0, len(r.codecs))
	for f := range r.codecs {
		formats = append(formats, f)
	}
	return formats
}

func normalizeFormat(format string) string {
	return strings.ToLower(strings.TrimPrefix(format, "."))
}
