// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/ik5/audseek/audio"
)

const (
	BitDepth  = 16
	Channels  = 2
	formatPCM = 1
)

// Encoder is the part of a go-audio container encoder a Capture writes to.
type Encoder interface {
	Write(buf *goaudio.IntBuffer) error
	Close() error
}

// EncoderFunc creates a 16-bit stereo encoder at sampleRate over w.
type EncoderFunc func(w io.WriteSeeker, sampleRate int) Encoder

func newWAVEncoder(w io.WriteSeeker, sampleRate int) Encoder {
	return wav.NewEncoder(w, sampleRate, BitDepth, Channels, formatPCM)
}

// Capture is an audio.Device that records everything written to it into a
// 16-bit stereo WAV file instead of playing it. Other go-audio containers
// can be written with NewCaptureWith.
//
// Close only detaches the capture so a paused player can reopen it; the file
// keeps growing across pauses. Finish writes the final header and closes the
// file.
type Capture struct {
	path string

	newEncoder EncoderFunc

	file *os.File
	enc  Encoder
	rate int

	attached bool
	finished bool

	buf goaudio.IntBuffer
}

var _ audio.Device = (*Capture)(nil)

// NewCapture returns a capture that creates path on first Open.
func NewCapture(path string) *Capture {
	return NewCaptureWith(path, newWAVEncoder)
}

// NewCaptureWith returns a capture writing through encoders from newEncoder.
func NewCaptureWith(path string, newEncoder EncoderFunc) *Capture {
	return &Capture{path: path, newEncoder: newEncoder}
}

func (c *Capture) Open() error {
	if c.finished {
		return fmt.Errorf("%w: %s already finished", audio.ErrDeviceUnavailable, c.path)
	}

	if c.file == nil {
		f, err := os.Create(c.path)
		if err != nil {
			return fmt.Errorf("%w: %w", audio.ErrDeviceUnavailable, err)
		}
		c.file = f
	}

	c.attached = true
	return nil
}

// Configure fixes the sample rate on the first call. The WAV header holds a
// single rate, so any later different rate fails with ErrRateChange.
func (c *Capture) Configure(sampleRate int) error {
	if !c.attached {
		return ErrNotOpen
	}
	if sampleRate <= 0 {
		return fmt.Errorf("invalid sample rate %d", sampleRate)
	}

	if c.enc == nil {
		c.enc = c.newEncoder(c.file, sampleRate)
		c.rate = sampleRate
		c.buf.Format = &goaudio.Format{NumChannels: Channels, SampleRate: sampleRate}
		c.buf.SourceBitDepth = BitDepth
		return nil
	}

	if sampleRate != c.rate {
		return fmt.Errorf("%w: %d Hz to %d Hz", ErrRateChange, c.rate, sampleRate)
	}

	return nil
}

func (c *Capture) Write(pcm []int16) error {
	if !c.attached {
		return ErrNotOpen
	}
	if c.enc == nil {
		return audio.ErrNotConfigured
	}

	if cap(c.buf.Data) < len(pcm) {
		c.buf.Data = make([]int, len(pcm))
	}
	c.buf.Data = c.buf.Data[:len(pcm)]
	for i, s := range pcm {
		c.buf.Data[i] = int(s)
	}

	if err := c.enc.Write(&c.buf); err != nil {
		return fmt.Errorf("capture: writing %s: %w", c.path, err)
	}

	return nil
}

func (c *Capture) Close() error {
	c.attached = false
	return nil
}

// Finish finalizes the WAV header and closes the file. A capture that never
// received a sample rate leaves an empty file.
func (c *Capture) Finish() error {
	if c.finished {
		return nil
	}
	c.finished = true
	c.attached = false

	if c.file == nil {
		return nil
	}

	var encErr error
	if c.enc != nil {
		encErr = c.enc.Close()
	}

	if err := c.file.Close(); err != nil {
		return fmt.Errorf("capture: closing %s: %w", c.path, err)
	}
	if encErr != nil {
		return fmt.Errorf("capture: finalizing %s: %w", c.path, encErr)
	}

	return nil
}

// SampleRate returns the rate the capture was configured with, or 0.
func (c *Capture) SampleRate() int {
	return c.rate
}
