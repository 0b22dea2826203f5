// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ik5/audseek/audio"
	"github.com/ik5/audseek/utils"
	"github.com/jfreymuth/oggvorbis"
)

// blockFrames is the most sample frames returned as one audio.Frame.
const blockFrames = 1024

// oggReader is an interface for oggvorbis.Reader to allow testing
type oggReader interface {
	SampleRate() int
	Channels() int
	Read([]float32) (int, error)
}

func newOggVorbis(r io.Reader) (oggReader, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	return dec, nil
}

type codec struct {
	src       *countingReader
	headers   []byte
	newReader func(io.Reader) (oggReader, error)

	// nil after a reset or a broken page; the next frame resyncs
	dec oggReader

	sampleRate int
	channels   int

	values  []float32
	samples []int16
}

var _ audio.Codec = (*codec)(nil)

func newCodec(r io.Reader, newReader func(io.Reader) (oggReader, error)) (*codec, error) {
	headers, err := readHeaderPages(r)
	if err != nil {
		return nil, fmt.Errorf("vorbis: %w", err)
	}

	c := &codec{
		src:       &countingReader{r: r},
		headers:   headers,
		newReader: newReader,
	}
	if err := c.open(nil); err != nil {
		return nil, err
	}

	c.sampleRate = c.dec.SampleRate()
	c.channels = c.dec.Channels()
	if c.channels < 1 || c.sampleRate < 1 {
		return nil, fmt.Errorf("vorbis: %w: %d channels at %d Hz",
			audio.ErrUnsupportedFormat, c.channels, c.sampleRate)
	}
	c.values = make([]float32, blockFrames*c.channels)

	return c, nil
}

// open starts a decoder that first sees the stored header pages, then prefix,
// then whatever is left in the window.
func (c *codec) open(prefix []byte) error {
	dec, err := c.newReader(io.MultiReader(bytes.NewReader(c.headers), bytes.NewReader(prefix), c.src))
	if err != nil {
		return fmt.Errorf("vorbis: %w", err)
	}
	c.dec = dec
	return nil
}

func (c *codec) Next() (audio.Frame, error) {
	start := c.src.n
	skipped := 0

	if c.dec == nil {
		n, err := syncPage(c.src)
		skipped = n
		if err != nil {
			return audio.Frame{}, io.EOF
		}
		if err := c.open([]byte(capturePattern)); err != nil {
			return audio.Frame{Skipped: skipped}, fmt.Errorf("%w: %w", audio.ErrRecoverable, err)
		}
	}

	for {
		n, err := c.dec.Read(c.values)
		if n > 0 {
			frames := n / c.channels
			c.samples = utils.StereoFromFloat32(c.samples, c.values[:frames*c.channels], c.channels)

			return audio.Frame{
				PCM:        c.samples,
				SampleRate: c.sampleRate,
				Channels:   2,
				Size:       int(c.src.n-start) - skipped,
				Duration:   time.Duration(frames) * time.Second / time.Duration(c.sampleRate),
				Skipped:    skipped,
			}, nil
		}

		if err == nil {
			continue
		}

		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return audio.Frame{}, io.EOF
		}

		// resync on the next page
		c.dec = nil
		return audio.Frame{
			Size:    int(c.src.n-start) - skipped,
			Skipped: skipped,
		}, fmt.Errorf("%w: vorbis: %w", audio.ErrRecoverable, err)
	}
}

func (c *codec) Reset() {
	c.dec = nil
}

// Decoder builds Ogg Vorbis codecs.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Codec, error) {
	c, err := newCodec(r, newOggVorbis)
	if err != nil {
		return nil, err
	}
	return c, nil
}
