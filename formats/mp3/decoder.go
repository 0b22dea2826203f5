// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/ik5/audseek/audio"
	"github.com/ik5/audseek/utils"
	tcmp3 "github.com/tcolgate/mp3"
)

// maxFramePCM is the decoded size in bytes of the largest layer III frame:
// 1152 samples of 16-bit stereo.
const maxFramePCM = 1152 * 4

// mp3Reader is an interface for gomp3.Decoder to allow testing
type mp3Reader interface {
	Read([]byte) (int, error)
	SampleRate() int
}

// frameSplitter cuts the compressed stream into whole MPEG audio frames.
type frameSplitter interface {
	// next returns the raw bytes of the next frame (header included), its
	// duration and the junk bytes skipped to find it. raw is only valid
	// until the following call.
	next() (raw []byte, d time.Duration, skipped int, err error)
}

type tcolgateSplitter struct {
	dec   *tcmp3.Decoder
	frame tcmp3.Frame
	raw   bytes.Buffer
}

func newTcolgateSplitter(r io.Reader) frameSplitter {
	return &tcolgateSplitter{dec: tcmp3.NewDecoder(r)}
}

func (s *tcolgateSplitter) next() ([]byte, time.Duration, int, error) {
	skipped := 0
	if err := s.dec.Decode(&s.frame, &skipped); err != nil {
		return nil, 0, skipped, err
	}

	s.raw.Reset()
	if _, err := s.raw.ReadFrom(s.frame.Reader()); err != nil {
		return nil, 0, skipped, fmt.Errorf("%w", err)
	}

	return s.raw.Bytes(), s.frame.Duration(), skipped, nil
}

func newGoMP3(r io.Reader) (mp3Reader, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	return dec, nil
}

// codec pairs a frame splitter, which knows where every frame starts and how
// long it plays, with a go-mp3 decoder that turns exactly one fed frame into
// PCM per call. go-mp3 keeps the bit reservoir of the previous frames, so one
// decoder lives until the stream is repositioned or a frame breaks it.
type codec struct {
	src io.Reader

	frames    frameSplitter
	newFrames func(io.Reader) frameSplitter

	dec    mp3Reader
	newPCM func(io.Reader) (mp3Reader, error)
	// frames waiting to be read by dec
	feed bytes.Buffer

	pcm     []byte
	samples []int16
}

var _ audio.Codec = (*codec)(nil)

func newCodec(r io.Reader, newFrames func(io.Reader) frameSplitter, newPCM func(io.Reader) (mp3Reader, error)) *codec {
	return &codec{
		src:       r,
		frames:    newFrames(r),
		newFrames: newFrames,
		newPCM:    newPCM,
		pcm:       make([]byte, maxFramePCM),
	}
}

func (c *codec) Next() (audio.Frame, error) {
	raw, d, skipped, err := c.frames.next()
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			// a truncated last frame ends the stream like a clean EOF
			return audio.Frame{}, io.EOF
		}
		return audio.Frame{}, fmt.Errorf("mp3: %w", err)
	}

	frame := audio.Frame{
		Channels: 2,
		Size:     len(raw),
		Duration: d,
		Skipped:  skipped,
	}

	c.feed.Write(raw)

	if c.dec == nil {
		dec, err := c.newPCM(&c.feed)
		if err != nil {
			c.dropDecoder()
			return frame, fmt.Errorf("%w: mp3: %w", audio.ErrRecoverable, err)
		}
		c.dec = dec
	}

	n, err := c.dec.Read(c.pcm)
	// whatever dec did not consume belongs to a frame it could not parse
	c.feed.Reset()
	if n == 0 {
		c.dropDecoder()
		if err == nil {
			err = io.ErrNoProgress
		}
		return frame, fmt.Errorf("%w: mp3: %w", audio.ErrRecoverable, err)
	}

	frame.SampleRate = c.dec.SampleRate()
	c.samples = utils.Int16FromLE(c.samples, c.pcm[:n])
	frame.PCM = c.samples

	return frame, nil
}

func (c *codec) Reset() {
	c.frames = c.newFrames(c.src)
	c.dropDecoder()
}

func (c *codec) dropDecoder() {
	c.dec = nil
	c.feed.Reset()
}

// Decoder builds MP3 codecs. Only MPEG layer III frames produce audio.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Codec, error) {
	if r == nil {
		return nil, fmt.Errorf("mp3: %w", io.ErrUnexpectedEOF)
	}

	return newCodec(r, newTcolgateSplitter, newGoMP3), nil
}
