// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ik5/audseek/audio"
)

// FrameCodec is an audio.Codec that cuts its input into fixed-size frames.
// Each frame decodes to one PCM sample per input byte, so what a device
// receives can be compared byte for byte with the stream that was read.
type FrameCodec struct {
	R        io.Reader
	Size     int
	Rate     int
	Duration time.Duration

	// Errs makes the frame with the given index (counted from 0 across
	// resets) fail with that error after its bytes were consumed.
	Errs map[int]error

	// Frames counts frames handed out, failed ones included.
	Frames int
	// Resets counts calls to Reset.
	Resets int

	raw []byte
	pcm []int16
}

var _ audio.Codec = (*FrameCodec)(nil)

func (c *FrameCodec) Next() (audio.Frame, error) {
	if cap(c.raw) < c.Size {
		c.raw = make([]byte, c.Size)
		c.pcm = make([]int16, c.Size)
	}
	c.raw = c.raw[:c.Size]

	n, err := io.ReadFull(c.R, c.raw)
	if n < c.Size {
		// a truncated frame ends the stream
		if err == nil || errors.Is(err, io.ErrUnexpectedEOF) {
			err = io.EOF
		}
		return audio.Frame{}, err
	}

	idx := c.Frames
	c.Frames++

	frame := audio.Frame{
		SampleRate: c.Rate,
		Channels:   2,
		Size:       n,
		Duration:   c.Duration,
	}

	if err := c.Errs[idx]; err != nil {
		return frame, fmt.Errorf("frame %d: %w", idx, err)
	}

	c.pcm = c.pcm[:n]
	for i, b := range c.raw[:n] {
		c.pcm[i] = int16(b)
	}
	frame.PCM = c.pcm

	return frame, nil
}

func (c *FrameCodec) Reset() {
	c.Resets++
}
