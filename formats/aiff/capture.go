// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"io"

	"github.com/go-audio/aiff"
	"github.com/ik5/audseek/formats/wav"
)

func newEncoder(w io.WriteSeeker, sampleRate int) wav.Encoder {
	return aiff.NewEncoder(w, sampleRate, wav.BitDepth, wav.Channels)
}

// NewCapture returns an audio.Device recording 16-bit stereo AIFF to path.
// It behaves like wav.NewCapture apart from the container.
func NewCapture(path string) *wav.Capture {
	return wav.NewCaptureWith(path, newEncoder)
}
