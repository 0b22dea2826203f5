// SPDX-License-Identifier: EPL-2.0

// Package metrics estimates the average size and duration of the frames of a
// variable-bitrate stream, and converts navigation targets (time, percent) to
// byte offsets with those estimates.
//
// The estimates are exponentially weighted moving averages with weight 1/32,
// seeded by the first observed frame. They are approximations: frames differ
// in size, so every conversion is only as precise as the stream is uniform,
// and seeking is frame granular at best.
package metrics

import (
	"time"

	"github.com/ik5/audseek/utils"
)

const (
	// DefaultFrameDuration is assumed, in milliseconds, until a frame was seen.
	DefaultFrameDuration = 40

	// weightShift makes every new sample count 1/32.
	weightShift = 5
)

// Estimator holds the running frame averages. The zero value is ready to use.
type Estimator struct {
	frameSize int64 // bytes
	frameMs   int64 // milliseconds
	seeded    bool
	observed  int64
}

// Observe feeds one decoded frame into the averages.
func (e *Estimator) Observe(frameBytes int, d time.Duration) {
	size := max(int64(frameBytes), 0)
	ms := max(d.Milliseconds(), 0)

	e.observed++
	if !e.seeded {
		e.frameSize = size
		e.frameMs = ms
		e.seeded = true
		return
	}

	e.frameSize = ewma(e.frameSize, size)
	e.frameMs = ewma(e.frameMs, ms)
}

// ewma returns old + (sample-old)/32 in integer arithmetic.
func ewma(old, sample int64) int64 {
	return ((old << weightShift) - old + sample) >> weightShift
}

// FrameSize returns the average frame size in bytes, 0 before any frame.
func (e *Estimator) FrameSize() int64 { return e.frameSize }

// FrameDuration returns the average frame duration in milliseconds, 0
// before any frame.
func (e *Estimator) FrameDuration() int64 { return e.frameMs }

// Observed returns the number of frames fed to Observe.
func (e *Estimator) Observed() int64 { return e.observed }

func (e *Estimator) duration() int64 {
	if e.frameMs == 0 {
		return DefaultFrameDuration
	}
	return e.frameMs
}

// MsToBytes converts a span of playback time to the equivalent number of
// compressed bytes. Negative spans give negative byte counts.
func (e *Estimator) MsToBytes(ms int64) int64 {
	return utils.MulDiv(ms, e.frameSize, e.duration())
}

// SecondsToBytes is MsToBytes for whole seconds.
func (e *Estimator) SecondsToBytes(seconds int64) int64 {
	return utils.MulDiv(seconds, e.frameSize*1000, e.duration())
}

// PercentToBytes returns the offset lying pct percent into a file of
// fileSize bytes.
func (e *Estimator) PercentToBytes(pct, fileSize int64) int64 {
	return utils.MulDiv(fileSize, pct, 100)
}

// BytesToSeconds estimates the playback time at byte offset pos. It returns
// 0 until a frame was observed.
func (e *Estimator) BytesToSeconds(pos int64) int64 {
	if e.frameSize == 0 {
		return 0
	}
	return utils.MulDiv(pos, e.frameMs, e.frameSize*1000)
}
