// SPDX-License-Identifier: EPL-2.0

package device

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/ik5/audseek/audio"
	"github.com/jfreymuth/pulse"
	"github.com/jfreymuth/pulse/proto"
)

const (
	// DefaultQueueLen is the number of written blocks the PulseAudio device
	// holds before Write blocks.
	DefaultQueueLen = 8

	pulseLatency = 0.1
	writeTimeout = 2 * time.Second
	drainPoll    = 5 * time.Millisecond
)

var ErrWriteTimeout = errors.New("device stopped consuming audio")

// pcmQueue hands written blocks to the playback callback, which runs on the
// PulseAudio client goroutine.
type pcmQueue struct {
	ch chan []int16
	// rest of a block the callback could not fit; only touched by read
	pending []int16
}

func newPCMQueue(n int) *pcmQueue {
	return &pcmQueue{ch: make(chan []int16, n)}
}

func (q *pcmQueue) push(pcm []int16, timeout time.Duration) error {
	t := time.NewTimer(timeout)
	defer t.Stop()

	select {
	case q.ch <- pcm:
		return nil
	case <-t.C:
		return ErrWriteTimeout
	}
}

// drain waits until the callback has taken every queued block, so closing
// the stream afterwards only cuts the block being played. It gives up after
// timeout and reports whether the queue emptied.
func (q *pcmQueue) drain(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for len(q.ch) > 0 {
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(drainPoll)
	}
	return true
}

// read fills out from the queued blocks and plays silence when none are
// ready.
func (q *pcmQueue) read(out []int16) (int, error) {
	n := 0
	for n < len(out) {
		if len(q.pending) == 0 {
			select {
			case b := <-q.ch:
				q.pending = b
			default:
				clear(out[n:])
				return len(out), nil
			}
		}

		c := copy(out[n:], q.pending)
		q.pending = q.pending[c:]
		n += c
	}

	return n, nil
}

// Pulse plays through a PulseAudio server using a pull stream fed from a
// bounded queue. Write blocks while the queue is full.
type Pulse struct {
	queueLen int

	client *pulse.Client
	stream *pulse.PlaybackStream
	queue  *pcmQueue
	rate   int
}

var _ audio.Device = (*Pulse)(nil)

// NewPulse returns a closed device. queueLen <= 0 selects DefaultQueueLen.
func NewPulse(queueLen int) *Pulse {
	if queueLen <= 0 {
		queueLen = DefaultQueueLen
	}
	return &Pulse{queueLen: queueLen}
}

func (p *Pulse) Open() error {
	if p.client != nil {
		return nil
	}

	c, err := pulse.NewClient()
	if err != nil {
		return fmt.Errorf("%w: pulse: %w", audio.ErrDeviceUnavailable, err)
	}
	p.client = c

	return nil
}

func (p *Pulse) Configure(sampleRate int) error {
	if p.client == nil {
		return fmt.Errorf("pulse: %w", audio.ErrNotConfigured)
	}
	if p.stream != nil && p.rate == sampleRate {
		return nil
	}

	p.closeStream()

	q := newPCMQueue(p.queueLen)
	s, err := p.client.NewPlayback(pulse.Int16Reader(q.read),
		pulse.PlaybackSampleRate(sampleRate),
		pulse.PlaybackChannels(proto.ChannelMap{proto.ChannelLeft, proto.ChannelRight}),
		pulse.PlaybackLatency(pulseLatency),
	)
	if err != nil {
		return fmt.Errorf("%w: pulse: %w", audio.ErrDeviceUnavailable, err)
	}
	s.Start()

	p.stream = s
	p.queue = q
	p.rate = sampleRate
	return nil
}

func (p *Pulse) Write(pcm []int16) error {
	if p.stream == nil {
		return fmt.Errorf("pulse: %w", audio.ErrNotConfigured)
	}
	if err := p.stream.Error(); err != nil {
		return fmt.Errorf("pulse: %w", err)
	}

	// the caller reuses pcm for the next frame
	if err := p.queue.push(slices.Clone(pcm), writeTimeout); err != nil {
		return fmt.Errorf("pulse: %w", err)
	}
	return nil
}

// Close stops playback and disconnects from the server, so the sound
// server is free for other clients while paused.
func (p *Pulse) Close() error {
	p.closeStream()

	if p.client != nil {
		p.client.Close()
		p.client = nil
	}
	return nil
}

func (p *Pulse) closeStream() {
	if p.stream == nil {
		return
	}

	// audio already counted as played should still be heard
	p.queue.drain(writeTimeout)
	p.stream.Stop()
	p.stream.Close()
	p.stream = nil
	p.queue = nil
	p.rate = 0
}
