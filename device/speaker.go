// SPDX-License-Identifier: EPL-2.0

package device

import (
	"fmt"
	"slices"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/ik5/audseek/audio"
)

const (
	// SpeakerRate is the fixed output rate of the speaker device. Streams
	// at other rates are resampled.
	SpeakerRate = beep.SampleRate(44100)

	resampleQuality = 4
)

// queueStreamer is a beep.Streamer over a pcmQueue. It never ends; an
// empty queue plays silence.
type queueStreamer struct {
	q   *pcmQueue
	buf []int16
}

func (s *queueStreamer) Stream(samples [][2]float64) (int, bool) {
	need := len(samples) * 2
	if cap(s.buf) < need {
		s.buf = make([]int16, need)
	}
	buf := s.buf[:need]

	_, _ = s.q.read(buf)
	for i := range samples {
		samples[i][0] = float64(buf[2*i]) / 32768
		samples[i][1] = float64(buf[2*i+1]) / 32768
	}

	return len(samples), true
}

func (s *queueStreamer) Err() error { return nil }

// Speaker plays through the beep speaker. The speaker can only be
// initialized once per process, so Close suspends it instead of shutting it
// down, and the output rate never changes: Configure puts a resampler in
// front of the queue when the stream rate differs.
type Speaker struct {
	queueLen     int
	drainTimeout time.Duration

	initialize func(beep.SampleRate, int) error
	play       func(...beep.Streamer)
	clear      func()
	suspend    func() error
	resume     func() error

	initialized bool
	open        bool
	queue       *pcmQueue
	rate        int
}

var _ audio.Device = (*Speaker)(nil)

// NewSpeaker returns a closed device. queueLen <= 0 selects DefaultQueueLen.
func NewSpeaker(queueLen int) *Speaker {
	if queueLen <= 0 {
		queueLen = DefaultQueueLen
	}

	return &Speaker{
		queueLen:     queueLen,
		drainTimeout: writeTimeout,
		initialize:   speaker.Init,
		play:         speaker.Play,
		clear:        speaker.Clear,
		suspend:      speaker.Suspend,
		resume:       speaker.Resume,
	}
}

func (s *Speaker) Open() error {
	if s.open {
		return nil
	}

	if !s.initialized {
		if err := s.initialize(SpeakerRate, SpeakerRate.N(time.Second/10)); err != nil {
			return fmt.Errorf("%w: speaker: %w", audio.ErrDeviceUnavailable, err)
		}
		s.initialized = true
	} else if err := s.resume(); err != nil {
		return fmt.Errorf("%w: speaker: %w", audio.ErrDeviceUnavailable, err)
	}

	s.open = true
	return nil
}

func (s *Speaker) Configure(sampleRate int) error {
	if !s.open {
		return fmt.Errorf("speaker: %w", audio.ErrNotConfigured)
	}
	if sampleRate <= 0 {
		return fmt.Errorf("speaker: invalid sample rate %d", sampleRate)
	}
	if s.queue != nil && s.rate == sampleRate {
		return nil
	}

	if s.queue != nil {
		s.queue.drain(s.drainTimeout)
	}
	s.clear()

	q := newPCMQueue(s.queueLen)
	var src beep.Streamer = &queueStreamer{q: q}
	if rate := beep.SampleRate(sampleRate); rate != SpeakerRate {
		src = beep.Resample(resampleQuality, rate, SpeakerRate, src)
	}
	s.play(src)

	s.queue = q
	s.rate = sampleRate
	return nil
}

func (s *Speaker) Write(pcm []int16) error {
	if s.queue == nil {
		return fmt.Errorf("speaker: %w", audio.ErrNotConfigured)
	}

	if err := s.queue.push(slices.Clone(pcm), writeTimeout); err != nil {
		return fmt.Errorf("speaker: %w", err)
	}
	return nil
}

// Close lets queued audio play out, then suspends the speaker, releasing
// the sound card until the next Open.
func (s *Speaker) Close() error {
	if !s.open {
		return nil
	}

	if s.queue != nil {
		s.queue.drain(s.drainTimeout)
	}
	s.clear()
	s.queue = nil
	s.rate = 0
	s.open = false

	if err := s.suspend(); err != nil {
		return fmt.Errorf("speaker: %w", err)
	}
	return nil
}
