// SPDX-License-Identifier: EPL-2.0

package device

import (
	"errors"
	"fmt"

	"github.com/gordonklaus/portaudio"
	"github.com/ik5/audseek/audio"
)

// DefaultFramesPerBuffer is the PortAudio buffer size in sample frames.
const DefaultFramesPerBuffer = 1024

// paStream is the part of *portaudio.Stream the device uses.
type paStream interface {
	Start() error
	Write() error
	Stop() error
	Close() error
}

// PortAudio plays through the default PortAudio output with blocking writes.
// PCM is collected into a fixed interleaved buffer and written one full
// buffer at a time.
type PortAudio struct {
	framesPerBuffer int

	initialize func() error
	terminate  func() error
	openStream func(sampleRate, framesPerBuffer int, buf []int16) (paStream, error)

	opened bool
	stream paStream
	rate   int

	buf  []int16
	fill int
}

var _ audio.Device = (*PortAudio)(nil)

// NewPortAudio returns a closed device. framesPerBuffer <= 0 selects
// DefaultFramesPerBuffer.
func NewPortAudio(framesPerBuffer int) *PortAudio {
	if framesPerBuffer <= 0 {
		framesPerBuffer = DefaultFramesPerBuffer
	}

	return &PortAudio{
		framesPerBuffer: framesPerBuffer,
		initialize:      portaudio.Initialize,
		terminate:       portaudio.Terminate,
		openStream:      openDefaultStream,
		buf:             make([]int16, framesPerBuffer*2),
	}
}

func openDefaultStream(sampleRate, framesPerBuffer int, buf []int16) (paStream, error) {
	s, err := portaudio.OpenDefaultStream(0, 2, float64(sampleRate), framesPerBuffer, buf)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	return s, nil
}

func (p *PortAudio) Open() error {
	if p.opened {
		return nil
	}

	if err := p.initialize(); err != nil {
		return fmt.Errorf("%w: portaudio: %w", audio.ErrDeviceUnavailable, err)
	}
	p.opened = true

	return nil
}

// Configure opens a stereo output stream at sampleRate, replacing the
// current stream when the rate differs.
func (p *PortAudio) Configure(sampleRate int) error {
	if !p.opened {
		return fmt.Errorf("portaudio: %w", audio.ErrNotConfigured)
	}
	if p.stream != nil && p.rate == sampleRate {
		return nil
	}

	if err := p.closeStream(); err != nil {
		return err
	}

	s, err := p.openStream(sampleRate, p.framesPerBuffer, p.buf)
	if err != nil {
		return fmt.Errorf("%w: portaudio: %w", audio.ErrDeviceUnavailable, err)
	}
	if err := s.Start(); err != nil {
		_ = s.Close()
		return fmt.Errorf("portaudio: %w", err)
	}

	p.stream = s
	p.rate = sampleRate
	return nil
}

func (p *PortAudio) Write(pcm []int16) error {
	if p.stream == nil {
		return fmt.Errorf("portaudio: %w", audio.ErrNotConfigured)
	}

	for len(pcm) > 0 {
		n := copy(p.buf[p.fill:], pcm)
		p.fill += n
		pcm = pcm[n:]

		if p.fill == len(p.buf) {
			if err := p.writeBuffer(); err != nil {
				return err
			}
		}
	}

	return nil
}

func (p *PortAudio) writeBuffer() error {
	p.fill = 0

	err := p.stream.Write()
	if err != nil && !errors.Is(err, portaudio.OutputUnderflowed) {
		return fmt.Errorf("portaudio: %w", err)
	}

	return nil
}

// Close plays what is left in the buffer, padded with silence, and releases
// PortAudio.
func (p *PortAudio) Close() error {
	if !p.opened {
		return nil
	}

	streamErr := p.closeStream()

	p.opened = false
	if err := p.terminate(); err != nil {
		return fmt.Errorf("portaudio: %w", err)
	}

	return streamErr
}

func (p *PortAudio) closeStream() error {
	if p.stream == nil {
		return nil
	}

	var errs []error
	if p.fill > 0 {
		clear(p.buf[p.fill:])
		errs = append(errs, p.writeBuffer())
	}
	errs = append(errs, p.stream.Stop(), p.stream.Close())

	p.stream = nil
	p.rate = 0

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("portaudio: %w", err)
	}
	return nil
}
