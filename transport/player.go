// SPDX-License-Identifier: EPL-2.0

package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ik5/audseek/audio"
	"github.com/ik5/audseek/metrics"
	"github.com/ik5/audseek/stream"
	"github.com/rs/zerolog"
)

// Options holds everything a Player drives. Window, Codec and Device are
// required.
type Options struct {
	// Logger defaults to a disabled logger.
	Logger *zerolog.Logger

	// FileName is shown on the status line.
	FileName string
	// FileSize bounds every seek.
	FileSize int64

	Window *stream.Window
	Codec  audio.Codec
	// Device must already be open.
	Device audio.Device

	// Input may be nil for a player that only plays.
	Input Input
	// Status receives the status line. Defaults to io.Discard.
	Status io.Writer
}

// Player owns the whole playback state of one file: position, marks, the
// pending count and the transport state. It is driven from a single
// goroutine.
type Player struct {
	log zerolog.Logger

	name string
	size int64

	window *stream.Window
	codec  audio.Codec
	dev    audio.Device
	input  Input
	status io.Writer

	metrics metrics.Estimator

	state State
	// pos is only authoritative while a seek is pending; otherwise the
	// window knows where decoding is.
	pos         int64
	seekPending bool

	marks [256]int64
	count int64
	// 'm' or '\'' while the next byte names a mark
	armed byte

	played      time.Duration
	autoPauseAt int64
	// sample rate the device is configured for, 0 after a pause
	rate int

	resumeFailed bool
	inputClosed  bool
}

// New creates a Player in the Playing state at the start of the file.
func New(opts Options) (*Player, error) {
	if opts.Window == nil || opts.Codec == nil || opts.Device == nil {
		return nil, ErrMissingPart
	}
	if opts.FileSize < 0 {
		return nil, fmt.Errorf("invalid file size %d", opts.FileSize)
	}

	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}

	status := opts.Status
	if status == nil {
		status = io.Discard
	}

	return &Player{
		log:         log,
		name:        displayName(opts.FileName),
		size:        opts.FileSize,
		window:      opts.Window,
		codec:       opts.Codec,
		dev:         opts.Device,
		input:       opts.Input,
		status:      status,
		state:       Playing,
		inputClosed: opts.Input == nil,
	}, nil
}

// Run loops until the player is Exiting or ctx is done. End of stream and
// fatal decode errors end the loop without an error.
func (p *Player) Run(ctx context.Context) error {
	if in, ok := p.input.(Interrupter); ok {
		stop := context.AfterFunc(ctx, in.Interrupt)
		defer stop()
	}

	for p.state != Exiting {
		if err := p.Step(ctx); err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("playback interrupted: %w", err)
			}
			p.log.Warn().Err(err).Msg("control input failed, ignoring it")
		}
	}

	return nil
}

// Step runs one loop iteration. Playing: decode one frame, write it and
// drain pending commands without blocking. Paused: wait for a command.
func (p *Player) Step(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		p.setState(Exiting)
		return err
	}

	switch p.state {
	case Playing:
		p.playFrame()
		if p.state != Playing {
			return nil
		}
		return p.Drain(false)
	case Paused:
		return p.Drain(true)
	default:
		return nil
	}
}

func (p *Player) playFrame() {
	if p.seekPending {
		// never decode a byte that was resident before the seek
		p.window.Reset(p.pos)
		p.codec.Reset()
		p.seekPending = false
	}

	frame, err := p.codec.Next()
	switch {
	case err == nil:
	case audio.IsRecoverable(err):
		p.log.Debug().Err(err).Int("size", frame.Size).Msg("skipping frame")
		return
	case errors.Is(err, io.EOF):
		p.log.Info().Int64("played_ms", p.Played()).Msg("end of stream")
		p.setState(Exiting)
		return
	default:
		p.log.Error().Err(err).Int64("position", p.window.Position()).Msg("decoding failed")
		p.setState(Exiting)
		return
	}

	if frame.SampleRate != p.rate {
		if err := p.dev.Configure(frame.SampleRate); err != nil {
			p.log.Error().Err(err).Int("rate", frame.SampleRate).Msg("failed to configure device")
			p.setState(Exiting)
			return
		}
		p.log.Debug().Int("from", p.rate).Int("to", frame.SampleRate).Msg("sample rate changed")
		p.rate = frame.SampleRate
	}

	if err := p.dev.Write(frame.PCM); err != nil {
		p.log.Warn().Err(err).Msg("device write failed")
	}

	p.metrics.Observe(frame.Size, frame.Duration)
	p.played += frame.Duration
}

// Drain handles pending control input. A scheduled auto-pause that is due
// takes the place of input for this pass. Otherwise bytes are consumed until
// one completes a command that ends the pass (a seek, a jump, a successful
// pause toggle or quit) or no more input is ready. With block set, Drain
// waits for the first byte; a blocking poll that wakes without input ends
// the pass too.
//
// Commands that leave the pass open (i, m<key>, P, ESC) are followed by
// further reads.
func (p *Player) Drain(block bool) error {
	if p.autoPauseAt > 0 && p.autoPauseAt <= p.Played() {
		p.autoPauseAt = 0
		p.log.Debug().Int64("played_ms", p.Played()).Msg("auto-pause reached")
		_ = p.setPaused(true)
		return nil
	}

	if p.inputClosed {
		if p.state == Paused {
			// nothing could ever resume playback
			p.setState(Exiting)
		}
		return nil
	}

	for {
		ready, err := p.input.Poll(block)
		if err != nil {
			return p.closeInput(err)
		}
		if !ready {
			return nil
		}
		block = false

		c, err := p.input.ReadByte()
		if err != nil {
			return p.closeInput(err)
		}

		done, err := p.HandleKey(c)
		if err != nil {
			p.log.Debug().Err(err).Str("key", string(rune(c))).Msg("command failed")
		}
		if done {
			return nil
		}
	}
}

func (p *Player) closeInput(err error) error {
	p.inputClosed = true
	if p.state == Paused {
		p.setState(Exiting)
	}

	if errors.Is(err, io.EOF) {
		p.log.Debug().Msg("control input closed")
		return nil
	}

	return fmt.Errorf("control input: %w", err)
}

// setPaused closes the device on pause so other programs can use it, and
// reopens it on resume. A failed reopen leaves the player Paused.
func (p *Player) setPaused(pause bool) error {
	switch {
	case pause && p.state == Playing:
		if err := p.dev.Close(); err != nil {
			p.log.Warn().Err(err).Msg("failed to close device")
		}
		// reconfigure on the next frame
		p.rate = 0
		p.setState(Paused)
	case !pause && p.state == Paused:
		if err := p.dev.Open(); err != nil {
			p.resumeFailed = true
			return fmt.Errorf("%w: %w", ErrResumeFailed, err)
		}
		p.resumeFailed = false
		p.setState(Playing)
	}

	return nil
}

func (p *Player) setState(s State) {
	if s == p.state {
		return
	}
	p.log.Debug().Stringer("from", p.state).Stringer("to", s).Msg("state changed")
	p.state = s
}

func (p *Player) State() State { return p.state }

// Position returns the stream offset playback continues from.
func (p *Player) Position() int64 {
	if p.seekPending {
		return p.pos
	}
	return p.window.Position()
}

// Played returns the milliseconds of audio handed to the device.
func (p *Player) Played() int64 { return p.played.Milliseconds() }

// Count returns the pending count, 0 when none was typed.
func (p *Player) Count() int64 { return p.count }

// Mark returns the offset stored under key, 0 when unset.
func (p *Player) Mark(key byte) int64 { return p.marks[key] }

// AutoPauseAt returns the played time in milliseconds at which playback
// pauses by itself, 0 when none is scheduled.
func (p *Player) AutoPauseAt() int64 { return p.autoPauseAt }

func (p *Player) Metrics() *metrics.Estimator { return &p.metrics }

func (p *Player) FileSize() int64 { return p.size }
