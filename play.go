// SPDX-License-Identifier: EPL-2.0

package audseek

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ik5/audseek/audio"
	"github.com/ik5/audseek/device"
	"github.com/ik5/audseek/formats/mp3"
	"github.com/ik5/audseek/formats/vorbis"
	"github.com/ik5/audseek/stream"
	"github.com/ik5/audseek/transport"
	"github.com/rs/zerolog"
)

// ErrInvalidInput is returned for files that cannot be played at all:
// missing, unreadable, directories or empty.
var ErrInvalidInput = errors.New("invalid input file")

// DefaultFormat is assumed for paths without an extension.
const DefaultFormat = "mp3"

// Options configures Play. Device is required.
type Options struct {
	Device audio.Device
	Logger *zerolog.Logger

	// Input delivers command keys. Nil plays the file through without
	// control.
	Input transport.Input
	// Status receives the status line, io.Discard when nil.
	Status io.Writer

	// BufferSize is the window capacity in bytes, see stream.NewWindow.
	BufferSize int

	// Registry picks the decoder by file extension. Nil uses
	// DefaultRegistry.
	Registry *audio.Registry
}

// DefaultRegistry knows MPEG audio and Ogg Vorbis.
func DefaultRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register("mp3", mp3.Decoder{})
	reg.Register("mpga", mp3.Decoder{})
	reg.Register("ogg", vorbis.Decoder{})
	reg.Register("oga", vorbis.Decoder{})

	return reg
}

// Play plays path on opts.Device until the stream ends, the user quits or
// ctx is cancelled. Errors are only returned for failures before playback
// starts; the device is closed and finished either way.
func Play(ctx context.Context, path string, opts Options) error {
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}

	if opts.Device == nil {
		return fmt.Errorf("%w: no output device", audio.ErrDeviceUnavailable)
	}

	f, size, err := openInput(path)
	if err != nil {
		return err
	}
	defer f.Close()

	reg := opts.Registry
	if reg == nil {
		reg = DefaultRegistry()
	}

	format := filepath.Ext(path)
	if format == "" {
		format = DefaultFormat
	}
	dec, ok := reg.Get(format)
	if !ok {
		return fmt.Errorf("%w: %q", audio.ErrUnsupportedFormat, format)
	}

	window := stream.NewWindow(f, opts.BufferSize)
	codec, err := dec.Decode(window)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if err := opts.Device.Open(); err != nil {
		if !errors.Is(err, audio.ErrDeviceUnavailable) {
			err = fmt.Errorf("%w: %w", audio.ErrDeviceUnavailable, err)
		}
		return err
	}
	defer func() {
		if err := opts.Device.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close device")
		}
		if err := device.Finish(opts.Device); err != nil {
			log.Warn().Err(err).Msg("failed to finish device")
		}
	}()

	player, err := transport.New(transport.Options{
		Logger:   &log,
		FileName: path,
		FileSize: size,
		Window:   window,
		Codec:    codec,
		Device:   opts.Device,
		Input:    opts.Input,
		Status:   opts.Status,
	})
	if err != nil {
		return fmt.Errorf("%w", err)
	}

	log.Debug().Str("file", path).Int64("size", size).Str("format", format).Msg("playing")

	err = player.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}

	return err
}

func openInput(path string) (*os.File, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	switch {
	case info.IsDir():
		f.Close()
		return nil, 0, fmt.Errorf("%w: %s is a directory", ErrInvalidInput, path)
	case info.Size() == 0:
		f.Close()
		return nil, 0, fmt.Errorf("%w: %s is empty", ErrInvalidInput, path)
	}

	return f, info.Size(), nil
}
