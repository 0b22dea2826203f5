// SPDX-License-Identifier: EPL-2.0

// Command audseek plays an MPEG audio or Ogg Vorbis file and seeks through
// it with single keys.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/ik5/audseek"
	"github.com/ik5/audseek/config"
	"github.com/ik5/audseek/device"
	"github.com/ik5/audseek/internal/tty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const keyHelp = `Play an audio file with keyboard seeking.

Keys, optionally prefixed by a count N:
  l / h      forward / back N*10 seconds
  j / k      forward / back N minutes
  J / K      forward / back N*10 minutes
  N%         go to N percent of the file
  NG         go to minute N
  mX / 'X    set mark X / jump to mark X ('' jumps back)
  p, space   pause and release the device / resume
  NP         pause after N more minutes of playback, P cancels
  i          show position
  q          quit`

type Params struct {
	File    string `pos:"true" required:"true" help:"Audio file to play."`
	Device  string `short:"d" optional:"true" help:"Output: portaudio, pulse, speaker, wav:<path> or aiff:<path>. Defaults to AUDSEEK_DEVICE."`
	Buffer  int    `optional:"true" help:"Window of compressed bytes kept in memory." default:"0"`
	Frames  int    `optional:"true" help:"Device buffer size in sample frames." default:"0"`
	Log     string `optional:"true" help:"Write debug logs to this file."`
	Verbose bool   `short:"v" optional:"true" help:"Log debug messages to stderr."`
}

func main() {
	boa.CmdT[Params]{
		Use:   "audseek <file>",
		Short: "Play an audio file with keyboard seeking",
		Long:  keyHelp,
		ParamEnrich: boa.ParamEnricherCombine(
			boa.ParamEnricherBool,
			boa.ParamEnricherName,
			boa.ParamEnricherShort,
		),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			os.Exit(run(params, os.Stdin, os.Stderr))
		},
	}.Run()
}

// settings merges the flags over the configuration.
func settings(params *Params, cfg *config.Config) config.Config {
	merged := *cfg
	if params.Device != "" {
		merged.Device = params.Device
	}
	if params.Buffer > 0 {
		merged.Buffer = params.Buffer
	}
	if params.Frames > 0 {
		merged.Frames = params.Frames
	}
	if params.Log != "" {
		merged.LogFile = params.Log
	}
	return merged
}

// newLogger logs warnings to stderr, or everything to a log file so the
// status line stays readable.
func newLogger(path string, verbose bool, stderr io.Writer) (zerolog.Logger, io.Closer, error) {
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("log file: %w", err)
		}
		return zerolog.New(f).Level(zerolog.DebugLevel).With().Timestamp().Logger(), f, nil
	}

	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{Out: stderr, NoColor: true}
	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil, nil
}

func run(params *Params, stdin *os.File, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "audseek: %v\n", err)
		return 1
	}
	conf := settings(params, cfg)

	log, closer, err := newLogger(conf.LogFile, params.Verbose, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "audseek: %v\n", err)
		return 1
	}
	if closer != nil {
		defer closer.Close()
	}

	dev, err := device.New(conf.Device, device.Options{FramesPerBuffer: conf.Frames})
	if err != nil {
		fmt.Fprintf(stderr, "audseek: %v\n", err)
		return 1
	}

	keys, err := tty.Open(stdin)
	if err != nil {
		fmt.Fprintf(stderr, "audseek: %v\n", err)
		return 1
	}
	defer keys.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := audseek.Options{
		Device:     dev,
		Logger:     &log,
		Input:      keys,
		Status:     stderr,
		BufferSize: conf.Buffer,
	}
	if !keys.IsTerminal() {
		log.Debug().Msg("stdin is not a terminal, commands are read as they arrive")
	}

	err = audseek.Play(ctx, params.File, opts)
	fmt.Fprint(stderr, "\r\n")
	if err != nil {
		fmt.Fprintf(stderr, "audseek: %v\n", err)
		return 1
	}

	return 0
}
