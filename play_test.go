// SPDX-License-Identifier: EPL-2.0

package audseek_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	gowav "github.com/go-audio/wav"
	"github.com/ik5/audseek"
	"github.com/ik5/audseek/audio"
	"github.com/ik5/audseek/formats/wav"
	"github.com/ik5/audseek/internal/audiotest"
)

func writeInput(t *testing.T, name string, size int) string {
	t.Helper()

	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i)
	}

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func rawRegistry(formats ...string) *audio.Registry {
	reg := audio.NewRegistry()
	for _, f := range formats {
		reg.Register(f, byteDecoder{})
	}
	return reg
}

func TestPlay_InvalidInput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.raw")
	if err := os.WriteFile(empty, nil, 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	tests := []struct {
		name string
		path string
	}{
		{"missing", filepath.Join(dir, "missing.raw")},
		{"empty", empty},
		{"directory", dir},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dev := &audiotest.RecordingDevice{}
			err := audseek.Play(t.Context(), tt.path, audseek.Options{Device: dev, Registry: rawRegistry("raw")})
			if !errors.Is(err, audseek.ErrInvalidInput) {
				t.Errorf("Play() error = %v, want %v", err, audseek.ErrInvalidInput)
			}
			if dev.Opens != 0 {
				t.Errorf("device opened %d times, want 0", dev.Opens)
			}
		})
	}
}

func TestPlay_UnsupportedFormat(t *testing.T) {
	t.Parallel()

	path := writeInput(t, "song.flac", 16)
	dev := &audiotest.RecordingDevice{}

	err := audseek.Play(t.Context(), path, audseek.Options{Device: dev})
	if !errors.Is(err, audio.ErrUnsupportedFormat) {
		t.Errorf("Play() error = %v, want %v", err, audio.ErrUnsupportedFormat)
	}
	if dev.Opens != 0 {
		t.Errorf("device opened %d times, want 0", dev.Opens)
	}
}

func TestPlay_NoExtensionIsMP3(t *testing.T) {
	t.Parallel()

	path := writeInput(t, "podcast", 32)
	dev := &audiotest.RecordingDevice{}

	err := audseek.Play(t.Context(), path, audseek.Options{Device: dev, Registry: rawRegistry(audseek.DefaultFormat)})
	if err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	if len(dev.PCM) != 32 {
		t.Errorf("played %d samples, want 32", len(dev.PCM))
	}
}

func TestPlay_DeviceErrors(t *testing.T) {
	t.Parallel()

	path := writeInput(t, "song.raw", 16)

	err := audseek.Play(t.Context(), path, audseek.Options{Registry: rawRegistry("raw")})
	if !errors.Is(err, audio.ErrDeviceUnavailable) {
		t.Errorf("Play() without device error = %v, want %v", err, audio.ErrDeviceUnavailable)
	}

	dev := &audiotest.RecordingDevice{OpenErr: errors.New("device busy")}
	err = audseek.Play(t.Context(), path, audseek.Options{Device: dev, Registry: rawRegistry("raw")})
	if !errors.Is(err, audio.ErrDeviceUnavailable) {
		t.Errorf("Play() on busy device error = %v, want %v", err, audio.ErrDeviceUnavailable)
	}
}

func TestPlay_QuitAndStatus(t *testing.T) {
	t.Parallel()

	path := writeInput(t, "beep.raw", 64)
	dev := &audiotest.RecordingDevice{}
	in := audiotest.NewScriptedInput("iq")
	status := &bytes.Buffer{}

	err := audseek.Play(t.Context(), path, audseek.Options{
		Device:   dev,
		Input:    in,
		Status:   status,
		Registry: rawRegistry("raw"),
	})
	if err != nil {
		t.Fatalf("Play() error = %v", err)
	}

	if len(dev.PCM) != 4 {
		t.Errorf("played %d samples, want one frame of 4", len(dev.PCM))
	}
	if dev.IsOpen || dev.Closes != 1 {
		t.Errorf("device open = %v after %d closes, want closed once", dev.IsOpen, dev.Closes)
	}

	line := status.String()
	for _, want := range []string{"> 06.2%", "[beep.raw]\r"} {
		if !strings.Contains(line, want) {
			t.Errorf("status = %q, want it to contain %q", line, want)
		}
	}
}

func TestPlay_CancelledContext(t *testing.T) {
	t.Parallel()

	path := writeInput(t, "song.raw", 64)
	dev := &audiotest.RecordingDevice{}

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	err := audseek.Play(ctx, path, audseek.Options{Device: dev, Registry: rawRegistry("raw")})
	if err != nil {
		t.Errorf("Play() error = %v, want nil", err)
	}
	if len(dev.PCM) != 0 {
		t.Errorf("played %d samples after cancel, want 0", len(dev.PCM))
	}
	if dev.IsOpen {
		t.Error("device left open")
	}
}

func TestPlay_CaptureToWAV(t *testing.T) {
	t.Parallel()

	path := writeInput(t, "song.raw", 40)
	out := filepath.Join(t.TempDir(), "out.wav")

	err := audseek.Play(t.Context(), path, audseek.Options{
		Device:   wav.NewCapture(out),
		Registry: rawRegistry("raw"),
	})
	if err != nil {
		t.Fatalf("Play() error = %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer f.Close()

	d := gowav.NewDecoder(f)
	if !d.IsValidFile() {
		t.Fatal("capture is not a valid WAV file")
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		t.Fatalf("FullPCMBuffer() error = %v", err)
	}

	if d.SampleRate != 8000 || d.NumChans != 2 {
		t.Errorf("format = %d Hz, %d channels, want 8000 Hz, 2 channels", d.SampleRate, d.NumChans)
	}
	if len(buf.Data) != 40 {
		t.Fatalf("captured %d samples, want 40", len(buf.Data))
	}
	for i, s := range buf.Data {
		if s != i {
			t.Fatalf("sample %d = %d, want %d", i, s, i)
		}
	}
}
