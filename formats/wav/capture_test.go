// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"
	"github.com/ik5/audseek/audio"
)

func decodeFile(t *testing.T, path string) (*wav.Decoder, []int) {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { f.Close() })

	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		t.Fatal("IsValidFile() = false, want true")
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		t.Fatalf("FullPCMBuffer() error = %v", err)
	}

	return d, buf.Data
}

func TestCapture_RecordsAcrossPause(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.wav")
	c := NewCapture(path)

	if err := c.Open(); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := c.Configure(22050); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	if err := c.Write([]int16{1, -1, 2, -2}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	// pause, then resume at the same rate
	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := c.Write([]int16{9, 9}); !errors.Is(err, ErrNotOpen) {
		t.Errorf("Write() while closed error = %v, want %v", err, ErrNotOpen)
	}
	if err := c.Open(); err != nil {
		t.Fatalf("Open() after Close error = %v", err)
	}
	if err := c.Configure(22050); err != nil {
		t.Fatalf("Configure() after resume error = %v", err)
	}
	if err := c.Write([]int16{32767, -32768}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if err := c.Finish(); err != nil {
		t.Fatalf("Finish() error = %v", err)
	}

	d, data := decodeFile(t, path)
	if d.SampleRate != 22050 {
		t.Errorf("SampleRate = %d, want 22050", d.SampleRate)
	}
	if d.NumChans != 2 {
		t.Errorf("NumChans = %d, want 2", d.NumChans)
	}

	want := []int{1, -1, 2, -2, 32767, -32768}
	if len(data) != len(want) {
		t.Fatalf("decoded %d samples, want %d", len(data), len(want))
	}
	for i := range want {
		if data[i] != want[i] {
			t.Errorf("sample[%d] = %d, want %d", i, data[i], want[i])
		}
	}
}

func TestCapture_RateChange(t *testing.T) {
	t.Parallel()

	c := NewCapture(filepath.Join(t.TempDir(), "out.wav"))
	t.Cleanup(func() { c.Finish() })

	if err := c.Open(); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := c.Configure(44100); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}

	if err := c.Configure(48000); !errors.Is(err, ErrRateChange) {
		t.Errorf("Configure(48000) error = %v, want %v", err, ErrRateChange)
	}
	if c.SampleRate() != 44100 {
		t.Errorf("SampleRate() = %d, want 44100", c.SampleRate())
	}
}

func TestCapture_Misuse(t *testing.T) {
	t.Parallel()

	c := NewCapture(filepath.Join(t.TempDir(), "out.wav"))
	t.Cleanup(func() { c.Finish() })

	if err := c.Configure(44100); !errors.Is(err, ErrNotOpen) {
		t.Errorf("Configure() before Open error = %v, want %v", err, ErrNotOpen)
	}

	if err := c.Open(); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := c.Write([]int16{1, 2}); !errors.Is(err, audio.ErrNotConfigured) {
		t.Errorf("Write() before Configure error = %v, want %v", err, audio.ErrNotConfigured)
	}
	if err := c.Configure(0); err == nil {
		t.Error("Configure(0) error = nil, want error")
	}
}

func TestCapture_OpenFailure(t *testing.T) {
	t.Parallel()

	c := NewCapture(filepath.Join(t.TempDir(), "missing", "out.wav"))

	if err := c.Open(); !errors.Is(err, audio.ErrDeviceUnavailable) {
		t.Errorf("Open() error = %v, want %v", err, audio.ErrDeviceUnavailable)
	}
}

func TestCapture_FinishTwice(t *testing.T) {
	t.Parallel()

	c := NewCapture(filepath.Join(t.TempDir(), "out.wav"))
	if err := c.Open(); err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if err := c.Finish(); err != nil {
		t.Fatalf("Finish() error = %v", err)
	}
	if err := c.Finish(); err != nil {
		t.Errorf("second Finish() error = %v, want nil", err)
	}
	if err := c.Open(); !errors.Is(err, audio.ErrDeviceUnavailable) {
		t.Errorf("Open() after Finish error = %v, want %v", err, audio.ErrDeviceUnavailable)
	}
}
