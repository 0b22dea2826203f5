// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/ik5/audseek/audio"
)

// page builds an Ogg page with the given lacing values and a zero body of
// matching length. CRC and granule fields are left empty.
func page(lacing ...byte) []byte {
	hdr := make([]byte, pageHeaderLen)
	copy(hdr, capturePattern)
	hdr[26] = byte(len(lacing))

	body := 0
	for _, l := range lacing {
		body += int(l)
	}

	out := append(hdr, lacing...)
	return append(out, make([]byte, body)...)
}

func headerPages() []byte {
	var b []byte
	b = append(b, page(30)...)
	// comment packet spans two pages
	b = append(b, page(255, 255)...)
	b = append(b, page(10, 40)...)
	return b
}

// mockOggVorbisReader simulates the oggvorbis.Reader for testing. It checks
// that the header pages come first, then pulls chunk bytes per Read.
type mockOggVorbisReader struct {
	src        io.Reader
	sampleRate int
	channels   int
	values     []float32
	chunk      int
	readErr    error

	first []byte
}

func (m *mockOggVorbisReader) SampleRate() int { return m.sampleRate }
func (m *mockOggVorbisReader) Channels() int   { return m.channels }

func (m *mockOggVorbisReader) Read(p []float32) (int, error) {
	if m.readErr != nil {
		return 0, m.readErr
	}

	buf := make([]byte, m.chunk)
	n, _ := io.ReadFull(m.src, buf)
	if n == 0 {
		return 0, io.EOF
	}
	if m.first == nil {
		m.first = buf[:n]
	}

	return copy(p, m.values), nil
}

type harness struct {
	headers  []byte
	channels int
	values   []float32
	chunk    int
	readErr  error

	opened []*mockOggVorbisReader
}

func (h *harness) newReader(r io.Reader) (oggReader, error) {
	got := make([]byte, len(h.headers))
	if _, err := io.ReadFull(r, got); err != nil || !bytes.Equal(got, h.headers) {
		return nil, errors.New("header pages not replayed")
	}

	m := &mockOggVorbisReader{
		src:        r,
		sampleRate: 8000,
		channels:   h.channels,
		values:     h.values,
		chunk:      h.chunk,
		readErr:    h.readErr,
	}
	h.opened = append(h.opened, m)
	return m, nil
}

func TestReadHeaderPages(t *testing.T) {
	t.Parallel()

	headers := headerPages()
	audioPage := page(100)
	r := bytes.NewReader(append(append([]byte{}, headers...), audioPage...))

	got, err := readHeaderPages(r)
	if err != nil {
		t.Fatalf("readHeaderPages() error = %v", err)
	}
	if !bytes.Equal(got, headers) {
		t.Errorf("readHeaderPages() captured %d bytes, want %d", len(got), len(headers))
	}
	if r.Len() != len(audioPage) {
		t.Errorf("reader left %d bytes, want first audio page (%d)", r.Len(), len(audioPage))
	}
}

func TestReadHeaderPages_NotOgg(t *testing.T) {
	t.Parallel()

	_, err := readHeaderPages(bytes.NewReader([]byte("This is not Ogg Vorbis data")))
	if !errors.Is(err, audio.ErrUnsupportedFormat) {
		t.Errorf("readHeaderPages() error = %v, want %v", err, audio.ErrUnsupportedFormat)
	}
}

func TestReadHeaderPages_Truncated(t *testing.T) {
	t.Parallel()

	data := headerPages()
	if _, err := readHeaderPages(bytes.NewReader(data[:len(data)-5])); err == nil {
		t.Error("readHeaderPages() error = nil, want error for truncated headers")
	}
}

func TestSyncPage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		skipped int
		rest    string
		wantErr bool
	}{
		{name: "aligned", data: "OggSxyz", skipped: 0, rest: "xyz"},
		{name: "junk first", data: "abcdOgOggSxyz", skipped: 6, rest: "xyz"},
		{name: "no page", data: "abcdefgh", skipped: 4, wantErr: true},
		{name: "empty", data: "", skipped: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := bytes.NewReader([]byte(tt.data))
			skipped, err := syncPage(r)

			if (err != nil) != tt.wantErr {
				t.Fatalf("syncPage() error = %v, wantErr %v", err, tt.wantErr)
			}
			if skipped != tt.skipped {
				t.Errorf("syncPage() skipped = %d, want %d", skipped, tt.skipped)
			}
			if !tt.wantErr {
				rest, _ := io.ReadAll(r)
				if string(rest) != tt.rest {
					t.Errorf("left %q, want %q", rest, tt.rest)
				}
			}
		})
	}
}

func TestCodec_Next(t *testing.T) {
	t.Parallel()

	h := &harness{
		headers:  headerPages(),
		channels: 1,
		values:   []float32{0.5, -0.5, 1, -1},
		chunk:    50,
	}
	data := append(append([]byte{}, h.headers...), make([]byte, 120)...)

	c, err := newCodec(bytes.NewReader(data), h.newReader)
	if err != nil {
		t.Fatalf("newCodec() error = %v", err)
	}

	frame, err := c.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if frame.Size != 50 {
		t.Errorf("Size = %d, want 50", frame.Size)
	}
	if frame.Channels != 2 || frame.SampleRate != 8000 {
		t.Errorf("Channels, SampleRate = %d, %d, want 2, 8000", frame.Channels, frame.SampleRate)
	}
	if frame.Duration != 500*time.Microsecond {
		t.Errorf("Duration = %v, want 500µs (4 frames at 8kHz)", frame.Duration)
	}

	want := []int16{16383, 16383, -16383, -16383, 32767, 32767, -32767, -32767}
	if len(frame.PCM) != len(want) {
		t.Fatalf("PCM = %v, want %v", frame.PCM, want)
	}
	for i := range want {
		if frame.PCM[i] != want[i] {
			t.Errorf("PCM[%d] = %d, want %d", i, frame.PCM[i], want[i])
		}
	}

	for range 2 {
		if _, err := c.Next(); err != nil {
			t.Fatalf("Next() error = %v", err)
		}
	}
	if _, err := c.Next(); err != io.EOF {
		t.Errorf("Next() at end error = %v, want io.EOF", err)
	}
}

func TestCodec_ResetReplaysHeaders(t *testing.T) {
	t.Parallel()

	h := &harness{
		headers:  headerPages(),
		channels: 2,
		values:   []float32{0.1, 0.1},
		chunk:    20,
	}

	var data []byte
	data = append(data, h.headers...)
	data = append(data, make([]byte, 20)...)
	data = append(data, "xyzOggS"...)
	data = append(data, make([]byte, 40)...)

	c, err := newCodec(bytes.NewReader(data), h.newReader)
	if err != nil {
		t.Fatalf("newCodec() error = %v", err)
	}
	if _, err := c.Next(); err != nil {
		t.Fatalf("Next() error = %v", err)
	}

	c.Reset()

	frame, err := c.Next()
	if err != nil {
		t.Fatalf("Next() after Reset error = %v", err)
	}
	if len(h.opened) != 2 {
		t.Fatalf("decoders opened = %d, want 2", len(h.opened))
	}
	if got := string(h.opened[1].first[:4]); got != capturePattern {
		t.Errorf("resynced decoder starts with %q, want %q", got, capturePattern)
	}
	if frame.Skipped != 3 {
		t.Errorf("Skipped = %d, want 3", frame.Skipped)
	}
	// 4 capture bytes during sync + 16 pulled by the decoder
	if frame.Size != 20 {
		t.Errorf("Size = %d, want 20", frame.Size)
	}
}

func TestCodec_BrokenPageIsRecoverable(t *testing.T) {
	t.Parallel()

	h := &harness{
		headers:  headerPages(),
		channels: 2,
		values:   []float32{0, 0},
		chunk:    10,
		readErr:  errors.New("invalid packet"),
	}
	data := append(append([]byte{}, h.headers...), []byte("OggS0123456789")...)

	c, err := newCodec(bytes.NewReader(data), h.newReader)
	if err != nil {
		t.Fatalf("newCodec() error = %v", err)
	}

	if _, err := c.Next(); !audio.IsRecoverable(err) {
		t.Fatalf("Next() error = %v, want recoverable", err)
	}

	h.readErr = nil
	if _, err := c.Next(); err != nil {
		t.Fatalf("Next() after broken page error = %v", err)
	}
	if len(h.opened) != 2 {
		t.Errorf("decoders opened = %d, want 2", len(h.opened))
	}
}

func TestCodec_NoChannels(t *testing.T) {
	t.Parallel()

	h := &harness{headers: headerPages(), channels: 0, chunk: 1}

	_, err := newCodec(bytes.NewReader(h.headers), h.newReader)
	if !errors.Is(err, audio.ErrUnsupportedFormat) {
		t.Errorf("newCodec() error = %v, want %v", err, audio.ErrUnsupportedFormat)
	}
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	_, err := Decoder{}.Decode(bytes.NewReader([]byte("This is not Ogg Vorbis data")))
	if err == nil {
		t.Error("Decode() error = nil, want error for invalid data")
	}
}

func TestDecoder_EmptyInput(t *testing.T) {
	t.Parallel()

	_, err := Decoder{}.Decode(bytes.NewReader([]byte{}))
	if err == nil {
		t.Error("Decode() error = nil, want error for empty input")
	}
}
