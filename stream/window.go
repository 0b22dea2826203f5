// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"io"
)

// DefaultCapacity is the number of compressed bytes kept resident.
const DefaultCapacity = 1 << 16

// Window is a fixed-capacity byte window over a seekable source.
//
// The window holds buf[:n], read from the source starting at offset start;
// off is the decode cursor inside it, so start+off is the stream position of
// the next byte handed to a codec. off <= n <= len(buf) at all times.
type Window struct {
	src io.ReadSeeker
	buf []byte

	start int64
	n     int
	off   int

	// the source could not be repositioned; reads report end of stream
	broken bool
}

// NewWindow creates a window over src. A capacity <= 0 selects
// DefaultCapacity.
func NewWindow(src io.ReadSeeker, capacity int) *Window {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	return &Window{
		src: src,
		buf: make([]byte, capacity),
	}
}

// Fill slides the unconsumed tail to the front of the buffer, advancing the
// logical start by the bytes consumed since the previous fill, and appends
// fresh bytes from the source until at least want bytes are buffered or the
// buffer is full. It returns the number of bytes available to decode, or 0
// when the source yielded nothing: read errors count as end of stream.
func (w *Window) Fill(want int) int {
	if w.broken {
		return 0
	}

	if w.off > 0 {
		copy(w.buf, w.buf[w.off:w.n])
		w.start += int64(w.off)
		w.n -= w.off
		w.off = 0
	}

	want = min(max(want, 1), len(w.buf))
	if w.n >= want {
		return w.n
	}

	read := 0
	for w.n < want {
		nr, err := w.src.Read(w.buf[w.n:])
		w.n += nr
		read += nr
		if err != nil || nr == 0 {
			break
		}
	}

	if read == 0 {
		return 0
	}

	return w.n
}

// Read hands buffered bytes to a codec, refilling the window when it runs dry.
func (w *Window) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	if w.off == w.n {
		if w.Fill(len(p)) == 0 {
			return 0, io.EOF
		}
	}

	n := copy(p, w.buf[w.off:w.n])
	w.off += n
	return n, nil
}

// ReadByte implements io.ByteReader on top of Read.
func (w *Window) ReadByte() (byte, error) {
	if w.off == w.n {
		if w.Fill(1) == 0 {
			return 0, io.EOF
		}
	}

	b := w.buf[w.off]
	w.off++
	return b, nil
}

// Reset discards every resident byte and moves the source to pos. This is a
// full invalidation, not a shift: nothing read before the call is ever
// returned after it.
func (w *Window) Reset(pos int64) {
	w.start = pos
	w.n = 0
	w.off = 0

	_, err := w.src.Seek(pos, io.SeekStart)
	w.broken = err != nil
}

// Position returns the stream offset of the next byte to decode.
func (w *Window) Position() int64 {
	return w.start + int64(w.off)
}

// Buffered returns the number of bytes resident but not yet decoded.
func (w *Window) Buffered() int {
	return w.n - w.off
}

// Cap returns the window capacity.
func (w *Window) Cap() int {
	return len(w.buf)
}
