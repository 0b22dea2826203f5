// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ik5/audseek/audio"
)

const (
	capturePattern = "OggS"
	pageHeaderLen  = 27
	// a Vorbis stream opens with identification, comment and setup packets
	headerPackets = 3
)

// readHeaderPages copies the Ogg pages that carry the three Vorbis header
// packets. The first audio packet always starts a fresh page, so r is left
// at the first audio page.
func readHeaderPages(r io.Reader) ([]byte, error) {
	var (
		buf     bytes.Buffer
		hdr     [pageHeaderLen]byte
		packets int
	)

	for packets < headerPackets {
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			return nil, fmt.Errorf("reading page header: %w", err)
		}
		if string(hdr[:4]) != capturePattern {
			return nil, fmt.Errorf("%w: missing Ogg capture pattern", audio.ErrUnsupportedFormat)
		}

		lacing := make([]byte, hdr[26])
		if _, err := io.ReadFull(r, lacing); err != nil {
			return nil, fmt.Errorf("reading segment table: %w", err)
		}

		body := 0
		for _, l := range lacing {
			body += int(l)
			// a lacing value below 255 closes a packet
			if l < 255 {
				packets++
			}
		}

		buf.Write(hdr[:])
		buf.Write(lacing)
		if _, err := io.CopyN(&buf, r, int64(body)); err != nil {
			return nil, fmt.Errorf("reading page body: %w", err)
		}
	}

	return buf.Bytes(), nil
}

// syncPage consumes r up to and including the next capture pattern and
// returns the number of bytes skipped before it.
func syncPage(r io.ByteReader) (int, error) {
	var last [4]byte
	seen := 0

	for {
		b, err := r.ReadByte()
		if err != nil {
			return max(seen-len(last), 0), err
		}

		copy(last[:], last[1:])
		last[3] = b
		seen++

		if seen >= len(last) && string(last[:]) == capturePattern {
			return seen - len(last), nil
		}
	}
}

// countingReader counts the bytes the decoder pulls from the window.
type countingReader struct {
	r   io.Reader
	n   int64
	one [1]byte
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

func (c *countingReader) ReadByte() (byte, error) {
	if br, ok := c.r.(io.ByteReader); ok {
		b, err := br.ReadByte()
		if err == nil {
			c.n++
		}
		return b, err
	}

	if _, err := io.ReadFull(c, c.one[:]); err != nil {
		return 0, err
	}
	return c.one[0], nil
}
