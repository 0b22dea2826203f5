// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis streams in blocks that can be
// repositioned at arbitrary byte offsets.
//
// This package uses github.com/jfreymuth/oggvorbis for the actual decoding.
// That decoder only starts from the beginning of a stream, so the header
// pages are copied when the codec is created. After Reset the codec skips to
// the next Ogg capture pattern in its input and starts a fresh decoder that
// reads the stored headers followed by that page.
//
// # Frames
//
// Each audio.Frame holds at most 1024 sample frames. Its Size is the number
// of compressed bytes the decoder pulled from the input to produce it. Ogg
// pages carry many packets, so sizes are lumpy; the average is what matters
// to byte/time estimates.
//
// # Output Format
//
//   - Sample format: interleaved signed 16-bit, clipped
//   - Channels: 2 (mono is duplicated, extra channels are dropped)
//   - Sample rate: taken from the identification header
//
// A page the decoder rejects is reported as audio.ErrRecoverable and the
// next frame resynchronizes on the following page.
package vorbis
