// SPDX-License-Identifier: EPL-2.0

// Package stream provides the bounded in-memory window over a compressed
// input file that codecs decode from.
//
// The window never holds more than its capacity. Consumed bytes are dropped
// on the next fill by sliding the unconsumed tail to the front, so a codec
// that stops in the middle of a frame finds the rest of it in front of the
// newly read data:
//
//	w := stream.NewWindow(file, stream.DefaultCapacity)
//	codec, _ := mp3.Decoder{}.Decode(w)
//
// Seeking is a full invalidation. After Reset the window is empty and the
// codec must be reset too, otherwise it would continue from decoder state
// that belongs to the old position:
//
//	w.Reset(target)
//	codec.Reset()
//
// End of file and read failures are both reported as io.EOF.
package stream
