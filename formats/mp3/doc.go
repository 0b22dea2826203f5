// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG audio one frame at a time.
//
// Frame boundaries, durations and junk skipping come from
// github.com/tcolgate/mp3, which parses frame headers without decoding
// audio. Every frame it yields is fed to a github.com/hajimehoshi/go-mp3
// decoder that produces exactly that frame's PCM, so each audio.Frame
// carries both the compressed size needed for byte/time estimates and the
// samples a device plays.
//
// # Decoding
//
//	w := stream.NewWindow(file, stream.DefaultCapacity)
//	codec, _ := mp3.Decoder{}.Decode(w)
//	for {
//		frame, err := codec.Next()
//		if errors.Is(err, io.EOF) {
//			break
//		}
//		if audio.IsRecoverable(err) {
//			continue
//		}
//		if err != nil {
//			return err
//		}
//		dev.Write(frame.PCM)
//	}
//
// # Output Format
//
//   - Sample format: interleaved signed 16-bit
//   - Channels: 2 (mono streams are duplicated by go-mp3)
//   - Sample rate: taken from the stream
//
// # Errors
//
// A frame go-mp3 cannot decode is reported as audio.ErrRecoverable; the
// decoder is dropped and rebuilt from the next frame. A truncated last
// frame ends the stream with io.EOF. Any other error from the frame parser
// is fatal.
//
// After the underlying window is repositioned, Reset drops the parser and
// decoder state so decoding resynchronizes on the next frame header.
package mp3
