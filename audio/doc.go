// SPDX-License-Identifier: EPL-2.0

// Package audio defines the contracts shared by codecs, output devices and
// the transport.
//
// # Codecs
//
// A Codec turns compressed bytes into a lazy sequence of frames:
//
//	for {
//	    frame, err := codec.Next()
//	    if errors.Is(err, io.EOF) {
//	        break // end of stream
//	    }
//	    if audio.IsRecoverable(err) {
//	        continue // frame skipped, stream still usable
//	    }
//	    if err != nil {
//	        return err // stream cannot be decoded any further
//	    }
//	    // frame.PCM is interleaved stereo int16 at frame.SampleRate
//	}
//
// After the reader feeding a codec is repositioned, Reset must be called so
// the next frame is found from scratch instead of continuing stale state.
//
// # Devices
//
// A Device receives the PCM. Configure is called whenever the sample rate of
// the stream changes, Close gives the device back to the system (e.g., while
// paused) and Open acquires it again.
//
// # Format Registry
//
// The registry maps file extensions to decoders:
//
//	registry := audio.NewRegistry()
//	registry.Register("mp3", mp3.Decoder{})
//	decoder, ok := registry.Get(filepath.Ext(path))
package audio
