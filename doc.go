// SPDX-License-Identifier: EPL-2.0

// Package audseek plays compressed audio files while taking single-key
// transport commands: relative seeks by time, absolute seeks by percent or
// minute, named marks, pause with device release, and a timed auto-pause.
//
// # Quick Start
//
// Play wires everything together. It opens the file, picks a codec by
// extension, opens the device and runs the player until the file ends or the
// user quits:
//
//	dev, _ := device.New("pulse", device.Options{})
//	keys, _ := tty.Open(os.Stdin)
//	defer keys.Close()
//
//	err := audseek.Play(ctx, "talk.mp3", audseek.Options{
//		Device: dev,
//		Input:  keys,
//		Status: os.Stderr,
//	})
//
// # Building Blocks
//
// The pieces Play uses can be assembled by hand:
//
//   - stream.Window keeps a bounded window of compressed bytes
//   - formats/mp3 and formats/vorbis turn the window into PCM frames
//   - metrics.Estimator converts seconds to bytes from observed frames
//   - transport.Player owns position, marks, state and the command table
//   - device opens PortAudio, PulseAudio or a WAV capture file
//
// # Formats
//
// DefaultRegistry maps "mp3" and "mpga" to MPEG audio, "ogg" and "oga" to
// Ogg Vorbis. Paths without an extension are played as MPEG audio.
package audseek
