// SPDX-License-Identifier: EPL-2.0

// Package device provides the audio.Device outputs the player writes to.
//
// PortAudio uses github.com/gordonklaus/portaudio in blocking mode. Pulse
// talks to a PulseAudio (or PipeWire) server with github.com/jfreymuth/pulse,
// whose playback stream pulls samples from a callback; writes are queued
// for it and block while the queue is full, so both devices pace the
// player the same way. Speaker feeds the same kind of queue to the
// github.com/gopxl/beep/v2 speaker, resampling to its fixed output rate.
//
// The sound card is released on Close, which the player calls when
// pausing, and acquired again on Open.
//
// New picks a device by name:
//
//	dev, err := device.New("pulse", device.Options{})
//	dev, err := device.New("wav:/tmp/out.wav", device.Options{})
package device
