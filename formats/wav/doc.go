// SPDX-License-Identifier: EPL-2.0

// Package wav records played audio to a WAV file.
//
// Capture implements audio.Device on top of github.com/go-audio/wav, so the
// player can run without a sound card, for example in tests or to check what
// a seek actually produced:
//
//	capture := wav.NewCapture("out.wav")
//	defer capture.Finish()
//
// The file is 16-bit stereo PCM at the rate of the first configured frame.
// Pausing closes the device, which only detaches the capture; resuming
// appends to the same file.
//
// NewCaptureWith records through any go-audio style Encoder; formats/aiff
// uses it for AIFF output.
package wav
