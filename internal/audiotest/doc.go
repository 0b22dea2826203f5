// SPDX-License-Identifier: EPL-2.0

// Package audiotest provides scripted control input, a fixed-size frame
// codec and a recording output device for testing the player without audio
// files or hardware.
package audiotest
