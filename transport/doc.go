// SPDX-License-Identifier: EPL-2.0

// Package transport implements the interactive player: a single-goroutine
// loop that alternates decoding one frame with handling keyboard commands.
//
// # Loop
//
// While Playing, every iteration applies a pending seek (a full window
// invalidation plus a codec reset), decodes one frame, writes it to the
// device and then drains control input without blocking. While Paused the
// loop blocks on input, the only place it ever waits for something other
// than the device.
//
// # Commands
//
// Commands are single bytes, optionally preceded by a decimal count:
//
//	J K   seek forward/back 10 x count minutes
//	j k   seek forward/back count minutes
//	l h   seek forward/back 10 x count seconds
//	%     seek to count percent of the file
//	G     seek to count minutes from the start
//	m x   mark the current position as x
//	' x   jump to mark x ('' returns to where the last seek started)
//	p     toggle pause (space works too)
//	P     pause after count more minutes, or cancel without a count
//	i     print the status line
//	q     quit (Ctrl-C works too)
//	ESC   drop the typed count
//
// Time based seeks are converted to byte offsets with the frame size and
// duration averages from the metrics package, so they are approximate and
// land on frame boundaries. Every seek is clamped to the file.
package transport
