// SPDX-License-Identifier: EPL-2.0

package transport

// Input is the control channel: single command bytes from a keyboard or a
// script.
type Input interface {
	// Poll reports whether a byte can be read without blocking. With block
	// set it waits until one can.
	Poll(block bool) (bool, error)
	ReadByte() (byte, error)
}

// Interrupter is implemented by inputs whose blocking Poll can be woken from
// another goroutine. Run uses it to stop waiting for keys once its context
// is done.
type Interrupter interface {
	Interrupt()
}
