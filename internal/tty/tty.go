// SPDX-License-Identifier: EPL-2.0

//go:build unix

// Package tty reads single key presses from the controlling terminal.
package tty

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// TTY is a control input over a file, usually os.Stdin. When the file is a
// terminal it is put into raw mode so keys arrive unbuffered and unechoed.
type TTY struct {
	f     *os.File
	fd    int
	state *term.State
	buf   [1]byte

	// Interrupt writes to wakeW so a blocked Poll returns
	wakeR, wakeW *os.File
}

// Open prepares f for reading keys. Close restores the terminal.
func Open(f *os.File) (*TTY, error) {
	t := &TTY{f: f, fd: int(f.Fd())}

	r, w, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("wake pipe: %w", err)
	}
	t.wakeR, t.wakeW = r, w

	if term.IsTerminal(t.fd) {
		state, err := term.MakeRaw(t.fd)
		if err != nil {
			r.Close()
			w.Close()
			return nil, fmt.Errorf("raw mode: %w", err)
		}
		t.state = state
	}

	return t, nil
}

// Poll reports whether a key can be read without blocking; with block set it
// waits for one. Hang-ups count as readable so the read reports io.EOF.
// A blocking poll also returns false, nil when interrupted by a signal or by
// Interrupt, so the caller gets to look at its context.
func (t *TTY) Poll(block bool) (bool, error) {
	timeout := 0
	if block {
		timeout = -1
	}

	fds := []unix.PollFd{
		{Fd: int32(t.fd), Events: unix.POLLIN},
		{Fd: int32(t.wakeR.Fd()), Events: unix.POLLIN},
	}
	for {
		n, err := unix.Poll(fds, timeout)
		if errors.Is(err, unix.EINTR) {
			if block {
				return false, nil
			}
			continue
		}
		if err != nil {
			return false, fmt.Errorf("poll: %w", err)
		}

		if fds[1].Revents&unix.POLLIN != 0 {
			var drain [64]byte
			_, _ = t.wakeR.Read(drain[:])
		}

		return n > 0 && fds[0].Revents&(unix.POLLIN|unix.POLLHUP|unix.POLLERR) != 0, nil
	}
}

// Interrupt wakes a Poll blocked in another goroutine.
func (t *TTY) Interrupt() {
	_, _ = t.wakeW.Write([]byte{0})
}

func (t *TTY) ReadByte() (byte, error) {
	n, err := t.f.Read(t.buf[:])
	if n == 1 {
		return t.buf[0], nil
	}
	if err == nil {
		err = io.EOF
	}
	return 0, err
}

// IsTerminal reports whether raw mode was set up.
func (t *TTY) IsTerminal() bool {
	return t.state != nil
}

// Close restores the terminal mode. The file stays open.
func (t *TTY) Close() error {
	// a late Interrupt writes to a closed pipe and is ignored
	t.wakeW.Close()
	t.wakeR.Close()

	if t.state == nil {
		return nil
	}

	state := t.state
	t.state = nil
	if err := term.Restore(t.fd, state); err != nil {
		return fmt.Errorf("restore terminal: %w", err)
	}
	return nil
}
