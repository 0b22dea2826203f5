// SPDX-License-Identifier: EPL-2.0

//go:build !unix

// Package tty reads single key presses from the controlling terminal.
package tty

import (
	"errors"
	"fmt"
	"os"
)

// TTY is only implemented on unix systems.
type TTY struct{}

// Open always fails: key polling needs poll(2).
func Open(f *os.File) (*TTY, error) {
	return nil, fmt.Errorf("tty: %w", errors.ErrUnsupported)
}

func (t *TTY) Poll(block bool) (bool, error) { return false, errors.ErrUnsupported }
func (t *TTY) Interrupt()                     {}
func (t *TTY) ReadByte() (byte, error)        { return 0, errors.ErrUnsupported }
func (t *TTY) IsTerminal() bool               { return false }
func (t *TTY) Close() error                   { return nil }
