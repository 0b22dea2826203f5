// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrRecoverable       = errors.New("recoverable stream error")
	ErrDeviceUnavailable = errors.New("audio device unavailable")
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrNotConfigured     = errors.New("audio device not configured")
)

// IsRecoverable reports whether err only invalidated a single frame.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrRecoverable)
}
