// SPDX-License-Identifier: EPL-2.0

package transport

import "errors"

var (
	ErrNoMark       = errors.New("no mark set")
	ErrResumeFailed = errors.New("cannot resume playback")
	ErrMissingPart  = errors.New("player is missing a required part")
)
