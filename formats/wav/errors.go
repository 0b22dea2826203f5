// SPDX-License-Identifier: EPL-2.0

package wav

import "errors"

var (
	ErrRateChange = errors.New("sample rate changed during capture")
	ErrNotOpen    = errors.New("capture is not open")
)
