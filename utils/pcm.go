// SPDX-License-Identifier: EPL-2.0

package utils

import "encoding/binary"

// Float32ToInt16 converts a normalized sample in [-1, 1] to signed 16-bit PCM.
// Out of range input is clipped.
func Float32ToInt16(x float32) int16 {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	// 32767 keeps +1.0 from wrapping around
	return int16(x * 32767.0)
}

// Int16FromLE decodes little-endian 16-bit PCM bytes into dst, growing it when
// needed, and returns the filled slice. A trailing odd byte is ignored.
func Int16FromLE(dst []int16, src []byte) []int16 {
	samples := len(src) / 2
	if cap(dst) < samples {
		dst = make([]int16, samples)
	}
	dst = dst[:samples]

	for i := range samples {
		dst[i] = int16(binary.LittleEndian.Uint16(src[2*i:]))
	}

	return dst
}

// StereoFromFloat32 converts interleaved float samples with the given channel
// count to interleaved stereo 16-bit PCM. Mono is duplicated to both channels,
// channels beyond the second are dropped.
func StereoFromFloat32(dst []int16, src []float32, channels int) []int16 {
	if channels < 1 {
		return dst[:0]
	}

	frames := len(src) / channels
	if cap(dst) < frames*2 {
		dst = make([]int16, frames*2)
	}
	dst = dst[:frames*2]

	for f := range frames {
		left := src[f*channels]
		right := left
		if channels > 1 {
			right = src[f*channels+1]
		}
		dst[2*f] = Float32ToInt16(left)
		dst[2*f+1] = Float32ToInt16(right)
	}

	return dst
}
