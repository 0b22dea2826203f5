// SPDX-License-Identifier: EPL-2.0

package utils

import "math/bits"

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// AddSat returns a+b, saturating at the int64 limits instead of wrapping.
func AddSat(a, b int64) int64 {
	sum := a + b
	switch {
	case b > 0 && sum < a:
		return 1<<63 - 1
	case b < 0 && sum > a:
		return -1 << 63
	}
	return sum
}

// MulDiv returns num*mul/div truncated toward zero, using a 128-bit
// intermediate product so large byte offsets multiplied by millisecond
// counts cannot overflow. A zero divisor yields 0.
func MulDiv(num, mul, div int64) int64 {
	if div == 0 {
		return 0
	}

	neg := (num < 0) != (mul < 0) != (div < 0)
	hi, lo := bits.Mul64(abs64(num), abs64(mul))

	d := abs64(div)
	if hi >= d {
		// quotient does not fit in 64 bits
		if neg {
			return -1 << 63
		}
		return 1<<63 - 1
	}

	q, _ := bits.Div64(hi, lo, d)
	if q > 1<<63-1 {
		if neg {
			return -1 << 63
		}
		return 1<<63 - 1
	}
	if neg {
		return -int64(q)
	}
	return int64(q)
}

func abs64(v int64) uint64 {
	if v < 0 {
		return uint64(-v)
	}
	return uint64(v)
}
