// Package clamp holds the small saturating-arithmetic helpers shared by
// cursor and state so the same bounds-checking isn't written out twice.
package clamp

// AddInt adds a signed delta to v, saturating at 0 on the low end and at
// 0xFFFF on the high end. Used for cursor moves (CUU/CUD/CUF/CUB, Backspace)
// where the wire value is always a positive count applied in a known
// direction.
func AddInt(v uint16, delta int) uint16 {
	sum := int32(v) + int32(delta)
	if sum < 0 {
		return 0
	}
	if sum > 0xFFFF {
		return 0xFFFF
	}
	return uint16(sum)
}

// Max clamps v so it never exceeds max.
func Max(v, max uint16) uint16 {
	if v > max {
		return max
	}
	return v
}
