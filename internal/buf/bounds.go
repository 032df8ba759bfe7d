package buf

import (
	"fmt"
	"math"
)

// AddOverflowSafe adds a and b, returning ok = false when the result would overflow int.
func AddOverflowSafe(a, b int) (int, bool) {
	switch {
	case b > 0 && a > math.MaxInt-b:
		return 0, false
	case b < 0 && a < math.MinInt-b:
		return 0, false
	default:
		return a + b, true
	}
}

// MulOverflowSafe multiplies a and b, returning ok = false when the result would overflow int.
// This is essential for count * elementSize calculations in index and item parsing.
func MulOverflowSafe(a, b int) (int, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	// For positive numbers, check if result would overflow
	if a > 0 && b > 0 {
		if a > math.MaxInt/b {
			return 0, false
		}
	}
	// For negative numbers
	if a < 0 && b < 0 {
		if a < math.MaxInt/b {
			return 0, false
		}
	}
	// Mixed signs - check against MinInt
	if a > 0 && b < 0 {
		if b < math.MinInt/a {
			return 0, false
		}
	}
	if a < 0 && b > 0 {
		if a < math.MinInt/b {
			return 0, false
		}
	}
	return a * b, true
}

// CheckListBounds validates that count elements of elementSize bytes fit in buffer
// starting at offset. Returns the end offset if valid, or an error describing
// the specific failure (overflow or out of bounds).
//
// This is the recommended way to validate entry arrays before iterating:
//
//	endOff, err := buf.CheckListBounds(len(data), offset, int(count), entrySize)
//	if err != nil {
//	    return fmt.Errorf("index node: %w", err)
//	}
//	// Safe to iterate from offset to endOff
func CheckListBounds(bufLen, offset, count, elementSize int) (int, error) {
	if offset < 0 {
		return 0, fmt.Errorf("negative offset: %d", offset)
	}
	if count < 0 {
		return 0, fmt.Errorf("negative count: %d", count)
	}
	if elementSize < 0 {
		return 0, fmt.Errorf("negative element size: %d", elementSize)
	}

	// Check count * elementSize for overflow
	totalSize, ok := MulOverflowSafe(count, elementSize)
	if !ok {
		return 0, fmt.Errorf("overflow: count=%d * elemSize=%d", count, elementSize)
	}

	// Check offset + totalSize for overflow
	endOffset, ok := AddOverflowSafe(offset, totalSize)
	if !ok {
		return 0, fmt.Errorf("overflow: offset=%d + size=%d", offset, totalSize)
	}

	// Check bounds
	if endOffset > bufLen {
		return 0, fmt.Errorf("bounds: end=%d > len=%d", endOffset, bufLen)
	}

	return endOffset, nil
}

// Slice returns the sub-slice [off:off+n] if it fits within len(b).
func Slice(b []byte, off, n int) ([]byte, bool) {
	if off < 0 || n < 0 || off > len(b) {
		return nil, false
	}
	end, ok := AddOverflowSafe(off, n)
	if !ok || end > len(b) {
		return nil, false
	}
	return b[off:end], true
}

// RangeWithin reports whether [off, off+n) lies inside [0, size) without
// overflowing uint64.
func RangeWithin(off, n, size uint64) bool {
	if off > size {
		return false
	}
	return n <= size-off
}

// AlignUp rounds v up to a multiple of align, which must be a power of two.
// ok is false when the result would overflow.
func AlignUp(v, align uint64) (uint64, bool) {
	if align == 0 {
		return v, true
	}
	r := (v + align - 1) &^ (align - 1)
	if r < v {
		return 0, false
	}
	return r, true
}

// AlignDown rounds v down to a multiple of align, which must be a power of two.
func AlignDown(v, align uint64) uint64 {
	if align == 0 {
		return v
	}
	return v &^ (align - 1)
}
