// Package buf contains helpers for endian-safe decoding routines.
package buf

import "encoding/binary"

// U16LE reads a little-endian uint16 from b. Returns 0 when b is too short.
func U16LE(b []byte) uint16 {
	if len(b) < 2 {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

// U32LE reads a little-endian uint32 from b. Returns 0 when b is too short.
func U32LE(b []byte) uint32 {
	if len(b) < 4 {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

// U64LE reads a little-endian uint64 from b. Returns 0 when b is too short.
func U64LE(b []byte) uint64 {
	if len(b) < 8 {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

// UintLE reads a little-endian unsigned integer of width 4 or 8 bytes,
// widened to uint64. Returns 0 when b is too short or width is unsupported.
func UintLE(b []byte, width int) uint64 {
	switch width {
	case 4:
		return uint64(U32LE(b))
	case 8:
		return U64LE(b)
	default:
		return 0
	}
}

// PutUintLE writes v as a little-endian integer of width 4 or 8 bytes. It
// reports false when b is too short, the width is unsupported, or v does not
// fit in width bytes.
func PutUintLE(b []byte, width int, v uint64) bool {
	switch {
	case width == 4 && len(b) >= 4 && v <= 0xffffffff:
		binary.LittleEndian.PutUint32(b, uint32(v))
		return true
	case width == 8 && len(b) >= 8:
		binary.LittleEndian.PutUint64(b, v)
		return true
	default:
		return false
	}
}
