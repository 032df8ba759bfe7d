package buf

import "testing"

func TestEndianHelpers(t *testing.T) {
	data := []byte{0x01, 0x23, 0x45, 0x67, 0x89, 0xab, 0xcd, 0xef}

	if got := U16LE(data); got != 0x2301 {
		t.Fatalf("U16LE = 0x%x, want 0x2301", got)
	}
	if got := U32LE(data); got != 0x67452301 {
		t.Fatalf("U32LE = 0x%x, want 0x67452301", got)
	}
	if got := U64LE(data); got != 0xefcdab8967452301 {
		t.Fatalf("U64LE = 0x%x, want 0xefcdab8967452301", got)
	}
	if got := UintLE(data, 4); got != 0x67452301 {
		t.Fatalf("UintLE(4) = 0x%x, want 0x67452301", got)
	}
	if got := UintLE(data, 8); got != 0xefcdab8967452301 {
		t.Fatalf("UintLE(8) = 0x%x, want 0xefcdab8967452301", got)
	}
	if got := UintLE(data, 2); got != 0 {
		t.Fatalf("UintLE(2) = 0x%x, want 0", got)
	}

	short := []byte{0xAA}
	if U16LE(short) != 0 {
		t.Fatalf("U16LE short should be 0")
	}
	if U32LE(short) != 0 || U64LE(short) != 0 || UintLE(short, 8) != 0 {
		t.Fatalf("short reads should return 0")
	}
}

func TestPutUintLE(t *testing.T) {
	b := make([]byte, 8)
	if !PutUintLE(b, 4, 0x11223344) || U32LE(b) != 0x11223344 {
		t.Fatalf("PutUintLE(4) round trip failed: % x", b)
	}
	if PutUintLE(b, 4, 1<<32) {
		t.Fatalf("PutUintLE(4) should reject values wider than 32 bits")
	}
	if !PutUintLE(b, 8, 1<<40) || U64LE(b) != 1<<40 {
		t.Fatalf("PutUintLE(8) round trip failed: % x", b)
	}
	if PutUintLE(b[:3], 4, 1) {
		t.Fatalf("PutUintLE should reject short buffers")
	}
}
