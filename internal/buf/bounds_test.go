package buf

import (
	"math"
	"testing"
)

func TestAddOverflowSafe(t *testing.T) {
	if sum, ok := AddOverflowSafe(10, 5); !ok || sum != 15 {
		t.Fatalf("AddOverflowSafe(10,5)=%d,%v want 15,true", sum, ok)
	}
	if _, ok := AddOverflowSafe(math.MaxInt, 1); ok {
		t.Fatalf("expected overflow when adding to MaxInt")
	}
	if _, ok := AddOverflowSafe(math.MinInt, -1); ok {
		t.Fatalf("expected underflow when subtracting from MinInt")
	}
}

func TestSlice(t *testing.T) {
	data := []byte{0, 1, 2, 3, 4}
	if got, ok := Slice(data, 1, 3); !ok || len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Fatalf("Slice returned unexpected result: %v, %v", got, ok)
	}
	if _, ok := Slice(data, 4, 2); ok {
		t.Fatalf("Slice should fail when extending beyond len")
	}
	if _, ok := Slice(data, 2, 4); ok {
		t.Fatalf("Slice should fail for out-of-bounds range")
	}

	if _, ok := Slice(data, -1, 1); ok {
		t.Fatalf("Slice should reject negative offset")
	}
	if _, ok := Slice(data, 1, -1); ok {
		t.Fatalf("Slice should reject negative length")
	}
}

func TestMulOverflowSafe(t *testing.T) {
	if got, ok := MulOverflowSafe(16, 4); !ok || got != 64 {
		t.Fatalf("MulOverflowSafe(16,4)=%d,%v want 64,true", got, ok)
	}
	if _, ok := MulOverflowSafe(math.MaxInt/2, 3); ok {
		t.Fatalf("expected overflow")
	}
}

func TestCheckListBounds(t *testing.T) {
	if end, err := CheckListBounds(64, 16, 4, 8); err != nil || end != 48 {
		t.Fatalf("CheckListBounds = %d, %v want 48, nil", end, err)
	}
	if _, err := CheckListBounds(64, 16, 7, 8); err == nil {
		t.Fatalf("expected bounds error")
	}
	if _, err := CheckListBounds(64, 0, math.MaxInt, 16); err == nil {
		t.Fatalf("expected overflow error")
	}
}

func TestRangeWithin(t *testing.T) {
	tests := []struct {
		off, n, size uint64
		want         bool
	}{
		{0, 64, 64, true},
		{60, 4, 64, true},
		{60, 5, 64, false},
		{65, 0, 64, false},
		{8, math.MaxUint64, 64, false},
	}
	for _, tt := range tests {
		if got := RangeWithin(tt.off, tt.n, tt.size); got != tt.want {
			t.Errorf("RangeWithin(%d,%d,%d) = %v, want %v", tt.off, tt.n, tt.size, got, tt.want)
		}
	}
}

func TestAlign(t *testing.T) {
	if got, ok := AlignUp(65, 64); !ok || got != 128 {
		t.Fatalf("AlignUp(65,64) = %d,%v want 128,true", got, ok)
	}
	if got, ok := AlignUp(128, 64); !ok || got != 128 {
		t.Fatalf("AlignUp(128,64) = %d,%v want 128,true", got, ok)
	}
	if _, ok := AlignUp(math.MaxUint64-2, 64); ok {
		t.Fatalf("AlignUp should report overflow")
	}
	if got := AlignDown(127, 64); got != 64 {
		t.Fatalf("AlignDown(127,64) = %d want 64", got)
	}
}
