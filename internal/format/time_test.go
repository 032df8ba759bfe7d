package format

import (
	"testing"
	"time"
)

func TestFiletimeConversion(t *testing.T) {
	tests := []struct {
		ft   uint64
		want time.Time
	}{
		{0, time.Date(1601, 1, 1, 0, 0, 0, 0, time.UTC)},
		{116444736000000000, time.Unix(0, 0).UTC()},
		{132539328000000000, time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)},
		{132539328000000001, time.Date(2021, 1, 1, 0, 0, 0, 100, time.UTC)},
	}
	for _, tt := range tests {
		got := FiletimeToTime(tt.ft)
		if !got.Equal(tt.want) {
			t.Errorf("FiletimeToTime(%d) = %v, want %v", tt.ft, got, tt.want)
		}
		if back := TimeToFiletime(got); back != tt.ft {
			t.Errorf("TimeToFiletime(%v) = %d, want %d", got, back, tt.ft)
		}
	}
	if TimeToFiletime(time.Date(1500, 1, 1, 0, 0, 0, 0, time.UTC)) != 0 {
		t.Errorf("pre-1601 time should clamp to 0")
	}
}
