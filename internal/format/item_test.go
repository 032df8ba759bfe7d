package format

import (
	"errors"
	"testing"
)

func TestItemRecord_RoundTrip(t *testing.T) {
	for _, l := range []Layout{Layout32, Layout64} {
		t.Run(l.Type.String(), func(t *testing.T) {
			rec := ItemRecord{Entries: []RecordEntry{
				{ValueType: 0x0003, EntryType: 0x3900, Size: 4, Value: [8]byte{6, 0, 0, 0}},
				{ValueType: 0x001f, EntryType: 0x3001, Size: 10, Value: [8]byte{0x40, 0x01}},
			}}
			b := make([]byte, ItemRecordSize(l, 2))
			if err := PutItemRecord(b, l, rec); err != nil {
				t.Fatalf("PutItemRecord: %v", err)
			}
			if m, err := ItemEntryCount(b); err != nil || m != 2 {
				t.Fatalf("ItemEntryCount = %d, %v", m, err)
			}
			got, err := DecodeItemRecord(b, l)
			if err != nil {
				t.Fatalf("DecodeItemRecord: %v", err)
			}
			for i := range rec.Entries {
				if got.Entries[i] != rec.Entries[i] {
					t.Errorf("entry %d = %+v, want %+v", i, got.Entries[i], rec.Entries[i])
				}
			}
			if off := got.Entries[1].ValueOffset(l); off != 0x140 {
				t.Errorf("ValueOffset = 0x%x, want 0x140", off)
			}
		})
	}
}

func TestDecodeItemRecord_Errors(t *testing.T) {
	b := make([]byte, ItemRecordSize(Layout32, 3))
	if err := PutItemRecord(b, Layout32, ItemRecord{Entries: make([]RecordEntry, 3)}); err != nil {
		t.Fatalf("PutItemRecord: %v", err)
	}
	if _, err := DecodeItemRecord(b[:len(b)-4], Layout32); !errors.Is(err, ErrTruncated) {
		t.Errorf("truncated: got %v", err)
	}
	b[1] = 'X'
	if _, err := DecodeItemRecord(b, Layout32); !errors.Is(err, ErrSignatureMismatch) {
		t.Errorf("signature: got %v", err)
	}
	if err := PutItemRecord(make([]byte, ItemRecordSize(Layout32, 1)), Layout32,
		ItemRecord{Entries: []RecordEntry{{Size: 1 << 32}}}); !errors.Is(err, ErrInvalid) {
		t.Errorf("oversized 32-bit entry: got %v", err)
	}
}
