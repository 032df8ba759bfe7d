package format

import (
	"encoding/binary"
	"errors"
	"testing"
)

func validHeader(l Layout) Header {
	return Header{
		ContentType:    ContentPAB,
		Version:        l.Version(),
		Encryption:     EncryptionHigh,
		BlockShift:     6,
		Key:            0xdeadbeef,
		ItemCount:      3,
		RecordedSize:   0x400,
		FirstIndexNode: 0x40,
		Layout:         l,
	}
}

func TestParseHeader_RoundTrip(t *testing.T) {
	for _, l := range []Layout{Layout32, Layout64} {
		t.Run(l.Type.String(), func(t *testing.T) {
			b := make([]byte, HeaderSize)
			want := validHeader(l)
			if err := PutHeader(b, want); err != nil {
				t.Fatalf("PutHeader: %v", err)
			}
			got, err := ParseHeader(b)
			if err != nil {
				t.Fatalf("ParseHeader: %v", err)
			}
			want.Checksum = got.Checksum
			if got != want {
				t.Fatalf("header mismatch:\n got %+v\nwant %+v", got, want)
			}
			if got.BlockSize() != 64 {
				t.Errorf("BlockSize = %d, want 64", got.BlockSize())
			}
		})
	}
}

func TestParseHeader_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(b []byte) []byte
		want   error
	}{
		{"truncated", func(b []byte) []byte { return b[:HeaderSize-1] }, ErrTruncated},
		{"signature", func(b []byte) []byte { b[0] = 'x'; return b }, ErrSignatureMismatch},
		{"version", func(b []byte) []byte {
			binary.LittleEndian.PutUint16(b[HeaderVersionOffset:], 99)
			return b
		}, ErrUnsupportedVersion},
		{"content type", func(b []byte) []byte {
			binary.LittleEndian.PutUint16(b[HeaderContentTypeOffset:], 0x4242)
			return b
		}, ErrUnsupported},
		{"encryption", func(b []byte) []byte { b[HeaderEncryptionOffset] = 7; return b }, ErrUnsupported},
		{"block shift", func(b []byte) []byte { b[HeaderBlockShiftOffset] = 3; return b }, ErrInvalid},
		{"checksum", func(b []byte) []byte { b[HeaderItemCountOffset]++; return b }, ErrChecksumMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := make([]byte, HeaderSize)
			if err := PutHeader(b, validHeader(Layout32)); err != nil {
				t.Fatalf("PutHeader: %v", err)
			}
			_, err := ParseHeader(tt.mutate(b))
			if !errors.Is(err, tt.want) {
				t.Fatalf("ParseHeader error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPutHeader_OffsetTooWide(t *testing.T) {
	h := validHeader(Layout32)
	h.RecordedSize = 1 << 33
	if err := PutHeader(make([]byte, HeaderSize), h); !errors.Is(err, ErrInvalid) {
		t.Fatalf("PutHeader error = %v, want ErrInvalid", err)
	}
}

func TestLayoutForVersion(t *testing.T) {
	for _, v := range []uint16{Version32Legacy, Version32} {
		l, err := LayoutForVersion(v)
		if err != nil || l != Layout32 {
			t.Fatalf("LayoutForVersion(%d) = %+v, %v", v, l, err)
		}
	}
	l, err := LayoutForVersion(Version64)
	if err != nil || l != Layout64 {
		t.Fatalf("LayoutForVersion(23) = %+v, %v", l, err)
	}
	if l.NodeHeaderSize() != 16 || Layout32.NodeHeaderSize() != 12 {
		t.Fatalf("unexpected node header sizes")
	}
	if _, err := LayoutForVersion(0); !errors.Is(err, ErrUnsupportedVersion) {
		t.Fatalf("expected ErrUnsupportedVersion, got %v", err)
	}
}
