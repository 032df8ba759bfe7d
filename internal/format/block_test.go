package format

import (
	"bytes"
	"errors"
	"testing"
)

func TestDataBlock_RoundTrip(t *testing.T) {
	for _, l := range []Layout{Layout32, Layout64} {
		t.Run(l.Type.String(), func(t *testing.T) {
			payload := []byte("hello, nickname cache")
			b := make([]byte, DataBlockSize(l, len(payload)))
			if err := PutDataBlock(b, l, DataBlock{Flags: DataBlockFlagZstd, Next: 0x300, Payload: payload}); err != nil {
				t.Fatalf("PutDataBlock: %v", err)
			}
			got, err := DecodeDataBlock(b, l)
			if err != nil {
				t.Fatalf("DecodeDataBlock: %v", err)
			}
			if !got.Compressed() || got.Next != 0x300 || int(got.StoredSize) != len(payload) {
				t.Fatalf("header mismatch: %+v", got)
			}
			if !bytes.Equal(got.Payload, payload) {
				t.Fatalf("payload = %q, want %q", got.Payload, payload)
			}
		})
	}
}

func TestDecodeDataBlock_Errors(t *testing.T) {
	b := make([]byte, DataBlockSize(Layout32, 8))
	if err := PutDataBlock(b, Layout32, DataBlock{Payload: make([]byte, 8)}); err != nil {
		t.Fatalf("PutDataBlock: %v", err)
	}
	if _, err := DecodeDataBlock(b[:len(b)-1], Layout32); !errors.Is(err, ErrTruncated) {
		t.Errorf("truncated payload: got %v", err)
	}
	if _, err := DecodeDataBlockHeader(b[:4], Layout32); !errors.Is(err, ErrTruncated) {
		t.Errorf("truncated header: got %v", err)
	}
	b[2] = 0x80
	if _, err := DecodeDataBlock(b, Layout32); !errors.Is(err, ErrUnsupported) {
		t.Errorf("unknown flags: got %v", err)
	}
	b[0] = 'd'
	if _, err := DecodeDataBlock(b, Layout32); !errors.Is(err, ErrSignatureMismatch) {
		t.Errorf("signature: got %v", err)
	}
}

func TestBlockAlignment(t *testing.T) {
	if BlockSpan(1, 64) != 64 || BlockSpan(64, 64) != 64 || BlockSpan(65, 64) != 128 {
		t.Fatalf("BlockSpan rounding incorrect")
	}
	if !IsAligned(128, 64) || IsAligned(130, 64) {
		t.Fatalf("IsAligned incorrect")
	}
}
