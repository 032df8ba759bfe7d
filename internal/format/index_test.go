package format

import (
	"errors"
	"testing"
)

func TestIndexNode_RoundTrip(t *testing.T) {
	for _, l := range []Layout{Layout32, Layout64} {
		t.Run(l.Type.String(), func(t *testing.T) {
			node := IndexNode{
				Next: 0x200,
				Entries: []IndexEntry{
					{Offset: 0x80, EntryCount: 4},
					{Offset: 0xc0, EntryCount: 1},
				},
			}
			b := make([]byte, IndexNodeSize(l, len(node.Entries)))
			if err := PutIndexNode(b, l, node); err != nil {
				t.Fatalf("PutIndexNode: %v", err)
			}
			if n, err := IndexNodeCount(b); err != nil || n != 2 {
				t.Fatalf("IndexNodeCount = %d, %v", n, err)
			}
			got, err := DecodeIndexNode(b, l)
			if err != nil {
				t.Fatalf("DecodeIndexNode: %v", err)
			}
			if got.Next != node.Next || len(got.Entries) != 2 {
				t.Fatalf("node mismatch: %+v", got)
			}
			for i := range node.Entries {
				if got.Entries[i] != node.Entries[i] {
					t.Errorf("entry %d = %+v, want %+v", i, got.Entries[i], node.Entries[i])
				}
			}
		})
	}
}

func TestDecodeIndexNode_Errors(t *testing.T) {
	node := IndexNode{Entries: []IndexEntry{{Offset: 0x80, EntryCount: 2}}}
	b := make([]byte, IndexNodeSize(Layout32, 1))
	if err := PutIndexNode(b, Layout32, node); err != nil {
		t.Fatalf("PutIndexNode: %v", err)
	}

	if _, err := DecodeIndexNode(b[:len(b)-1], Layout32); !errors.Is(err, ErrTruncated) {
		t.Errorf("truncated: got %v", err)
	}

	corrupt := append([]byte(nil), b...)
	corrupt[len(corrupt)-1] ^= 0xff
	if _, err := DecodeIndexNode(corrupt, Layout32); !errors.Is(err, ErrChecksumMismatch) {
		t.Errorf("checksum: got %v", err)
	}

	bad := append([]byte(nil), b...)
	bad[0] = 'X'
	if _, err := DecodeIndexNode(bad, Layout32); !errors.Is(err, ErrSignatureMismatch) {
		t.Errorf("signature: got %v", err)
	}
}
