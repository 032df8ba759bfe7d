package format

import (
	"encoding/binary"
	"fmt"

	"github.com/joshuapare/nk2kit/internal/buf"
)

// IndexEntry locates one item record.
type IndexEntry struct {
	Offset     uint64
	EntryCount uint32
}

// IndexNode is one link of the item index chain.
//
//	Offset  Size  Description
//	------  ----  ----------------------------------------------------------
//	 0x00    2    "IN"
//	 0x02    2    Number of entries n
//	 0x04    4    Checksum (xxh3 low 32 of the entry array)
//	 0x08    W    Next index node offset (0 = last)
//	 0x08+W  n*E  Entries (E = Layout.IndexEntrySize)
type IndexNode struct {
	Next    uint64
	Entries []IndexEntry
}

// IndexNodeSize returns the byte size of a node holding n entries.
func IndexNodeSize(l Layout, n int) int {
	return l.NodeHeaderSize() + n*l.IndexEntrySize
}

// IndexNodeCount peeks at the entry count so callers can size the read for
// the full node after fetching only the header.
func IndexNodeCount(b []byte) (int, error) {
	if len(b) < NodeHeaderBase {
		return 0, fmt.Errorf("index node: %w", ErrTruncated)
	}
	if b[0] != IndexNodeSignature[0] || b[1] != IndexNodeSignature[1] {
		return 0, fmt.Errorf("index node: %w", ErrSignatureMismatch)
	}
	return int(buf.U16LE(b[2:])), nil
}

// DecodeIndexNode decodes an index node and verifies its checksum.
func DecodeIndexNode(b []byte, l Layout) (IndexNode, error) {
	n, err := IndexNodeCount(b)
	if err != nil {
		return IndexNode{}, err
	}
	hdr := l.NodeHeaderSize()
	if len(b) < hdr {
		return IndexNode{}, fmt.Errorf("index node: %w", ErrTruncated)
	}
	end, err := buf.CheckListBounds(len(b), hdr, n, l.IndexEntrySize)
	if err != nil {
		return IndexNode{}, fmt.Errorf("index node: %w: %w", ErrTruncated, err)
	}
	entries := b[hdr:end]
	stored := buf.U32LE(b[4:])
	if sum := Checksum(entries); sum != stored {
		return IndexNode{}, fmt.Errorf("index node: stored 0x%08x computed 0x%08x: %w", stored, sum, ErrChecksumMismatch)
	}

	node := IndexNode{
		Next:    buf.UintLE(b[NodeHeaderBase:], l.Width),
		Entries: make([]IndexEntry, n),
	}
	for i := range node.Entries {
		e := entries[i*l.IndexEntrySize:]
		node.Entries[i] = IndexEntry{
			Offset:     buf.UintLE(e, l.Width),
			EntryCount: buf.U32LE(e[l.Width:]),
		}
	}
	return node, nil
}

// PutIndexNode serializes node into b, which must hold IndexNodeSize bytes.
func PutIndexNode(b []byte, l Layout, node IndexNode) error {
	n := len(node.Entries)
	if n > 0xffff {
		return fmt.Errorf("index node: %d entries: %w", n, ErrInvalid)
	}
	if len(b) < IndexNodeSize(l, n) {
		return fmt.Errorf("index node: %w", ErrTruncated)
	}
	copy(b, IndexNodeSignature)
	binary.LittleEndian.PutUint16(b[2:], uint16(n))
	if !buf.PutUintLE(b[NodeHeaderBase:], l.Width, node.Next) {
		return fmt.Errorf("index node: next offset: %w", ErrInvalid)
	}
	hdr := l.NodeHeaderSize()
	for i, e := range node.Entries {
		p := b[hdr+i*l.IndexEntrySize:]
		if !buf.PutUintLE(p, l.Width, e.Offset) {
			return fmt.Errorf("index node: entry %d offset: %w", i, ErrInvalid)
		}
		binary.LittleEndian.PutUint32(p[l.Width:], e.EntryCount)
		if l.Width == 8 {
			binary.LittleEndian.PutUint32(p[12:], 0)
		}
	}
	binary.LittleEndian.PutUint32(b[4:], Checksum(b[hdr:hdr+n*l.IndexEntrySize]))
	return nil
}
