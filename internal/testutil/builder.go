// Package testutil builds synthetic NK2 images for tests. Every structure is
// laid out the way real files are (block aligned, chained, checksummed) and
// the resulting Image records where each structure landed so tests can
// corrupt specific bytes.
package testutil

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"

	"github.com/joshuapare/nk2kit/internal/buf"
	"github.com/joshuapare/nk2kit/internal/format"
	"github.com/joshuapare/nk2kit/pkg/codepage"
	"github.com/joshuapare/nk2kit/pkg/types"
)

var zstdEncoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))

// Entry describes one property to store. Data is the plain value; the
// builder handles encryption, compression and chaining.
type Entry struct {
	EntryType uint16
	ValueType types.ValueType
	Data      []byte

	// Compress stores each block payload as a zstd frame.
	Compress bool
	// ChunkSize splits the value across blocks of at most this many plain
	// bytes. Zero stores the value in a single block.
	ChunkSize int
}

// Item is the list of entries of one item record.
type Item []Entry

// Builder assembles an NK2 image.
type Builder struct {
	Layout      format.Layout
	ContentType uint16
	Encryption  uint8
	Key         uint32
	BlockShift  uint8

	// ItemsPerNode caps the entries of one index node (default 8).
	ItemsPerNode int
	// GapBlocks inserts that many blocks of filler after every item record,
	// producing unallocated regions.
	GapBlocks int
	// TrailingBlocks appends filler blocks after the last index node.
	TrailingBlocks int
	// Filler is the byte written into gaps (default 0xAA).
	Filler byte

	// HeaderItemCount overrides the item count written to the header.
	HeaderItemCount *uint32

	Items []Item
}

// New returns a builder for a 32-bit PAB image with 64-byte blocks and no
// encryption.
func New() *Builder {
	return &Builder{
		Layout:       format.Layout32,
		ContentType:  format.ContentPAB,
		BlockShift:   6,
		ItemsPerNode: 8,
		Filler:       0xAA,
	}
}

// AddItem appends an item and returns the builder for chaining.
func (b *Builder) AddItem(entries ...Entry) *Builder {
	b.Items = append(b.Items, Item(entries))
	return b
}

// Image is a built file plus the offsets of its structures.
type Image struct {
	Bytes  []byte
	Layout format.Layout

	// IndexNodes lists index node offsets in chain order.
	IndexNodes []uint64
	// ItemOffsets lists item record offsets in index order.
	ItemOffsets []uint64
	// EntryBlocks[i][j] lists the data block offsets of entry j of item i
	// (nil for inline or empty values).
	EntryBlocks [][][]uint64
	// Gaps lists the filler regions.
	Gaps []types.UnallocatedBlock
}

type cursor struct {
	off uint64
	bs  uint64
}

func (c *cursor) alloc(size int) uint64 {
	at := c.off
	c.off += format.BlockSpan(uint64(size), c.bs)
	return at
}

type pending struct {
	off  uint64
	data []byte
}

// Build lays out the image.
func (b *Builder) Build() (*Image, error) {
	l := b.Layout
	bs := uint64(1) << b.BlockShift
	perNode := b.ItemsPerNode
	if perNode <= 0 {
		perNode = 8
	}
	cur := &cursor{off: format.BlockSpan(format.HeaderSize, bs), bs: bs}
	img := &Image{Layout: l}
	var writes []pending

	indexEntries := make([]format.IndexEntry, 0, len(b.Items))
	for i, it := range b.Items {
		rec := format.ItemRecord{Entries: make([]format.RecordEntry, len(it))}
		blocks := make([][]uint64, len(it))
		for j, e := range it {
			re := format.RecordEntry{
				ValueType: uint16(e.ValueType),
				EntryType: e.EntryType,
				Size:      uint64(len(e.Data)),
			}
			if e.ValueType.IsInline() {
				if len(e.Data) > format.InlineValueSize {
					return nil, fmt.Errorf("item %d entry %d: %d bytes do not fit inline", i, j, len(e.Data))
				}
				copy(re.Value[:], e.Data)
				format.Encrypt(re.Value[:len(e.Data)], b.Encryption, b.Key)
			} else if len(e.Data) > 0 {
				offs, w, err := b.chain(cur, e)
				if err != nil {
					return nil, fmt.Errorf("item %d entry %d: %w", i, j, err)
				}
				buf.PutUintLE(re.Value[:], l.Width, offs[0])
				blocks[j] = offs
				writes = append(writes, w...)
			}
			rec.Entries[j] = re
		}
		size := format.ItemRecordSize(l, len(it))
		data := make([]byte, size)
		if err := format.PutItemRecord(data, l, rec); err != nil {
			return nil, err
		}
		off := cur.alloc(size)
		writes = append(writes, pending{off, data})
		img.ItemOffsets = append(img.ItemOffsets, off)
		img.EntryBlocks = append(img.EntryBlocks, blocks)
		indexEntries = append(indexEntries, format.IndexEntry{Offset: off, EntryCount: uint32(len(it))})

		if b.GapBlocks > 0 {
			gap := cur.alloc(b.GapBlocks * int(bs))
			img.Gaps = append(img.Gaps, types.UnallocatedBlock{Offset: gap, Size: uint64(b.GapBlocks) * bs})
			writes = append(writes, pending{gap, filler(b.GapBlocks*int(bs), b.Filler)})
		}
	}

	var nodes []format.IndexNode
	for start := 0; start < len(indexEntries); start += perNode {
		end := min(start+perNode, len(indexEntries))
		nodes = append(nodes, format.IndexNode{Entries: indexEntries[start:end]})
	}
	for _, n := range nodes {
		img.IndexNodes = append(img.IndexNodes, cur.alloc(format.IndexNodeSize(l, len(n.Entries))))
	}
	for k := range nodes {
		if k+1 < len(nodes) {
			nodes[k].Next = img.IndexNodes[k+1]
		}
		data := make([]byte, format.IndexNodeSize(l, len(nodes[k].Entries)))
		if err := format.PutIndexNode(data, l, nodes[k]); err != nil {
			return nil, err
		}
		writes = append(writes, pending{img.IndexNodes[k], data})
	}

	if b.TrailingBlocks > 0 {
		gap := cur.alloc(b.TrailingBlocks * int(bs))
		img.Gaps = append(img.Gaps, types.UnallocatedBlock{Offset: gap, Size: uint64(b.TrailingBlocks) * bs})
		writes = append(writes, pending{gap, filler(b.TrailingBlocks*int(bs), b.Filler)})
	}

	img.Bytes = make([]byte, cur.off)
	for _, w := range writes {
		copy(img.Bytes[w.off:], w.data)
	}

	h := format.Header{
		ContentType:  b.ContentType,
		Version:      l.Version(),
		Encryption:   b.Encryption,
		BlockShift:   b.BlockShift,
		Key:          b.Key,
		ItemCount:    uint32(len(b.Items)),
		RecordedSize: uint64(len(img.Bytes)),
		Layout:       l,
	}
	if len(img.IndexNodes) > 0 {
		h.FirstIndexNode = img.IndexNodes[0]
	}
	if b.HeaderItemCount != nil {
		h.ItemCount = *b.HeaderItemCount
	}
	if err := format.PutHeader(img.Bytes, h); err != nil {
		return nil, err
	}
	return img, nil
}

// chain allocates the data blocks of one value. Offsets are assigned first so
// each block can point at its successor.
func (b *Builder) chain(cur *cursor, e Entry) ([]uint64, []pending, error) {
	chunk := e.ChunkSize
	if chunk <= 0 {
		chunk = len(e.Data)
	}
	var payloads [][]byte
	var flags uint16
	for start := 0; start < len(e.Data); start += chunk {
		p := append([]byte(nil), e.Data[start:min(start+chunk, len(e.Data))]...)
		if e.Compress {
			p = zstdEncoder.EncodeAll(p, nil)
			flags = format.DataBlockFlagZstd
		}
		format.Encrypt(p, b.Encryption, b.Key)
		payloads = append(payloads, p)
	}

	offs := make([]uint64, len(payloads))
	for k, p := range payloads {
		offs[k] = cur.alloc(format.DataBlockSize(b.Layout, len(p)))
	}
	writes := make([]pending, len(payloads))
	for k, p := range payloads {
		blk := format.DataBlock{Flags: flags, Payload: p}
		if k+1 < len(offs) {
			blk.Next = offs[k+1]
		}
		data := make([]byte, format.DataBlockSize(b.Layout, len(p)))
		if err := format.PutDataBlock(data, b.Layout, blk); err != nil {
			return nil, nil, err
		}
		writes[k] = pending{offs[k], data}
	}
	return offs, writes, nil
}

func filler(n int, c byte) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = c
	}
	return b
}

// Poke overwrites bytes at off.
func (img *Image) Poke(off uint64, data ...byte) {
	copy(img.Bytes[off:], data)
}

// RestampHeader recomputes the header checksum after a header edit.
func (img *Image) RestampHeader() {
	binary.LittleEndian.PutUint32(img.Bytes[format.HeaderChecksumOffset:], format.HeaderChecksum(img.Bytes))
}

// WriteFile stores the image in a temporary directory and returns its path.
func (img *Image) WriteFile(t testing.TB, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, img.Bytes, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// MustBuild builds the image or fails the test.
func (b *Builder) MustBuild(t testing.TB) *Image {
	t.Helper()
	img, err := b.Build()
	if err != nil {
		t.Fatalf("build NK2 image: %v", err)
	}
	return img
}

// Value helpers.

// Unicode returns a PT_UNICODE entry with its terminator.
func Unicode(entryType uint16, s string) Entry {
	data, err := codepage.EncodeUTF16(s)
	if err != nil {
		panic(err)
	}
	return Entry{EntryType: entryType, ValueType: types.ValueTypeUnicodeString, Data: append(data, 0, 0)}
}

// ASCII returns a PT_STRING8 entry encoded in cp with its terminator.
func ASCII(entryType uint16, s string, cp codepage.Codepage) Entry {
	data, err := codepage.Encode(cp, s)
	if err != nil {
		panic(err)
	}
	return Entry{EntryType: entryType, ValueType: types.ValueTypeASCIIString, Data: append(data, 0)}
}

// Int32 returns a PT_LONG entry.
func Int32(entryType uint16, v int32) Entry {
	return Entry{EntryType: entryType, ValueType: types.ValueTypeInteger32,
		Data: binary.LittleEndian.AppendUint32(nil, uint32(v))}
}

// Binary returns a PT_BINARY entry.
func Binary(entryType uint16, data []byte) Entry {
	return Entry{EntryType: entryType, ValueType: types.ValueTypeBinary, Data: data}
}
