package reader

import (
	"github.com/joshuapare/nk2kit/internal/buf"
	"github.com/joshuapare/nk2kit/internal/format"
	"github.com/joshuapare/nk2kit/internal/stream"
	"github.com/joshuapare/nk2kit/pkg/types"
)

// checkOffset validates that a structure offset is block aligned, outside
// the header and leaves room for at least minSize bytes.
func (f *File) checkOffset(off uint64, minSize int, what string) error {
	bs := f.header.BlockSize()
	if off < format.HeaderSize || !format.IsAligned(off, bs) {
		return invalidData("%s offset 0x%x is not a block-aligned offset past the header", what, off)
	}
	if !buf.RangeWithin(off, uint64(minSize), f.size) {
		return invalidData("%s offset 0x%x out of bounds (file size %d)", what, off, f.size)
	}
	return nil
}

// readIndex walks the index node chain and records where every item lives.
// In tolerant mode a corrupt node ends the walk and the items found so far
// are kept.
func (f *File) readIndex(s stream.Stream) error {
	visited := make(map[uint64]struct{})
	for off := f.header.FirstIndexNode; off != 0; {
		next, err := f.readIndexNode(s, off, visited)
		if err != nil {
			if !f.opts.Tolerant {
				return err
			}
			f.diagnostics.record(diagStructure(types.SevCritical, off, "INDEX",
				"index walk stopped at corrupt node: "+err.Error(), nil, nil))
			f.log.Warn("index walk stopped at corrupt node",
				"offset", off, "items", len(f.items), "error", err)
			return nil
		}
		off = next
	}
	return nil
}

func (f *File) readIndexNode(s stream.Stream, off uint64, visited map[uint64]struct{}) (uint64, error) {
	l := f.layout
	if _, seen := visited[off]; seen {
		return 0, invalidData("index node chain loops back to 0x%x", off)
	}
	visited[off] = struct{}{}

	if err := f.checkOffset(off, l.NodeHeaderSize(), "index node"); err != nil {
		return 0, err
	}
	hdr, err := stream.ReadFull(s, int64(off), l.NodeHeaderSize())
	if err != nil {
		return 0, wrapReadErr(err, "unable to read index node at 0x%x", off)
	}
	n, err := format.IndexNodeCount(hdr)
	if err != nil {
		return 0, wrapFormatErr(err, "unable to read index node at 0x%x", off)
	}
	size := format.IndexNodeSize(l, n)
	b, err := stream.ReadFull(s, int64(off), size)
	if err != nil {
		return 0, wrapReadErr(err, "unable to read index node at 0x%x", off)
	}
	node, err := format.DecodeIndexNode(b, l)
	if err != nil {
		return 0, wrapFormatErr(err, "unable to decode index node at 0x%x", off)
	}

	for i, e := range node.Entries {
		if err := f.checkOffset(e.Offset, format.ItemRecordSize(l, int(e.EntryCount)), "item record"); err != nil {
			if !f.opts.Tolerant {
				return 0, types.Set(err, types.DomainInput, types.InputInvalidData,
					"invalid entry %d of index node at 0x%x", i, off)
			}
			f.diagnostics.record(diagStructure(types.SevError, off, "INDEX",
				"skipped index entry with invalid item offset", nil, e.Offset))
			f.log.Warn("skipped index entry", "node", off, "entry", i, "error", err)
			continue
		}
		f.items = append(f.items, itemRef{offset: e.Offset, entryCount: e.EntryCount})
	}
	f.indexNodes = append(f.indexNodes, extent{offset: off, size: format.BlockSpan(uint64(size), f.header.BlockSize())})
	return node.Next, nil
}
