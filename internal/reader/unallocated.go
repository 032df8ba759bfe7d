package reader

import (
	"sort"

	"github.com/joshuapare/nk2kit/internal/buf"
	"github.com/joshuapare/nk2kit/internal/format"
	"github.com/joshuapare/nk2kit/pkg/types"
)

// NumberOfUnallocatedBlocks returns the number of unallocated ranges of kind.
func (f *File) NumberOfUnallocatedBlocks(kind types.BlockKind) (int, error) {
	blocks, err := f.unallocated(kind)
	if err != nil {
		return 0, err
	}
	return len(blocks), nil
}

// UnallocatedBlock returns range i of kind, in ascending offset order.
func (f *File) UnallocatedBlock(kind types.BlockKind, i int) (types.UnallocatedBlock, error) {
	blocks, err := f.unallocated(kind)
	if err != nil {
		return types.UnallocatedBlock{}, err
	}
	if i < 0 || i >= len(blocks) {
		return types.UnallocatedBlock{}, types.Set(nil, types.DomainArguments, types.ArgumentValueOutOfBounds,
			"unallocated block index %d out of bounds [0, %d)", i, len(blocks))
	}
	return blocks[i], nil
}

// UnallocatedBlocks returns a copy of every unallocated range of kind.
func (f *File) UnallocatedBlocks(kind types.BlockKind) ([]types.UnallocatedBlock, error) {
	blocks, err := f.unallocated(kind)
	if err != nil {
		return nil, err
	}
	return append([]types.UnallocatedBlock(nil), blocks...), nil
}

// unallocated computes the scan for kind once and caches it.
func (f *File) unallocated(kind types.BlockKind) ([]types.UnallocatedBlock, error) {
	if err := f.ensureOpen(); err != nil {
		return nil, err
	}
	if kind != types.BlockKindIndexNode && kind != types.BlockKindData {
		return nil, types.Set(nil, types.DomainArguments, types.ArgumentUnsupportedValue,
			"unsupported block kind %d", uint8(kind))
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if blocks, ok := f.unalloc[kind]; ok {
		return blocks, nil
	}

	extents := []extent{{offset: 0, size: format.HeaderSize}}
	switch kind {
	case types.BlockKindIndexNode:
		extents = append(extents, f.indexNodes...)
		for _, ref := range f.items {
			size := format.ItemRecordSize(f.layout, int(ref.entryCount))
			extents = append(extents, extent{offset: ref.offset, size: format.BlockSpan(uint64(size), f.header.BlockSize())})
		}
	case types.BlockKindData:
		extents = append(extents, f.dataExtents()...)
	}

	blocks := complement(extents, f.size, f.header.BlockSize())
	if f.unalloc == nil {
		f.unalloc = make(map[types.BlockKind][]types.UnallocatedBlock)
	}
	f.unalloc[kind] = blocks
	f.log.Debug("unallocated scan", "kind", kind.String(), "ranges", len(blocks))
	return blocks, nil
}

// dataExtents collects every data block reachable from a live entry. Items
// and chains that cannot be read are skipped; the blocks visited before the
// failure still count as allocated.
func (f *File) dataExtents() []extent {
	var extents []extent
	for i, ref := range f.items {
		rec, err := f.readItemRecord(f.s, ref)
		if err != nil {
			f.log.Debug("unallocated scan skipped item", "item", i, "error", err)
			continue
		}
		for _, raw := range rec.Entries {
			if types.ValueType(raw.ValueType).IsInline() || raw.Size == 0 {
				continue
			}
			err := f.walkChain(f.s, raw.ValueOffset(f.layout), false, func(off uint64, _ format.DataBlock, span uint64) error {
				extents = append(extents, extent{offset: off, size: span})
				return nil
			})
			if err != nil {
				f.log.Debug("unallocated scan stopped chain", "item", i, "error", err)
			}
		}
	}
	return extents
}

// complement returns the block-aligned gaps between extents within
// [0, size). Gap starts round up and gap ends round down to block
// boundaries; empty gaps are dropped.
func complement(extents []extent, size, bs uint64) []types.UnallocatedBlock {
	sort.Slice(extents, func(i, j int) bool { return extents[i].offset < extents[j].offset })

	var out []types.UnallocatedBlock
	emit := func(start, end uint64) {
		start, ok := buf.AlignUp(start, bs)
		if !ok {
			return
		}
		end = buf.AlignDown(min(end, size), bs)
		if end > start {
			out = append(out, types.UnallocatedBlock{Offset: start, Size: end - start})
		}
	}

	var cur uint64
	for _, e := range extents {
		if e.offset > cur {
			emit(cur, e.offset)
		}
		if end := e.offset + e.size; end > cur && end >= e.offset {
			cur = end
		}
	}
	if cur < size {
		emit(cur, size)
	}
	return out
}
