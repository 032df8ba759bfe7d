package reader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/nk2kit/internal/format"
	"github.com/joshuapare/nk2kit/internal/testutil"
	"github.com/joshuapare/nk2kit/pkg/types"
)

func TestComplement(t *testing.T) {
	tests := []struct {
		name    string
		extents []extent
		size    uint64
		want    []types.UnallocatedBlock
	}{
		{
			name:    "fully allocated",
			extents: []extent{{0, 64}, {64, 128}},
			size:    192,
			want:    nil,
		},
		{
			name:    "gap between and after",
			extents: []extent{{0, 64}, {192, 64}},
			size:    512,
			want:    []types.UnallocatedBlock{{Offset: 64, Size: 128}, {Offset: 256, Size: 256}},
		},
		{
			name:    "unsorted and overlapping",
			extents: []extent{{256, 64}, {0, 64}, {0, 128}, {64, 32}},
			size:    320,
			want:    []types.UnallocatedBlock{{Offset: 128, Size: 128}},
		},
		{
			name:    "partial blocks are dropped",
			extents: []extent{{0, 70}, {128, 64}},
			size:    250,
			want:    nil,
		},
		{
			name:    "trailing partial block rounds down",
			extents: []extent{{0, 64}},
			size:    200,
			want:    []types.UnallocatedBlock{{Offset: 64, Size: 128}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := complement(tt.extents, tt.size, 64)
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func covered(blocks []types.UnallocatedBlock, off, size uint64) bool {
	for _, b := range blocks {
		if off >= b.Offset && off+size <= b.End() {
			return true
		}
	}
	return false
}

func touches(blocks []types.UnallocatedBlock, off uint64) bool {
	for _, b := range blocks {
		if off >= b.Offset && off < b.End() {
			return true
		}
	}
	return false
}

func assertWellFormed(t *testing.T, blocks []types.UnallocatedBlock, size, bs uint64) {
	t.Helper()
	var prev uint64
	for i, b := range blocks {
		assert.NotZero(t, b.Size, "block %d", i)
		assert.Zero(t, b.Offset%bs, "block %d offset", i)
		assert.Zero(t, b.Size%bs, "block %d size", i)
		assert.LessOrEqual(t, b.End(), size, "block %d", i)
		assert.GreaterOrEqual(t, b.Offset, uint64(format.HeaderSize), "block %d overlaps header", i)
		if i > 0 {
			assert.Greater(t, b.Offset, prev, "block %d not after its predecessor", i)
		}
		prev = b.End()
	}
}

func TestUnallocatedBlocks(t *testing.T) {
	b := contactBuilder(5)
	b.ItemsPerNode = 2
	b.GapBlocks = 2
	b.TrailingBlocks = 3
	b.AddItem(testutil.Entry{EntryType: types.EntryEntryID, ValueType: types.ValueTypeBinary,
		Data: make([]byte, 500), ChunkSize: 100})
	img := b.MustBuild(t)
	f := openImage(t, img, types.OpenOptions{})
	size := uint64(len(img.Bytes))
	const bs = 64

	idx, err := f.UnallocatedBlocks(types.BlockKindIndexNode)
	require.NoError(t, err)
	data, err := f.UnallocatedBlocks(types.BlockKindData)
	require.NoError(t, err)
	assertWellFormed(t, idx, size, bs)
	assertWellFormed(t, data, size, bs)

	for _, g := range img.Gaps {
		assert.True(t, covered(idx, g.Offset, g.Size), "index kind misses gap %+v", g)
		assert.True(t, covered(data, g.Offset, g.Size), "data kind misses gap %+v", g)
	}
	for _, off := range img.IndexNodes {
		assert.False(t, touches(idx, off), "index node 0x%x reported unallocated", off)
		assert.True(t, touches(data, off), "index node 0x%x allocated for data kind", off)
	}
	for _, off := range img.ItemOffsets {
		assert.False(t, touches(idx, off), "item record 0x%x reported unallocated", off)
		assert.True(t, touches(data, off), "item record 0x%x allocated for data kind", off)
	}
	for _, item := range img.EntryBlocks {
		for _, blocks := range item {
			for _, off := range blocks {
				assert.True(t, touches(idx, off), "data block 0x%x allocated for index kind", off)
				assert.False(t, touches(data, off), "data block 0x%x reported unallocated", off)
			}
		}
	}

	n, err := f.NumberOfUnallocatedBlocks(types.BlockKindIndexNode)
	require.NoError(t, err)
	require.Equal(t, len(idx), n)
	last, err := f.UnallocatedBlock(types.BlockKindIndexNode, n-1)
	require.NoError(t, err)
	assert.Equal(t, idx[n-1], last)
	assert.Equal(t, size, last.End(), "trailing filler ends the file")

	_, err = f.UnallocatedBlock(types.BlockKindIndexNode, n)
	require.ErrorIs(t, err, types.ErrOutOfBounds)
	_, err = f.UnallocatedBlocks(types.BlockKind(9))
	require.Error(t, err)

	// Results are copies.
	idx[0].Size = 1
	again, err := f.UnallocatedBlocks(types.BlockKindIndexNode)
	require.NoError(t, err)
	assert.NotEqual(t, uint64(1), again[0].Size)
}

func TestUnallocatedBlocks_FullyAllocated(t *testing.T) {
	b := testutil.New()
	b.AddItem(testutil.Int32(types.EntryDisplayType, 1))
	f := openImage(t, b.MustBuild(t), types.OpenOptions{})

	n, err := f.NumberOfUnallocatedBlocks(types.BlockKindIndexNode)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = f.UnallocatedBlock(types.BlockKindIndexNode, 0)
	require.ErrorIs(t, err, types.ErrOutOfBounds)
}

func TestUnallocatedBlocks_RequiresOpenFile(t *testing.T) {
	f := New(types.OpenOptions{})
	_, err := f.NumberOfUnallocatedBlocks(types.BlockKindData)
	require.ErrorIs(t, err, types.ErrValueMissing)
}
