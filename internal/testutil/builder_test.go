package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/nk2kit/internal/format"
	"github.com/joshuapare/nk2kit/pkg/types"
)

func TestBuild_Layout(t *testing.T) {
	b := New()
	b.GapBlocks = 1
	b.ItemsPerNode = 2
	for range 3 {
		b.AddItem(Unicode(types.EntryDisplayName, "Alice"), Int32(types.EntryDisplayType, 0))
	}
	img := b.MustBuild(t)

	h, err := format.ParseHeader(img.Bytes)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), h.ItemCount)
	assert.Equal(t, uint64(len(img.Bytes)), h.RecordedSize)
	assert.Equal(t, img.IndexNodes[0], h.FirstIndexNode)
	assert.Len(t, img.IndexNodes, 2)
	assert.Len(t, img.Gaps, 3)
	assert.Zero(t, len(img.Bytes)%64)

	for _, off := range img.ItemOffsets {
		assert.True(t, format.IsAligned(off, 64))
		rec, err := format.DecodeItemRecord(img.Bytes[off:], format.Layout32)
		require.NoError(t, err)
		assert.Len(t, rec.Entries, 2)
	}

	node, err := format.DecodeIndexNode(img.Bytes[img.IndexNodes[0]:], format.Layout32)
	require.NoError(t, err)
	assert.Equal(t, img.IndexNodes[1], node.Next)
}

func TestBuild_InlineTooLarge(t *testing.T) {
	b := New().AddItem(Entry{EntryType: 1, ValueType: types.ValueTypeInteger32, Data: make([]byte, 9)})
	_, err := b.Build()
	require.Error(t, err)
}
