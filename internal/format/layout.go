package format

import (
	"fmt"

	"github.com/joshuapare/nk2kit/pkg/types"
)

// Layout captures every width-dependent size of one file variant. It is
// resolved once from the header version and passed to every decoder, so no
// decoder branches on the variant itself.
type Layout struct {
	Type types.FileType
	// Width is the size in bytes of offsets and sizes (4 or 8).
	Width int
	// IndexEntrySize is the size of one index node entry.
	IndexEntrySize int
	// RecordEntrySize is the size of one record entry.
	RecordEntrySize int
}

var (
	// Layout32 is the layout of format versions 14 and 15.
	//
	//	index entry:  offset u32, entry count u32
	//	record entry: value type u16, entry type u16, size u32, value [8]
	Layout32 = Layout{Type: types.FileType32Bit, Width: 4, IndexEntrySize: 8, RecordEntrySize: 16}

	// Layout64 is the layout of format version 23.
	//
	//	index entry:  offset u64, entry count u32, reserved u32
	//	record entry: value type u16, entry type u16, reserved u32, size u64, value [8]
	Layout64 = Layout{Type: types.FileType64Bit, Width: 8, IndexEntrySize: 16, RecordEntrySize: 24}
)

// LayoutForVersion selects the layout for a header format version.
func LayoutForVersion(version uint16) (Layout, error) {
	switch version {
	case Version32Legacy, Version32:
		return Layout32, nil
	case Version64:
		return Layout64, nil
	default:
		return Layout{}, fmt.Errorf("version %d: %w", version, ErrUnsupportedVersion)
	}
}

// NodeHeaderSize is the header size of index nodes and data blocks.
func (l Layout) NodeHeaderSize() int {
	return NodeHeaderBase + l.Width
}

// Version returns the version number written for this layout.
func (l Layout) Version() uint16 {
	if l.Width == 8 {
		return Version64
	}
	return Version32
}
