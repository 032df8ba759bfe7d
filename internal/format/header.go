package format

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/joshuapare/nk2kit/internal/buf"
)

// Header captures the NK2 file header. The diagram below shows both layouts;
// W is 4 in the 32-bit variant and 8 in the 64-bit variant.
//
//	Offset  Size  Description
//	------  ----  ----------------------------------------------------------
//	 0x00    4    0x0d 0xf0 0xad 0xba
//	 0x04    2    Content type ("AB" PAB, "SM" PST, "SO" OST)
//	 0x06    2    Format version (14/15 = 32-bit, 23 = 64-bit)
//	 0x08    1    Encryption type (0 none, 1 compressible, 2 high)
//	 0x09    1    Block size shift
//	 0x0a    2    Reserved
//	 0x0c    4    Encryption key
//	 0x10    4    Number of items
//	 0x14    4    Checksum (xxh3 low 32 of the header minus this field)
//	 0x18    W    Recorded file size
//	 0x18+W  W    Offset of the first index node (0 = none)
//
// Everything is little-endian; the remainder up to 0x40 is zero padding.
type Header struct {
	ContentType    uint16
	Version        uint16
	Encryption     uint8
	BlockShift     uint8
	Key            uint32
	ItemCount      uint32
	Checksum       uint32
	RecordedSize   uint64
	FirstIndexNode uint64
	Layout         Layout
}

// BlockSize returns the allocation unit of the file.
func (h Header) BlockSize() uint64 {
	return 1 << h.BlockShift
}

// ParseHeader validates and extracts the header fields. Checks run in a fixed
// order: length, signature, version, content type, encryption, block size,
// checksum.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, fmt.Errorf("file header: %w (need %d bytes, have %d)", ErrTruncated, HeaderSize, len(b))
	}
	if !bytes.Equal(b[:len(FileSignature)], FileSignature) {
		return Header{}, fmt.Errorf("file header: %w", ErrSignatureMismatch)
	}

	version := buf.U16LE(b[HeaderVersionOffset:])
	layout, err := LayoutForVersion(version)
	if err != nil {
		return Header{}, fmt.Errorf("file header: %w", err)
	}

	h := Header{
		ContentType: buf.U16LE(b[HeaderContentTypeOffset:]),
		Version:     version,
		Encryption:  b[HeaderEncryptionOffset],
		BlockShift:  b[HeaderBlockShiftOffset],
		Key:         buf.U32LE(b[HeaderKeyOffset:]),
		ItemCount:   buf.U32LE(b[HeaderItemCountOffset:]),
		Checksum:    buf.U32LE(b[HeaderChecksumOffset:]),
		Layout:      layout,
	}
	h.RecordedSize = buf.UintLE(b[HeaderSizeFieldOffset:], layout.Width)
	h.FirstIndexNode = buf.UintLE(b[HeaderSizeFieldOffset+layout.Width:], layout.Width)

	switch h.ContentType {
	case ContentPAB, ContentPST, ContentOST:
	default:
		return Header{}, fmt.Errorf("file header: content type 0x%04x: %w", h.ContentType, ErrUnsupported)
	}
	if h.Encryption > EncryptionHigh {
		return Header{}, fmt.Errorf("file header: encryption type %d: %w", h.Encryption, ErrUnsupported)
	}
	if h.BlockShift < MinBlockShift || h.BlockShift > MaxBlockShift {
		return Header{}, fmt.Errorf("file header: block shift %d: %w", h.BlockShift, ErrInvalid)
	}
	if sum := HeaderChecksum(b); sum != h.Checksum {
		return Header{}, fmt.Errorf("file header: stored 0x%08x computed 0x%08x: %w", h.Checksum, sum, ErrChecksumMismatch)
	}
	return h, nil
}

// PutHeader serializes h into b (at least HeaderSize bytes) and stamps the
// checksum. The Checksum field of h is ignored.
func PutHeader(b []byte, h Header) error {
	if len(b) < HeaderSize {
		return fmt.Errorf("file header: %w", ErrTruncated)
	}
	clear(b[:HeaderSize])
	copy(b, FileSignature)
	binary.LittleEndian.PutUint16(b[HeaderContentTypeOffset:], h.ContentType)
	binary.LittleEndian.PutUint16(b[HeaderVersionOffset:], h.Version)
	b[HeaderEncryptionOffset] = h.Encryption
	b[HeaderBlockShiftOffset] = h.BlockShift
	binary.LittleEndian.PutUint32(b[HeaderKeyOffset:], h.Key)
	binary.LittleEndian.PutUint32(b[HeaderItemCountOffset:], h.ItemCount)
	w := h.Layout.Width
	if !buf.PutUintLE(b[HeaderSizeFieldOffset:], w, h.RecordedSize) ||
		!buf.PutUintLE(b[HeaderSizeFieldOffset+w:], w, h.FirstIndexNode) {
		return fmt.Errorf("file header: offsets exceed %d-byte width: %w", w, ErrInvalid)
	}
	binary.LittleEndian.PutUint32(b[HeaderChecksumOffset:], HeaderChecksum(b))
	return nil
}
