package format

import (
	"encoding/binary"
	"fmt"

	"github.com/joshuapare/nk2kit/internal/buf"
)

// DataBlock is one link of a value data chain. Variable-size values are
// reassembled by concatenating the (decrypted, decompressed) payloads of the
// chain in order.
//
//	Offset  Size    Description
//	------  ------  --------------------------------------------------------
//	 0x00    2      "DB"
//	 0x02    2      Flags (0x0001 = payload is a zstd frame)
//	 0x04    4      Stored payload size
//	 0x08    W      Next data block offset (0 = last)
//	 0x08+W  stored Payload
type DataBlock struct {
	Flags      uint16
	StoredSize uint32
	Next       uint64
	// Payload aliases the input buffer.
	Payload []byte
}

// Compressed reports whether the payload is a zstd frame.
func (d DataBlock) Compressed() bool {
	return d.Flags&DataBlockFlagZstd != 0
}

// DataBlockSize returns the byte size of a block with the given payload size.
func DataBlockSize(l Layout, stored int) int {
	return l.NodeHeaderSize() + stored
}

// DecodeDataBlockHeader decodes the header only. Payload is nil.
func DecodeDataBlockHeader(b []byte, l Layout) (DataBlock, error) {
	if len(b) < l.NodeHeaderSize() {
		return DataBlock{}, fmt.Errorf("data block: %w", ErrTruncated)
	}
	if b[0] != DataBlockSignature[0] || b[1] != DataBlockSignature[1] {
		return DataBlock{}, fmt.Errorf("data block: %w", ErrSignatureMismatch)
	}
	flags := buf.U16LE(b[2:])
	if flags&^DataBlockFlagZstd != 0 {
		return DataBlock{}, fmt.Errorf("data block: flags 0x%04x: %w", flags, ErrUnsupported)
	}
	return DataBlock{
		Flags:      flags,
		StoredSize: buf.U32LE(b[4:]),
		Next:       buf.UintLE(b[NodeHeaderBase:], l.Width),
	}, nil
}

// DecodeDataBlock decodes a full block including its payload.
func DecodeDataBlock(b []byte, l Layout) (DataBlock, error) {
	d, err := DecodeDataBlockHeader(b, l)
	if err != nil {
		return DataBlock{}, err
	}
	payload, ok := buf.Slice(b, l.NodeHeaderSize(), int(d.StoredSize))
	if !ok {
		return DataBlock{}, fmt.Errorf("data block: payload of %d bytes: %w", d.StoredSize, ErrTruncated)
	}
	d.Payload = payload
	return d, nil
}

// PutDataBlock serializes d into b, which must hold DataBlockSize bytes.
// StoredSize is taken from len(d.Payload).
func PutDataBlock(b []byte, l Layout, d DataBlock) error {
	if len(b) < DataBlockSize(l, len(d.Payload)) {
		return fmt.Errorf("data block: %w", ErrTruncated)
	}
	copy(b, DataBlockSignature)
	binary.LittleEndian.PutUint16(b[2:], d.Flags)
	binary.LittleEndian.PutUint32(b[4:], uint32(len(d.Payload)))
	if !buf.PutUintLE(b[NodeHeaderBase:], l.Width, d.Next) {
		return fmt.Errorf("data block: next offset: %w", ErrInvalid)
	}
	copy(b[l.NodeHeaderSize():], d.Payload)
	return nil
}
