// Package format houses low-level decoders for the NK2 nickname cache file
// format. The goal is to keep the parsing focused, allocation-free where
// possible, and independent from the public API so higher-level packages can
// orchestrate the data in a more ergonomic form.
package format

var (
	// FileSignature is the four-byte signature at the start of every NK2 file.
	// Layout:
	//   0x00  0x0d 0xf0 0xad 0xba
	FileSignature = []byte{0x0d, 0xf0, 0xad, 0xba}

	// IndexNodeSignature identifies a node of the item index chain.
	IndexNodeSignature = []byte{'I', 'N'}

	// ItemSignature identifies an item (alias) record.
	ItemSignature = []byte{'I', 'T'}

	// DataBlockSignature identifies one link of a value data chain.
	DataBlockSignature = []byte{'D', 'B'}
)

const (
	// HeaderSize is the size of the file header in bytes, identical for both
	// layouts.
	HeaderSize = 0x40

	HeaderSignatureOffset   = 0x00
	HeaderContentTypeOffset = 0x04
	HeaderVersionOffset     = 0x06
	HeaderEncryptionOffset  = 0x08
	HeaderBlockShiftOffset  = 0x09
	HeaderKeyOffset         = 0x0c
	HeaderItemCountOffset   = 0x10
	HeaderChecksumOffset    = 0x14
	// HeaderSizeFieldOffset is where the width-dependent fields begin: the
	// recorded file size followed by the first index node offset.
	HeaderSizeFieldOffset = 0x18
)

// Format versions. The version selects the record layout.
const (
	Version32Legacy = 14
	Version32       = 15
	Version64       = 23
)

// Content types as stored at HeaderContentTypeOffset.
const (
	ContentPAB = uint16('A') | uint16('B')<<8
	ContentPST = uint16('S') | uint16('M')<<8
	ContentOST = uint16('S') | uint16('O')<<8
)

// Encryption type identifiers as stored at HeaderEncryptionOffset.
const (
	EncryptionNone         = 0
	EncryptionCompressible = 1
	EncryptionHigh         = 2
)

const (
	// MinBlockShift and MaxBlockShift bound the block size to 16 B .. 64 KiB.
	MinBlockShift = 4
	MaxBlockShift = 16

	// NodeHeaderBase is the width-independent prefix shared by index nodes
	// and data blocks: signature (2), count/flags (2), checksum/size (4).
	NodeHeaderBase = 8

	// ItemHeaderSize is the fixed item record header: signature, reserved,
	// entry count.
	ItemHeaderSize = 8

	// InlineValueSize is the size of the value field of a record entry.
	InlineValueSize = 8

	// DataBlockFlagZstd marks a data block whose stored payload is a zstd frame.
	DataBlockFlagZstd = 0x0001
)
