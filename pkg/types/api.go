package types

import (
	"fmt"
	"log/slog"
)

// -----------------------------------------------------------------------------
// Value Types (MAPI property type numbering)
// -----------------------------------------------------------------------------

// ValueType enumerates the property value types stored in record entries.
// (The numbers align with the MAPI PT_* definitions.)
type ValueType uint16

const (
	ValueTypeUnspecified   ValueType = 0x0000
	ValueTypeNull          ValueType = 0x0001
	ValueTypeInteger16     ValueType = 0x0002
	ValueTypeInteger32     ValueType = 0x0003
	ValueTypeFloat32       ValueType = 0x0004
	ValueTypeFloat64       ValueType = 0x0005
	ValueTypeCurrency      ValueType = 0x0006
	ValueTypeAppTime       ValueType = 0x0007
	ValueTypeError         ValueType = 0x000a
	ValueTypeBoolean       ValueType = 0x000b
	ValueTypeObject        ValueType = 0x000d
	ValueTypeInteger64     ValueType = 0x0014
	ValueTypeASCIIString   ValueType = 0x001e
	ValueTypeUnicodeString ValueType = 0x001f
	ValueTypeFiletime      ValueType = 0x0040
	ValueTypeGUID          ValueType = 0x0048
	ValueTypeServerID      ValueType = 0x00fb
	ValueTypeRestriction   ValueType = 0x00fd
	ValueTypeRuleAction    ValueType = 0x00fe
	ValueTypeBinary        ValueType = 0x0102

	// ValueTypeMultiValueFlag marks the multi-valued variant of a base type.
	ValueTypeMultiValueFlag ValueType = 0x1000

	ValueTypeMultiInteger16     = ValueTypeMultiValueFlag | ValueTypeInteger16
	ValueTypeMultiInteger32     = ValueTypeMultiValueFlag | ValueTypeInteger32
	ValueTypeMultiFloat32       = ValueTypeMultiValueFlag | ValueTypeFloat32
	ValueTypeMultiFloat64       = ValueTypeMultiValueFlag | ValueTypeFloat64
	ValueTypeMultiCurrency      = ValueTypeMultiValueFlag | ValueTypeCurrency
	ValueTypeMultiAppTime       = ValueTypeMultiValueFlag | ValueTypeAppTime
	ValueTypeMultiInteger64     = ValueTypeMultiValueFlag | ValueTypeInteger64
	ValueTypeMultiASCIIString   = ValueTypeMultiValueFlag | ValueTypeASCIIString
	ValueTypeMultiUnicodeString = ValueTypeMultiValueFlag | ValueTypeUnicodeString
	ValueTypeMultiFiletime      = ValueTypeMultiValueFlag | ValueTypeFiletime
	ValueTypeMultiGUID          = ValueTypeMultiValueFlag | ValueTypeGUID
	ValueTypeMultiBinary        = ValueTypeMultiValueFlag | ValueTypeBinary
)

var valueTypeNames = map[ValueType]string{
	ValueTypeUnspecified:   "PT_UNSPECIFIED",
	ValueTypeNull:          "PT_NULL",
	ValueTypeInteger16:     "PT_I2",
	ValueTypeInteger32:     "PT_LONG",
	ValueTypeFloat32:       "PT_FLOAT",
	ValueTypeFloat64:       "PT_DOUBLE",
	ValueTypeCurrency:      "PT_CURRENCY",
	ValueTypeAppTime:       "PT_APPTIME",
	ValueTypeError:         "PT_ERROR",
	ValueTypeBoolean:       "PT_BOOLEAN",
	ValueTypeObject:        "PT_OBJECT",
	ValueTypeInteger64:     "PT_I8",
	ValueTypeASCIIString:   "PT_STRING8",
	ValueTypeUnicodeString: "PT_UNICODE",
	ValueTypeFiletime:      "PT_SYSTIME",
	ValueTypeGUID:          "PT_CLSID",
	ValueTypeServerID:      "PT_SVREID",
	ValueTypeRestriction:   "PT_SRESTRICT",
	ValueTypeRuleAction:    "PT_ACTIONS",
	ValueTypeBinary:        "PT_BINARY",
}

// String implements the Stringer interface for ValueType
func (t ValueType) String() string {
	if name, ok := valueTypeNames[t]; ok {
		return name
	}
	if t.IsMultiValue() {
		if name, ok := valueTypeNames[t.Base()]; ok {
			return "PT_MV_" + name[len("PT_"):]
		}
	}
	return fmt.Sprintf("UNKNOWN_TYPE_0x%04x", uint16(t))
}

// IsMultiValue reports whether the multi-value flag is set.
func (t ValueType) IsMultiValue() bool {
	return t&ValueTypeMultiValueFlag != 0
}

// Base returns the type with the multi-value flag cleared.
func (t ValueType) Base() ValueType {
	return t &^ ValueTypeMultiValueFlag
}

// IsString reports whether the (base) type is an ASCII or Unicode string.
func (t ValueType) IsString() bool {
	b := t.Base()
	return b == ValueTypeASCIIString || b == ValueTypeUnicodeString
}

// FixedSize returns the exact on-disk size of a single value of the base type
// and true, or 0 and false when the type carries a variable-size payload.
func (t ValueType) FixedSize() (int, bool) {
	switch t.Base() {
	case ValueTypeNull:
		return 0, true
	case ValueTypeInteger16, ValueTypeBoolean:
		return 2, true
	case ValueTypeInteger32, ValueTypeFloat32, ValueTypeError:
		return 4, true
	case ValueTypeInteger64, ValueTypeFloat64, ValueTypeCurrency, ValueTypeAppTime, ValueTypeFiletime:
		return 8, true
	case ValueTypeGUID:
		return 16, true
	default:
		return 0, false
	}
}

// IsInline reports whether a value of this type is stored inside the 8-byte
// value field of its record entry rather than in data blocks.
func (t ValueType) IsInline() bool {
	if t.IsMultiValue() {
		return false
	}
	size, fixed := t.FixedSize()
	return fixed && size <= 8
}

// -----------------------------------------------------------------------------
// Well-known entry types (display only; the parser does not interpret them)
// -----------------------------------------------------------------------------

const (
	EntryInstanceKey         uint16 = 0x0ff6
	EntryObjectType          uint16 = 0x0ffe
	EntryEntryID             uint16 = 0x0fff
	EntryDisplayName         uint16 = 0x3001
	EntryAddressType         uint16 = 0x3002
	EntryEmailAddress        uint16 = 0x3003
	EntrySearchKey           uint16 = 0x300b
	EntryDisplayType         uint16 = 0x3900
	EntrySMTPAddress         uint16 = 0x39fe
	EntryNickname            uint16 = 0x3a4f
	EntryNicknameWeight      uint16 = 0x6001
	EntryDropdownDisplayName uint16 = 0x6002
)

var entryTypeNames = map[uint16]string{
	EntryInstanceKey:         "PR_INSTANCE_KEY",
	EntryObjectType:          "PR_OBJECT_TYPE",
	EntryEntryID:             "PR_ENTRYID",
	EntryDisplayName:         "PR_DISPLAY_NAME",
	EntryAddressType:         "PR_ADDRTYPE",
	EntryEmailAddress:        "PR_EMAIL_ADDRESS",
	EntrySearchKey:           "PR_SEARCH_KEY",
	EntryDisplayType:         "PR_DISPLAY_TYPE",
	EntrySMTPAddress:         "PR_SMTP_ADDRESS",
	EntryNickname:            "PR_NICKNAME",
	EntryNicknameWeight:      "PR_NICK_NAME_WEIGHT",
	EntryDropdownDisplayName: "PR_DROPDOWN_DISPLAY_NAME",
}

// EntryTypeName returns the conventional name of a well-known entry type, or
// its hexadecimal form.
func EntryTypeName(entryType uint16) string {
	if name, ok := entryTypeNames[entryType]; ok {
		return name
	}
	return fmt.Sprintf("0x%04x", entryType)
}

// EntryValueFlags adjust how Item.EntryValue matches entries.
type EntryValueFlags uint8

const (
	// EntryMatchAnyValueType ignores a non-zero requested value type and
	// returns the first entry with a matching entry type.
	EntryMatchAnyValueType EntryValueFlags = 1 << iota
)

// -----------------------------------------------------------------------------
// File metadata
// -----------------------------------------------------------------------------

// ContentType identifies what kind of store produced the file.
type ContentType uint16

const (
	ContentTypeUnknown ContentType = 0
	ContentTypePAB     ContentType = 'A' | 'B'<<8 // personal address book
	ContentTypePST     ContentType = 'S' | 'M'<<8 // personal storage table
	ContentTypeOST     ContentType = 'S' | 'O'<<8 // offline storage table
)

func (c ContentType) String() string {
	switch c {
	case ContentTypePAB:
		return "PAB"
	case ContentTypePST:
		return "PST"
	case ContentTypeOST:
		return "OST"
	default:
		return fmt.Sprintf("UNKNOWN_CONTENT_0x%04x", uint16(c))
	}
}

// FileType is the on-disk record layout width.
type FileType uint8

const (
	FileTypeUnknown FileType = 0
	FileType32Bit   FileType = 32
	FileType64Bit   FileType = 64
)

func (t FileType) String() string {
	switch t {
	case FileType32Bit:
		return "32-bit"
	case FileType64Bit:
		return "64-bit"
	default:
		return "unknown"
	}
}

// EncryptionType selects the byte-substitution transform applied to stored
// property bytes.
type EncryptionType uint8

const (
	EncryptionNone         EncryptionType = 0
	EncryptionCompressible EncryptionType = 1
	EncryptionHigh         EncryptionType = 2
)

func (e EncryptionType) String() string {
	switch e {
	case EncryptionNone:
		return "none"
	case EncryptionCompressible:
		return "compressible"
	case EncryptionHigh:
		return "high"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(e))
	}
}

// EncryptionValues pairs the encryption type with its key.
type EncryptionValues struct {
	Type EncryptionType
	Key  uint32
}

// FileInfo summarizes the validated file header.
type FileInfo struct {
	ContentType  ContentType    `json:"content_type"`
	Type         FileType       `json:"type"`
	Version      uint16         `json:"version"`
	Encryption   EncryptionType `json:"encryption"`
	BlockSize    uint32         `json:"block_size"`
	Size         uint64         `json:"size"`
	RecordedSize uint64         `json:"recorded_size"`
	ItemCount    int            `json:"item_count"`
}

// BlockKind selects which live structures define allocation for an
// unallocated-block scan.
type BlockKind uint8

const (
	BlockKindIndexNode BlockKind = iota // header, index nodes, item records
	BlockKindData                       // header, data blocks
)

func (k BlockKind) String() string {
	switch k {
	case BlockKindIndexNode:
		return "index-node"
	case BlockKindData:
		return "data"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// UnallocatedBlock is a byte range not referenced by any live structure of a
// given kind.
type UnallocatedBlock struct {
	Offset uint64 `json:"offset"`
	Size   uint64 `json:"size"`
}

// End returns the exclusive end offset.
func (b UnallocatedBlock) End() uint64 { return b.Offset + b.Size }

// -----------------------------------------------------------------------------
// Options
// -----------------------------------------------------------------------------

// DefaultCodepage is used when OpenOptions.Codepage is zero (Windows-1252).
const DefaultCodepage = 1252

// DefaultMaxValueSize bounds reassembled variable-size values.
const DefaultMaxValueSize = 64 << 20

// OpenOptions controls safety/diagnostic tradeoffs for opening a file.
type OpenOptions struct {
	// Codepage is the codepage used for ASCII-family strings. Zero selects
	// DefaultCodepage. An unsupported value falls back to DefaultCodepage
	// with a warning rather than failing the open.
	Codepage int

	// Tolerant enables best-effort traversal on mild inconsistencies where
	// recovery is possible (bounds are still enforced). A corrupt index node
	// ends the index walk instead of failing the open.
	Tolerant bool

	// MaxValueSize guards against absurd/malicious value sizes.
	// Zero selects DefaultMaxValueSize.
	MaxValueSize int

	// CollectDiagnostics enables passive diagnostic collection. Issues
	// encountered while opening, materializing items and scanning for
	// unallocated blocks are recorded and can be retrieved via Diagnostics().
	CollectDiagnostics bool

	// Logger receives debug and warning records. Nil discards them.
	Logger *slog.Logger
}
