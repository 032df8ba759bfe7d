package nk2

import (
	"github.com/joshuapare/nk2kit/internal/reader"
	"github.com/joshuapare/nk2kit/item"
	"github.com/joshuapare/nk2kit/pkg/types"
)

// Re-export commonly used types so users only need to import pkg/nk2.

// Core types.
type (
	File            = reader.File
	Item            = item.Item
	RecordEntry     = item.RecordEntry
	ValueIdentifier = item.ValueIdentifier
)

// Metadata types.
type (
	ContentType      = types.ContentType
	FileType         = types.FileType
	FileInfo         = types.FileInfo
	EncryptionType   = types.EncryptionType
	EncryptionValues = types.EncryptionValues
	BlockKind        = types.BlockKind
	UnallocatedBlock = types.UnallocatedBlock
	ValueType        = types.ValueType
	EntryValueFlags  = types.EntryValueFlags
)

// Diagnostic types.
type (
	Severity         = types.Severity
	DiagCategory     = types.DiagCategory
	Diagnostic       = types.Diagnostic
	DiagnosticReport = types.DiagnosticReport
)

// OpenOptions controls how a file is opened.
type OpenOptions = types.OpenOptions

// Error is one frame of an error chain.
type Error = types.Error

// Block kinds.
const (
	BlockKindIndexNode = types.BlockKindIndexNode
	BlockKindData      = types.BlockKindData
)

// Frequently used value types.
const (
	ValueTypeInteger16     = types.ValueTypeInteger16
	ValueTypeInteger32     = types.ValueTypeInteger32
	ValueTypeInteger64     = types.ValueTypeInteger64
	ValueTypeBoolean       = types.ValueTypeBoolean
	ValueTypeFiletime      = types.ValueTypeFiletime
	ValueTypeGUID          = types.ValueTypeGUID
	ValueTypeASCIIString   = types.ValueTypeASCIIString
	ValueTypeUnicodeString = types.ValueTypeUnicodeString
	ValueTypeBinary        = types.ValueTypeBinary
)

// Well-known entry types.
const (
	EntryDisplayName  = types.EntryDisplayName
	EntryAddressType  = types.EntryAddressType
	EntryEmailAddress = types.EntryEmailAddress
	EntrySMTPAddress  = types.EntrySMTPAddress
	EntryNickname     = types.EntryNickname
	EntrySearchKey    = types.EntrySearchKey
	EntryEntryID      = types.EntryEntryID
)

// EntryMatchAnyValueType makes EntryValue ignore the requested value type.
const EntryMatchAnyValueType = types.EntryMatchAnyValueType

// Error sentinels for errors.Is.
var (
	ErrOutOfBounds       = types.ErrOutOfBounds
	ErrInvalidData       = types.ErrInvalidData
	ErrSignatureMismatch = types.ErrSignatureMismatch
	ErrChecksumMismatch  = types.ErrChecksumMismatch
	ErrValueMissing      = types.ErrValueMissing
	ErrDecompressFailed  = types.ErrDecompressFailed
)
