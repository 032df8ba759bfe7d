package format

import (
	"encoding/binary"
	"fmt"

	"github.com/joshuapare/nk2kit/internal/buf"
)

// RecordEntry is one raw property of an item record. Value holds the inline
// bytes of small fixed-size values, or the offset of the first data block.
//
// 32-bit (16 bytes):
//
//	0x00 value type u16 | 0x02 entry type u16 | 0x04 size u32 | 0x08 value [8]
//
// 64-bit (24 bytes):
//
//	0x00 value type u16 | 0x02 entry type u16 | 0x04 reserved u32 |
//	0x08 size u64 | 0x10 value [8]
type RecordEntry struct {
	ValueType uint16
	EntryType uint16
	Size      uint64
	Value     [InlineValueSize]byte
}

// ValueOffset interprets the value field as a data block offset.
func (e RecordEntry) ValueOffset(l Layout) uint64 {
	return buf.UintLE(e.Value[:], l.Width)
}

// ItemRecord is an item (alias) record.
//
//	Offset  Size  Description
//	------  ----  ----------------------------------------------------------
//	 0x00    2    "IT"
//	 0x02    2    Reserved
//	 0x04    4    Number of record entries m
//	 0x08    m*R  Record entries (R = Layout.RecordEntrySize)
type ItemRecord struct {
	Entries []RecordEntry
}

// ItemRecordSize returns the byte size of an item record with m entries.
func ItemRecordSize(l Layout, m int) int {
	return ItemHeaderSize + m*l.RecordEntrySize
}

// ItemEntryCount peeks at the entry count stored in an item record header.
func ItemEntryCount(b []byte) (uint32, error) {
	if len(b) < ItemHeaderSize {
		return 0, fmt.Errorf("item record: %w", ErrTruncated)
	}
	if b[0] != ItemSignature[0] || b[1] != ItemSignature[1] {
		return 0, fmt.Errorf("item record: %w", ErrSignatureMismatch)
	}
	return buf.U32LE(b[4:]), nil
}

// DecodeItemRecord decodes an item record and its raw entries. Entry payloads
// are not resolved here.
func DecodeItemRecord(b []byte, l Layout) (ItemRecord, error) {
	m, err := ItemEntryCount(b)
	if err != nil {
		return ItemRecord{}, err
	}
	if _, err := buf.CheckListBounds(len(b), ItemHeaderSize, int(m), l.RecordEntrySize); err != nil {
		return ItemRecord{}, fmt.Errorf("item record: %w: %w", ErrTruncated, err)
	}
	rec := ItemRecord{Entries: make([]RecordEntry, m)}
	for i := range rec.Entries {
		p := b[ItemHeaderSize+i*l.RecordEntrySize:]
		e := RecordEntry{
			ValueType: buf.U16LE(p),
			EntryType: buf.U16LE(p[2:]),
		}
		if l.Width == 8 {
			e.Size = buf.U64LE(p[8:])
			copy(e.Value[:], p[16:24])
		} else {
			e.Size = uint64(buf.U32LE(p[4:]))
			copy(e.Value[:], p[8:16])
		}
		rec.Entries[i] = e
	}
	return rec, nil
}

// PutItemRecord serializes rec into b, which must hold ItemRecordSize bytes.
func PutItemRecord(b []byte, l Layout, rec ItemRecord) error {
	m := len(rec.Entries)
	if len(b) < ItemRecordSize(l, m) {
		return fmt.Errorf("item record: %w", ErrTruncated)
	}
	copy(b, ItemSignature)
	binary.LittleEndian.PutUint16(b[2:], 0)
	binary.LittleEndian.PutUint32(b[4:], uint32(m))
	for i, e := range rec.Entries {
		p := b[ItemHeaderSize+i*l.RecordEntrySize:]
		binary.LittleEndian.PutUint16(p, e.ValueType)
		binary.LittleEndian.PutUint16(p[2:], e.EntryType)
		if l.Width == 8 {
			binary.LittleEndian.PutUint32(p[4:], 0)
			binary.LittleEndian.PutUint64(p[8:], e.Size)
			copy(p[16:24], e.Value[:])
			continue
		}
		if e.Size > 0xffffffff {
			return fmt.Errorf("item record: entry %d size %d: %w", i, e.Size, ErrInvalid)
		}
		binary.LittleEndian.PutUint32(p[4:], uint32(e.Size))
		copy(p[8:16], e.Value[:])
	}
	return nil
}
