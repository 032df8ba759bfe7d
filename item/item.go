package item

import (
	"github.com/joshuapare/nk2kit/pkg/codepage"
	"github.com/joshuapare/nk2kit/pkg/types"
)

// Item is one alias record: its entries in disk order plus an identifier
// index. Items are immutable.
type Item struct {
	offset   uint64
	entries  []*RecordEntry
	index    map[ValueIdentifier]int
	codepage codepage.Codepage
}

// New builds an item from decoded entries. Each identifier may occur only
// once.
func New(offset uint64, entries []*RecordEntry, cp codepage.Codepage) (*Item, error) {
	it := &Item{
		offset:   offset,
		entries:  make([]*RecordEntry, 0, len(entries)),
		index:    make(map[ValueIdentifier]int, len(entries)),
		codepage: cp,
	}
	for i, e := range entries {
		if e == nil {
			return nil, types.Set(nil, types.DomainArguments, types.ArgumentInvalidValue,
				"entry %d is nil", i)
		}
		if prev, dup := it.index[e.id]; dup {
			return nil, types.Set(nil, types.DomainRuntime, types.RuntimeValueAlreadySet,
				"entry %d duplicates %s of entry %d", i, e.id, prev)
		}
		it.index[e.id] = i
		it.entries = append(it.entries, e)
	}
	return it, nil
}

// Offset returns the file offset of the item record.
func (it *Item) Offset() uint64 { return it.offset }

// Codepage returns the codepage used for ASCII strings of this item.
func (it *Item) Codepage() codepage.Codepage { return it.codepage }

// NumberOfEntries returns the number of record entries.
func (it *Item) NumberOfEntries() int { return len(it.entries) }

// Entries returns the entries in disk order. The slice is a copy; the
// entries themselves are shared and immutable.
func (it *Item) Entries() []*RecordEntry {
	return append([]*RecordEntry(nil), it.entries...)
}

func (it *Item) checkIndex(i int) error {
	if i < 0 || i >= len(it.entries) {
		return types.Set(nil, types.DomainArguments, types.ArgumentValueOutOfBounds,
			"entry index %d out of bounds [0, %d)", i, len(it.entries))
	}
	return nil
}

// EntryType returns the identifier of entry i.
func (it *Item) EntryType(i int) (ValueIdentifier, error) {
	if err := it.checkIndex(i); err != nil {
		return ValueIdentifier{}, err
	}
	return it.entries[i].id, nil
}

// Entry returns entry i, including corrupt entries (check Err).
func (it *Item) Entry(i int) (*RecordEntry, error) {
	if err := it.checkIndex(i); err != nil {
		return nil, err
	}
	return it.entries[i], nil
}

// Lookup returns the entry with exactly the identifier id.
func (it *Item) Lookup(id ValueIdentifier) (*RecordEntry, bool) {
	i, ok := it.index[id]
	if !ok {
		return nil, false
	}
	return it.entries[i], true
}

// EntryValue finds the entry for entryType.
//
// A zero valueType, or the EntryMatchAnyValueType flag, returns the first
// entry with the entry type in disk order. Otherwise the value type must
// match, except that a request for a string type is served by the other
// string type, converted through the item codepage.
//
// The result is (entry, true, nil) when found, (nil, false, nil) when absent
// and (nil, false, err) when the matching entry is corrupt or cannot be
// converted.
func (it *Item) EntryValue(entryType uint16, valueType types.ValueType, flags types.EntryValueFlags) (*RecordEntry, bool, error) {
	if valueType == types.ValueTypeUnspecified || flags&types.EntryMatchAnyValueType != 0 {
		for _, e := range it.entries {
			if e.id.EntryType == entryType {
				return it.found(e)
			}
		}
		return nil, false, nil
	}

	if e, ok := it.Lookup(NewValueIdentifier(entryType, valueType)); ok {
		return it.found(e)
	}

	alt, ok := alternateStringType(valueType)
	if !ok {
		return nil, false, nil
	}
	e, ok := it.Lookup(NewValueIdentifier(entryType, alt))
	if !ok {
		return nil, false, nil
	}
	if _, _, err := it.found(e); err != nil {
		return nil, false, err
	}
	converted, err := reencode(e, valueType, it.codepage)
	if err != nil {
		return nil, false, types.Set(err, types.DomainRuntime, types.RuntimeGetFailed,
			"unable to convert %s to %s", e.id, valueType)
	}
	return converted, true, nil
}

func (it *Item) found(e *RecordEntry) (*RecordEntry, bool, error) {
	if e.err != nil {
		return nil, false, types.Set(e.err, types.DomainRuntime, types.RuntimeGetFailed,
			"unable to retrieve %s of item at offset 0x%x", e.id, it.offset)
	}
	return e, true, nil
}

// EntryValueData is EntryValue returning an owned copy of the value bytes.
// String values include their terminator.
func (it *Item) EntryValueData(entryType uint16, valueType types.ValueType, flags types.EntryValueFlags) ([]byte, bool, error) {
	e, found, err := it.EntryValue(entryType, valueType, flags)
	if err != nil || !found {
		return nil, found, err
	}
	data, err := e.Data()
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}
