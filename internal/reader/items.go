package reader

import (
	"github.com/joshuapare/nk2kit/internal/format"
	"github.com/joshuapare/nk2kit/internal/stream"
	"github.com/joshuapare/nk2kit/item"
	"github.com/joshuapare/nk2kit/pkg/codepage"
	"github.com/joshuapare/nk2kit/pkg/types"
)

// Item materializes item i. The returned Item holds copies of all entry data
// and remains valid after Close. A corrupt entry does not fail the item; it
// is kept with its error (see item.RecordEntry.Err).
func (f *File) Item(i int) (*item.Item, error) {
	if err := f.ensureOpen(); err != nil {
		return nil, err
	}
	if i < 0 || i >= len(f.items) {
		return nil, types.Set(nil, types.DomainArguments, types.ArgumentValueOutOfBounds,
			"item index %d out of bounds [0, %d)", i, len(f.items))
	}
	ref := f.items[i]
	cp := f.codepage

	rec, err := f.readItemRecord(f.s, ref)
	if err != nil {
		f.diagnostics.record(types.Diagnostic{
			Severity:  types.SevError,
			Category:  types.DiagStructure,
			Offset:    ref.offset,
			Structure: "ITEM",
			Issue:     err.Error(),
			Item:      i,
		})
		return nil, types.Set(err, types.DomainRuntime, types.RuntimeGetFailed,
			"unable to retrieve item %d", i)
	}

	entries := make([]*item.RecordEntry, len(rec.Entries))
	for j, raw := range rec.Entries {
		entries[j] = f.decodeEntry(f.s, raw, cp, i, ref.offset)
	}
	it, err := item.New(ref.offset, entries, cp)
	if err != nil {
		return nil, types.Set(err, types.DomainRuntime, types.RuntimeInitializeFailed,
			"unable to create item %d", i)
	}
	return it, nil
}

func (f *File) readItemRecord(s stream.Stream, ref itemRef) (format.ItemRecord, error) {
	l := f.layout
	hdr, err := stream.ReadFull(s, int64(ref.offset), format.ItemHeaderSize)
	if err != nil {
		return format.ItemRecord{}, wrapReadErr(err, "unable to read item record at 0x%x", ref.offset)
	}
	count, err := format.ItemEntryCount(hdr)
	if err != nil {
		return format.ItemRecord{}, wrapFormatErr(err, "unable to read item record at 0x%x", ref.offset)
	}
	if count != ref.entryCount {
		return format.ItemRecord{}, types.Set(nil, types.DomainInput, types.InputValueMismatch,
			"item record at 0x%x holds %d entries, index records %d", ref.offset, count, ref.entryCount)
	}
	b, err := stream.ReadFull(s, int64(ref.offset), format.ItemRecordSize(l, int(count)))
	if err != nil {
		return format.ItemRecord{}, wrapReadErr(err, "unable to read item record at 0x%x", ref.offset)
	}
	rec, err := format.DecodeItemRecord(b, l)
	if err != nil {
		return format.ItemRecord{}, wrapFormatErr(err, "unable to decode item record at 0x%x", ref.offset)
	}
	return rec, nil
}

func (f *File) decodeEntry(s stream.Stream, raw format.RecordEntry, cp codepage.Codepage, itemIndex int, itemOff uint64) *item.RecordEntry {
	id := item.NewValueIdentifier(raw.EntryType, types.ValueType(raw.ValueType))
	data, err := f.entryData(s, raw)
	if err != nil {
		err = types.Set(err, types.DomainRuntime, types.RuntimeGetFailed,
			"unable to read value data of %s", id)
		f.diagnostics.record(diagData(types.SevError, itemOff, itemIndex, err.Error()))
		f.log.Debug("corrupt entry", "item", itemIndex, "entry", id.String(), "error", err)
		return item.NewCorruptRecordEntry(id, err)
	}
	e := item.NewRecordEntry(id, data, cp)
	if e.Err() != nil {
		f.diagnostics.record(diagData(types.SevWarning, itemOff, itemIndex, e.Err().Error()))
	}
	return e
}

// entryData returns the plain value bytes of a raw entry.
func (f *File) entryData(s stream.Stream, raw format.RecordEntry) ([]byte, error) {
	vt := types.ValueType(raw.ValueType)
	if vt.IsInline() {
		if raw.Size > format.InlineValueSize {
			return nil, invalidData("inline %s value declares %d bytes", vt, raw.Size)
		}
		data := append([]byte(nil), raw.Value[:raw.Size]...)
		format.Decrypt(data, f.header.Encryption, f.header.Key)
		return data, nil
	}
	if raw.Size == 0 {
		return []byte{}, nil
	}
	return f.readChain(s, raw.ValueOffset(f.layout), raw.Size)
}
