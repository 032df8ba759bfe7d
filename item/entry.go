package item

import (
	"github.com/joshuapare/nk2kit/pkg/codepage"
	"github.com/joshuapare/nk2kit/pkg/types"
)

// RecordEntry is one decoded property value. Its data is an owned copy and
// is never modified after construction.
//
// An entry whose payload could not be read or failed validation keeps the
// failure in Err, so a lookup can tell "present but corrupt" apart from
// "absent".
type RecordEntry struct {
	id       ValueIdentifier
	data     []byte
	codepage codepage.Codepage
	multi    *multiValue
	err      error
}

// NewRecordEntry copies data and validates it against the value type:
// fixed-size types must match their size exactly and multi-valued payloads
// must be well formed. Validation failures are stored, not returned.
func NewRecordEntry(id ValueIdentifier, data []byte, cp codepage.Codepage) *RecordEntry {
	e := &RecordEntry{
		id:       id,
		data:     append([]byte(nil), data...),
		codepage: cp,
	}
	e.err = e.validate()
	return e
}

// NewCorruptRecordEntry records an entry whose payload could not be read.
func NewCorruptRecordEntry(id ValueIdentifier, cause error) *RecordEntry {
	return &RecordEntry{id: id, err: cause}
}

func (e *RecordEntry) validate() error {
	vt := e.id.ValueType
	if vt.IsMultiValue() {
		mv, err := parseMultiValue(vt.Base(), e.data)
		if err != nil {
			return err
		}
		e.multi = mv
		return nil
	}
	if size, fixed := vt.FixedSize(); fixed && len(e.data) != size {
		return types.Set(nil, types.DomainInput, types.InputValueMismatch,
			"%s value has %d bytes, want %d", vt, len(e.data), size)
	}
	return nil
}

// Identifier returns the entry and value type pair.
func (e *RecordEntry) Identifier() ValueIdentifier { return e.id }

// EntryType returns the property identifier.
func (e *RecordEntry) EntryType() uint16 { return e.id.EntryType }

// ValueType returns the storage type.
func (e *RecordEntry) ValueType() types.ValueType { return e.id.ValueType }

// Codepage returns the codepage used for ASCII string values.
func (e *RecordEntry) Codepage() codepage.Codepage { return e.codepage }

// Err returns the stored decode error, or nil for a healthy entry.
func (e *RecordEntry) Err() error { return e.err }

// DataSize returns the length of the stored value bytes.
func (e *RecordEntry) DataSize() int { return len(e.data) }

// Data returns a copy of the stored value bytes.
func (e *RecordEntry) Data() ([]byte, error) {
	if e.err != nil {
		return nil, e.err
	}
	return append([]byte(nil), e.data...), nil
}
