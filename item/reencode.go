package item

import (
	"github.com/joshuapare/nk2kit/pkg/codepage"
	"github.com/joshuapare/nk2kit/pkg/types"
)

// alternateStringType maps each string type to its other encoding.
func alternateStringType(vt types.ValueType) (types.ValueType, bool) {
	switch vt {
	case types.ValueTypeASCIIString:
		return types.ValueTypeUnicodeString, true
	case types.ValueTypeUnicodeString:
		return types.ValueTypeASCIIString, true
	case types.ValueTypeMultiASCIIString:
		return types.ValueTypeMultiUnicodeString, true
	case types.ValueTypeMultiUnicodeString:
		return types.ValueTypeMultiASCIIString, true
	default:
		return 0, false
	}
}

// convertString re-encodes one terminated string between codepage bytes and
// UTF-16LE. The result carries a terminator of the target encoding.
func convertString(data []byte, from, to types.ValueType, cp codepage.Codepage) ([]byte, error) {
	var (
		s   string
		err error
	)
	if from == types.ValueTypeUnicodeString {
		s, err = codepage.DecodeUTF16(data)
	} else {
		s, err = codepage.Decode(cp, data)
	}
	if err != nil {
		return nil, err
	}

	if to == types.ValueTypeUnicodeString {
		n, err := codepage.UTF16StreamSize(s)
		if err != nil {
			return nil, err
		}
		out := make([]byte, n)
		if _, err := codepage.CopyToUTF16Stream(out, s); err != nil {
			return nil, err
		}
		return out, nil
	}
	n, err := codepage.ByteStreamSize(cp, s)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	if _, err := codepage.CopyToByteStream(cp, out, s); err != nil {
		return nil, err
	}
	return out, nil
}

// reencode converts a string or multi-string entry to the target type.
func reencode(e *RecordEntry, target types.ValueType, cp codepage.Codepage) (*RecordEntry, error) {
	id := NewValueIdentifier(e.id.EntryType, target)
	if !target.IsMultiValue() {
		data, err := convertString(e.data, e.id.ValueType, target, cp)
		if err != nil {
			return nil, err
		}
		return NewRecordEntry(id, data, cp), nil
	}

	elems := make([][]byte, 0, len(e.multi.bounds))
	for i, b := range e.multi.bounds {
		data, err := convertString(e.data[b[0]:b[1]], e.id.ValueType.Base(), target.Base(), cp)
		if err != nil {
			return nil, types.Set(err, types.DomainConversion, types.ConversionOutputFailed,
				"element %d", i)
		}
		elems = append(elems, data)
	}
	return NewRecordEntry(id, packMultiValue(elems), cp), nil
}
