package main

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joshuapare/nk2kit/pkg/nk2"
	"github.com/joshuapare/nk2kit/pkg/types"
)

// entryView is the printable form of one record entry.
type entryView struct {
	EntryType   string `json:"entry_type"`
	EntryTypeID uint16 `json:"entry_type_id"`
	ValueType   string `json:"value_type"`
	Size        int    `json:"size"`
	Value       string `json:"value,omitempty"`
	Error       string `json:"error,omitempty"`
}

// itemView is the printable form of one item.
type itemView struct {
	Index   int         `json:"index"`
	Offset  uint64      `json:"offset"`
	Name    string      `json:"display_name,omitempty"`
	Address string      `json:"email_address,omitempty"`
	Entries []entryView `json:"entries,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func viewEntry(e *nk2.RecordEntry) entryView {
	v := entryView{
		EntryType:   types.EntryTypeName(e.EntryType()),
		EntryTypeID: e.EntryType(),
		ValueType:   e.ValueType().String(),
		Size:        e.DataSize(),
	}
	s, err := formatValue(e)
	if err != nil {
		v.Error = err.Error()
		return v
	}
	v.Value = s
	return v
}

func viewItem(index int, it *nk2.Item, entries bool) itemView {
	v := itemView{
		Index:   index,
		Offset:  it.Offset(),
		Name:    itemString(it, nk2.EntryDisplayName),
		Address: itemString(it, nk2.EntryEmailAddress),
	}
	if v.Address == "" {
		v.Address = itemString(it, nk2.EntrySMTPAddress)
	}
	if entries {
		for _, e := range it.Entries() {
			v.Entries = append(v.Entries, viewEntry(e))
		}
	}
	return v
}

// itemString returns the string value of entryType in either string type, or
// "" when it is absent or unreadable.
func itemString(it *nk2.Item, entryType uint16) string {
	e, found, err := it.EntryValue(entryType, nk2.ValueTypeUnicodeString, 0)
	if err != nil || !found {
		return ""
	}
	s, err := e.UTF8String()
	if err != nil {
		return ""
	}
	return s
}

// formatValue renders a value for display.
func formatValue(e *nk2.RecordEntry) (string, error) {
	if err := e.Err(); err != nil {
		return "", err
	}
	vt := e.ValueType()
	if vt.IsMultiValue() {
		n, err := e.MultiValueCount()
		if err != nil {
			return "", err
		}
		parts := make([]string, 0, n)
		for i := range n {
			el, err := e.MultiValue(i)
			if err != nil {
				return "", err
			}
			s, err := formatValue(el)
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		return "[" + strings.Join(parts, "; ") + "]", nil
	}

	switch vt {
	case types.ValueTypeNull:
		return "", nil
	case types.ValueTypeBoolean:
		b, err := e.Boolean()
		return strconv.FormatBool(b), err
	case types.ValueTypeInteger16:
		n, err := e.Int16()
		return strconv.FormatInt(int64(n), 10), err
	case types.ValueTypeInteger32:
		n, err := e.Int32()
		return strconv.FormatInt(int64(n), 10), err
	case types.ValueTypeError:
		n, err := e.Int32()
		return fmt.Sprintf("0x%08x", uint32(n)), err
	case types.ValueTypeInteger64:
		n, err := e.Int64()
		return strconv.FormatInt(n, 10), err
	case types.ValueTypeCurrency:
		n, err := e.Int64()
		return strconv.FormatFloat(float64(n)/10000, 'f', 4, 64), err
	case types.ValueTypeFloat32:
		f, err := e.Float32()
		return strconv.FormatFloat(float64(f), 'g', -1, 32), err
	case types.ValueTypeFloat64, types.ValueTypeAppTime:
		f, err := e.Float64()
		return strconv.FormatFloat(f, 'g', -1, 64), err
	case types.ValueTypeFiletime:
		t, err := e.Filetime()
		return t.Format(time.RFC3339Nano), err
	case types.ValueTypeGUID:
		u, err := e.GUID()
		return "{" + u.String() + "}", err
	case types.ValueTypeASCIIString, types.ValueTypeUnicodeString:
		return e.UTF8String()
	default:
		data, err := e.Data()
		return hex.EncodeToString(data), err
	}
}

// sanitizeFilename replaces control characters and characters that are not
// portable in file names with '_'.
func sanitizeFilename(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if r < 0x20 || r == 0x7f || strings.ContainsRune(`!$%&*+/:;<>?@\~`, r) {
			b.WriteByte('_')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
