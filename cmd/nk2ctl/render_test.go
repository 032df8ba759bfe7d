package main

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/nk2kit/item"
	"github.com/joshuapare/nk2kit/pkg/codepage"
	"github.com/joshuapare/nk2kit/pkg/types"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Alice Smith", "Alice Smith"},
		{"R&D: Ops <team>", "R_D_ Ops _team_"},
		{`a/b\c`, "a_b_c"},
		{"!$%&*+/:;<>?@\\~", "_______________"},
		{"tab\there\nnl", "tab_here_nl"},
		{"del\x7f", "del_"},
		{"Zoë (Ångström) #1", "Zoë (Ångström) #1"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeFilename(tt.in), "input %q", tt.in)
	}
}

func TestExportFilename(t *testing.T) {
	assert.Equal(t, "0003_a_b.txt", exportFilename(itemView{Index: 3, Name: "a/b"}))
	assert.Equal(t, "0012_x_y.z.txt", exportFilename(itemView{Index: 12, Address: "x@y.z"}))
	assert.Equal(t, "0000_item.txt", exportFilename(itemView{}))
}

func newEntry(vt types.ValueType, data []byte) *item.RecordEntry {
	return item.NewRecordEntry(item.NewValueIdentifier(types.EntryDisplayType, vt), data, codepage.Windows1252)
}

func TestFormatValue(t *testing.T) {
	le32 := func(v uint32) []byte { return binary.LittleEndian.AppendUint32(nil, v) }
	le64 := func(v uint64) []byte { return binary.LittleEndian.AppendUint64(nil, v) }

	tests := []struct {
		name string
		vt   types.ValueType
		data []byte
		want string
	}{
		{"null", types.ValueTypeNull, nil, ""},
		{"bool", types.ValueTypeBoolean, []byte{1, 0}, "true"},
		{"int16", types.ValueTypeInteger16, []byte{0xff, 0xff}, "-1"},
		{"int32", types.ValueTypeInteger32, le32(42), "42"},
		{"error", types.ValueTypeError, le32(0x8004010f), "0x8004010f"},
		{"int64", types.ValueTypeInteger64, le64(1 << 40), "1099511627776"},
		{"currency", types.ValueTypeCurrency, le64(123456), "12.3456"},
		{"float32", types.ValueTypeFloat32, le32(math.Float32bits(1.5)), "1.5"},
		{"float64", types.ValueTypeFloat64, le64(math.Float64bits(-0.25)), "-0.25"},
		{"filetime", types.ValueTypeFiletime, le64(116444736000000000), "1970-01-01T00:00:00Z"},
		{"ascii", types.ValueTypeASCIIString, []byte("hi\x00"), "hi"},
		{"unicode", types.ValueTypeUnicodeString, []byte{'h', 0, 'i', 0, 0, 0}, "hi"},
		{"binary", types.ValueTypeBinary, []byte{0xca, 0xfe}, "cafe"},
		{"multi int32", types.ValueTypeMultiInteger32, append(le32(1), le32(2)...), "[1; 2]"},
		{"unknown type", types.ValueType(0x0abc), []byte{1}, "01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatValue(newEntry(tt.vt, tt.data))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatValue_GUID(t *testing.T) {
	data := []byte{
		0x33, 0x22, 0x11, 0x00, 0x55, 0x44, 0x77, 0x66,
		0x88, 0x99, 0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff,
	}
	got, err := formatValue(newEntry(types.ValueTypeGUID, data))
	require.NoError(t, err)
	assert.Equal(t, "{00112233-4455-6677-8899-aabbccddeeff}", got)
}

func TestFormatValue_Errors(t *testing.T) {
	cause := errors.New("broken chain")
	corrupt := item.NewCorruptRecordEntry(item.NewValueIdentifier(1, types.ValueTypeBinary), cause)
	_, err := formatValue(corrupt)
	require.ErrorIs(t, err, cause)

	v := viewEntry(corrupt)
	assert.Equal(t, "broken chain", v.Error)
	assert.Empty(t, v.Value)

	_, err = formatValue(newEntry(types.ValueTypeInteger32, []byte{1, 2}))
	require.ErrorIs(t, err, types.ErrValueMismatch)
}
