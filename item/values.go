package item

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/joshuapare/nk2kit/internal/format"
	"github.com/joshuapare/nk2kit/pkg/codepage"
	"github.com/joshuapare/nk2kit/pkg/types"
)

// require checks the stored error first, then that the accessor matches the
// value type.
func (e *RecordEntry) require(ok bool, want string) error {
	if e.err != nil {
		return e.err
	}
	if !ok {
		return types.Set(nil, types.DomainRuntime, types.RuntimeUnsupportedValue,
			"%s is not a %s value", e.id, want)
	}
	return nil
}

func (e *RecordEntry) is(vts ...types.ValueType) bool {
	for _, vt := range vts {
		if e.id.ValueType == vt {
			return true
		}
	}
	return false
}

// Boolean returns a PT_BOOLEAN value.
func (e *RecordEntry) Boolean() (bool, error) {
	if err := e.require(e.is(types.ValueTypeBoolean), "boolean"); err != nil {
		return false, err
	}
	return binary.LittleEndian.Uint16(e.data) != 0, nil
}

// Int16 returns a PT_I2 value.
func (e *RecordEntry) Int16() (int16, error) {
	if err := e.require(e.is(types.ValueTypeInteger16), "16-bit integer"); err != nil {
		return 0, err
	}
	return int16(binary.LittleEndian.Uint16(e.data)), nil
}

// Int32 returns a PT_LONG or PT_ERROR value.
func (e *RecordEntry) Int32() (int32, error) {
	if err := e.require(e.is(types.ValueTypeInteger32, types.ValueTypeError), "32-bit integer"); err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(e.data)), nil
}

// Int64 returns a PT_I8 or PT_CURRENCY value. Currency is the raw value
// scaled by 10,000.
func (e *RecordEntry) Int64() (int64, error) {
	if err := e.require(e.is(types.ValueTypeInteger64, types.ValueTypeCurrency), "64-bit integer"); err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(e.data)), nil
}

// Float32 returns a PT_FLOAT value.
func (e *RecordEntry) Float32() (float32, error) {
	if err := e.require(e.is(types.ValueTypeFloat32), "32-bit float"); err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(e.data)), nil
}

// Float64 returns a PT_DOUBLE or PT_APPTIME value. AppTime counts days since
// 1899-12-30.
func (e *RecordEntry) Float64() (float64, error) {
	if err := e.require(e.is(types.ValueTypeFloat64, types.ValueTypeAppTime), "64-bit float"); err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(e.data)), nil
}

// Filetime returns a PT_SYSTIME value in UTC.
func (e *RecordEntry) Filetime() (time.Time, error) {
	if err := e.require(e.is(types.ValueTypeFiletime), "filetime"); err != nil {
		return time.Time{}, err
	}
	return format.FiletimeToTime(binary.LittleEndian.Uint64(e.data)), nil
}

// GUID returns a PT_CLSID value. The first three fields are stored
// little-endian, as in the Windows GUID structure.
func (e *RecordEntry) GUID() (uuid.UUID, error) {
	if err := e.require(e.is(types.ValueTypeGUID), "GUID"); err != nil {
		return uuid.Nil, err
	}
	var u uuid.UUID
	d := e.data
	binary.BigEndian.PutUint32(u[0:], binary.LittleEndian.Uint32(d[0:]))
	binary.BigEndian.PutUint16(u[4:], binary.LittleEndian.Uint16(d[4:]))
	binary.BigEndian.PutUint16(u[6:], binary.LittleEndian.Uint16(d[6:]))
	copy(u[8:], d[8:16])
	return u, nil
}

// UTF8String decodes a PT_STRING8 (through the entry codepage) or PT_UNICODE
// value. Decoding stops at the terminator.
func (e *RecordEntry) UTF8String() (string, error) {
	if err := e.require(e.is(types.ValueTypeASCIIString, types.ValueTypeUnicodeString), "string"); err != nil {
		return "", err
	}
	if e.id.ValueType == types.ValueTypeUnicodeString {
		return codepage.DecodeUTF16(e.data)
	}
	return codepage.Decode(e.codepage, e.data)
}

// Binary returns a copy of a PT_BINARY value.
func (e *RecordEntry) Binary() ([]byte, error) {
	if err := e.require(e.is(types.ValueTypeBinary), "binary"); err != nil {
		return nil, err
	}
	return append([]byte(nil), e.data...), nil
}
