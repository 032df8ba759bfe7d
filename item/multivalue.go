package item

import (
	"encoding/binary"

	"github.com/joshuapare/nk2kit/internal/buf"
	"github.com/joshuapare/nk2kit/pkg/types"
)

// multiValue holds the element boundaries of a multi-valued payload.
//
// Fixed-size element types are a packed array. Variable-size element types
// are laid out as:
//
//	u32 count | count x u32 offset | element data
//
// where each offset is relative to the payload start and an element runs to
// the next offset (or to the end of the payload for the last one).
type multiValue struct {
	base   types.ValueType
	bounds [][2]int
}

func parseMultiValue(base types.ValueType, data []byte) (*multiValue, error) {
	mv := &multiValue{base: base}

	if size, fixed := base.FixedSize(); fixed {
		if size == 0 || len(data)%size != 0 {
			return nil, types.Set(nil, types.DomainInput, types.InputInvalidData,
				"multi-value %s payload of %d bytes is not a whole number of %d-byte elements",
				base, len(data), size)
		}
		n := len(data) / size
		mv.bounds = make([][2]int, n)
		for i := range n {
			mv.bounds[i] = [2]int{i * size, (i + 1) * size}
		}
		return mv, nil
	}

	if len(data) == 0 {
		return mv, nil
	}
	if len(data) < 4 {
		return nil, types.Set(nil, types.DomainInput, types.InputInvalidData,
			"multi-value %s payload too small for count", base)
	}
	count := int(buf.U32LE(data))
	start, err := buf.CheckListBounds(len(data), 4, count, 4)
	if err != nil {
		return nil, types.Set(nil, types.DomainInput, types.InputInvalidData,
			"multi-value %s offset table: %v", base, err)
	}
	mv.bounds = make([][2]int, count)
	prev := start
	for i := range count {
		off := int(buf.U32LE(data[4+4*i:]))
		if off < prev || off > len(data) {
			return nil, types.Set(nil, types.DomainInput, types.InputInvalidData,
				"multi-value %s element %d offset %d out of range [%d, %d]", base, i, off, prev, len(data))
		}
		if i > 0 {
			mv.bounds[i-1][1] = off
		}
		mv.bounds[i][0] = off
		prev = off
	}
	if count > 0 {
		mv.bounds[count-1][1] = len(data)
	}
	return mv, nil
}

// packMultiValue builds a variable-size multi-value payload from elements.
func packMultiValue(elems [][]byte) []byte {
	hdr := 4 + 4*len(elems)
	total := hdr
	for _, e := range elems {
		total += len(e)
	}
	out := make([]byte, hdr, total)
	binary.LittleEndian.PutUint32(out, uint32(len(elems)))
	off := hdr
	for i, e := range elems {
		binary.LittleEndian.PutUint32(out[4+4*i:], uint32(off))
		out = append(out, e...)
		off += len(e)
	}
	return out
}

// MultiValueCount returns the number of elements of a multi-valued entry.
func (e *RecordEntry) MultiValueCount() (int, error) {
	if err := e.require(e.id.ValueType.IsMultiValue(), "multi-value"); err != nil {
		return 0, err
	}
	return len(e.multi.bounds), nil
}

// MultiValue returns element i of a multi-valued entry as a single-valued
// entry of the base type, so the typed accessors apply to it.
func (e *RecordEntry) MultiValue(i int) (*RecordEntry, error) {
	n, err := e.MultiValueCount()
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= n {
		return nil, types.Set(nil, types.DomainArguments, types.ArgumentValueOutOfBounds,
			"multi-value index %d out of bounds [0, %d)", i, n)
	}
	b := e.multi.bounds[i]
	id := NewValueIdentifier(e.id.EntryType, e.multi.base)
	return NewRecordEntry(id, e.data[b[0]:b[1]], e.codepage), nil
}
