package item

import (
	"fmt"

	"github.com/joshuapare/nk2kit/pkg/types"
)

// ValueIdentifier names a property: the entry type (what it means) plus the
// value type (how it is stored). It is comparable and usable as a map key.
type ValueIdentifier struct {
	EntryType uint16
	ValueType types.ValueType
}

// NewValueIdentifier returns the identifier for the pair.
func NewValueIdentifier(entryType uint16, valueType types.ValueType) ValueIdentifier {
	return ValueIdentifier{EntryType: entryType, ValueType: valueType}
}

// IsZero reports whether id is the zero identifier.
func (id ValueIdentifier) IsZero() bool {
	return id == ValueIdentifier{}
}

// Init fills an empty identifier in place. It fails when id already holds a
// value, so a slot is never silently overwritten.
func (id *ValueIdentifier) Init(entryType uint16, valueType types.ValueType) error {
	if id == nil {
		return types.Set(nil, types.DomainArguments, types.ArgumentInvalidValue, "invalid value identifier")
	}
	if !id.IsZero() {
		return types.Set(nil, types.DomainRuntime, types.RuntimeValueAlreadySet,
			"value identifier already set to %s", id)
	}
	*id = NewValueIdentifier(entryType, valueType)
	return nil
}

func (id ValueIdentifier) String() string {
	return fmt.Sprintf("%s/%s", types.EntryTypeName(id.EntryType), id.ValueType)
}
