// Package item models the contents of one NK2 item (an autocomplete alias)
// as an ordered set of typed property values.
//
// Items are produced by the reader with all entry data copied out of the
// file, so an Item stays valid after the file that produced it is closed
// and may be shared between goroutines without locking.
//
// # Looking up values
//
// EntryValue distinguishes three outcomes:
//
//	entry, found, err := it.EntryValue(types.EntryDisplayName, types.ValueTypeUnicodeString, 0)
//	switch {
//	case err != nil: // the entry exists but its payload is corrupt
//	case !found:     // the item has no such entry
//	default:
//	    name, _ := entry.UTF8String()
//	}
//
// Requests for a string type are satisfied by the other string type when
// only that one is stored (ASCII is converted through the item's codepage).
package item
