package nk2_test

import (
	"errors"
	"fmt"
	"os"

	"github.com/joshuapare/nk2kit/pkg/nk2"
	"github.com/joshuapare/nk2kit/pkg/types"
)

// Example prints the display name and address of every cached recipient.
func Example() {
	f, err := nk2.Open("Outlook.NK2", nk2.OpenOptions{})
	if err != nil {
		types.Fprint(os.Stderr, err)
		return
	}
	defer f.Close()

	for it, err := range nk2.Items(f) {
		if err != nil {
			continue
		}
		fmt.Printf("%s <%s>\n",
			text(it, nk2.EntryDisplayName), text(it, nk2.EntryEmailAddress))
	}
}

func text(it *nk2.Item, entryType uint16) string {
	e, found, err := it.EntryValue(entryType, nk2.ValueTypeUnicodeString, 0)
	if err != nil || !found {
		return ""
	}
	s, _ := e.UTF8String()
	return s
}

// ExampleOpen_notNK2 shows how to tell a foreign file from a damaged one.
func ExampleOpen_notNK2() {
	_, err := nk2.Open("notes.txt", nk2.OpenOptions{})
	switch {
	case errors.Is(err, nk2.ErrSignatureMismatch):
		fmt.Println("not an NK2 file")
	case err != nil:
		fmt.Println("unable to open:", err)
	}
}

// ExampleFile_UnallocatedBlocks lists the ranges a forensic tool should carve.
func ExampleFile_UnallocatedBlocks() {
	f, err := nk2.Open("Outlook.NK2", nk2.OpenOptions{})
	if err != nil {
		return
	}
	defer f.Close()

	blocks, err := f.UnallocatedBlocks(nk2.BlockKindData)
	if err != nil {
		return
	}
	for _, b := range blocks {
		fmt.Printf("0x%08x %d bytes\n", b.Offset, b.Size)
	}
}
