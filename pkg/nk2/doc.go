/*
Package nk2 reads Outlook nickname cache (NK2) files.

An NK2 file holds the addresses Outlook offers while a recipient is being
typed. Each item is one cached recipient and each of its record entries is
one property, identified by an entry type (PR_DISPLAY_NAME, PR_EMAIL_ADDRESS,
...) and a value type (PT_UNICODE, PT_LONG, ...).

# Quick Start

	f, err := nk2.Open("Outlook.NK2", nk2.OpenOptions{})
	if err != nil {
	    log.Fatal(err)
	}
	defer f.Close()

	for it, err := range nk2.Items(f) {
	    if err != nil {
	        log.Print(err) // one unreadable item does not stop the walk
	        continue
	    }
	    e, found, err := it.EntryValue(nk2.EntryDisplayName, nk2.ValueTypeUnicodeString, 0)
	    if err == nil && found {
	        name, _ := e.UTF8String()
	        fmt.Println(name)
	    }
	}

# Entry Lookup

Item.EntryValue returns (entry, found, err). A missing entry is (nil, false,
nil); an entry whose stored data could not be read is (nil, false, err), so
"absent" and "corrupt" are never confused. Asking for PT_UNICODE finds a
PT_STRING8 entry (and the reverse) and converts it with the item codepage.

# Codepages

PT_STRING8 values are decoded with the codepage from OpenOptions.Codepage,
Windows-1252 by default. Package codepage lists the supported values.

# Errors

Errors are chains of domain-coded frames (types.Error). Use errors.Is with
the sentinels re-exported here, or types.Fprint to print every frame:

	if errors.Is(err, nk2.ErrSignatureMismatch) {
	    // not an NK2 file
	}

# Forensics

UnallocatedBlocks reports the block-aligned ranges not used by any live
structure of a kind, and OpenOptions.CollectDiagnostics records every issue
met while parsing with its file offset.
*/
package nk2
