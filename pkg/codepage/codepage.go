// Package codepage converts strings between the legacy codepages used for
// ASCII-family property values, UTF-8 and UTF-16LE.
//
// Every conversion is offered twice: as a single call returning an owned
// result (Decode, Encode, DecodeUTF16, EncodeUTF16) and as a sizing/writing
// pair for callers that must fill a pre-allocated buffer of exact size
// (UTF8StringSize + CopyToUTF8String and friends). Sizes reported by the
// pairs include the terminating NUL character.
//
// Source strings are treated as C strings: conversion stops at the first NUL.
package codepage

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"

	"github.com/joshuapare/nk2kit/pkg/types"
)

// Codepage is a Windows codepage identifier.
type Codepage int

const (
	ASCII       Codepage = 20127
	ISO8859_1   Codepage = 28591
	ISO8859_2   Codepage = 28592
	ISO8859_3   Codepage = 28593
	ISO8859_4   Codepage = 28594
	ISO8859_5   Codepage = 28595
	ISO8859_6   Codepage = 28596
	ISO8859_7   Codepage = 28597
	ISO8859_8   Codepage = 28598
	ISO8859_9   Codepage = 28599
	ISO8859_10  Codepage = 28600
	ISO8859_11  Codepage = 28601
	ISO8859_13  Codepage = 28603
	ISO8859_14  Codepage = 28604
	ISO8859_15  Codepage = 28605
	ISO8859_16  Codepage = 28606
	KOI8R       Codepage = 20866
	KOI8U       Codepage = 21866
	Windows874  Codepage = 874
	Windows932  Codepage = 932
	Windows936  Codepage = 936
	Windows949  Codepage = 949
	Windows950  Codepage = 950
	Windows1250 Codepage = 1250
	Windows1251 Codepage = 1251
	Windows1252 Codepage = 1252
	Windows1253 Codepage = 1253
	Windows1254 Codepage = 1254
	Windows1255 Codepage = 1255
	Windows1256 Codepage = 1256
	Windows1257 Codepage = 1257
	Windows1258 Codepage = 1258
)

// Default is the codepage used when none is configured.
const Default = Windows1252

// byteCodec converts a single-byte codepage one character at a time, which
// lets the sizing calls run without producing output.
type byteCodec interface {
	decodeByte(b byte) rune
	encodeRune(r rune) (byte, bool)
}

type charmapCodec struct{ cm *charmap.Charmap }

func (c charmapCodec) decodeByte(b byte) rune           { return c.cm.DecodeByte(b) }
func (c charmapCodec) encodeRune(r rune) (byte, bool) { return c.cm.EncodeRune(r) }

type asciiCodec struct{}

func (asciiCodec) decodeByte(b byte) rune {
	if b >= 0x80 {
		return '�'
	}
	return rune(b)
}

func (asciiCodec) encodeRune(r rune) (byte, bool) {
	if r < 0 || r >= 0x80 {
		return 0, false
	}
	return byte(r), true
}

// iso885911Codec is TIS-620 with the C1 control range, which differs from
// Windows-874 only in 0x80-0x9F.
type iso885911Codec struct{}

func (iso885911Codec) decodeByte(b byte) rune {
	if b >= 0x80 && b <= 0x9f {
		return rune(b)
	}
	return charmap.Windows874.DecodeByte(b)
}

func (iso885911Codec) encodeRune(r rune) (byte, bool) {
	if r >= 0x80 && r <= 0x9f {
		return byte(r), true
	}
	b, ok := charmap.Windows874.EncodeRune(r)
	if !ok || (b >= 0x80 && b <= 0x9f) {
		return 0, false
	}
	return b, true
}

type entry struct {
	name  string
	bytes byteCodec         // single-byte codepages
	multi encoding.Encoding // multi-byte codepages
}

var table = map[Codepage]entry{
	ASCII:       {name: "ascii", bytes: asciiCodec{}},
	ISO8859_1:   {name: "iso-8859-1", bytes: charmapCodec{charmap.ISO8859_1}},
	ISO8859_2:   {name: "iso-8859-2", bytes: charmapCodec{charmap.ISO8859_2}},
	ISO8859_3:   {name: "iso-8859-3", bytes: charmapCodec{charmap.ISO8859_3}},
	ISO8859_4:   {name: "iso-8859-4", bytes: charmapCodec{charmap.ISO8859_4}},
	ISO8859_5:   {name: "iso-8859-5", bytes: charmapCodec{charmap.ISO8859_5}},
	ISO8859_6:   {name: "iso-8859-6", bytes: charmapCodec{charmap.ISO8859_6}},
	ISO8859_7:   {name: "iso-8859-7", bytes: charmapCodec{charmap.ISO8859_7}},
	ISO8859_8:   {name: "iso-8859-8", bytes: charmapCodec{charmap.ISO8859_8}},
	ISO8859_9:   {name: "iso-8859-9", bytes: charmapCodec{charmap.ISO8859_9}},
	ISO8859_10:  {name: "iso-8859-10", bytes: charmapCodec{charmap.ISO8859_10}},
	ISO8859_11:  {name: "iso-8859-11", bytes: iso885911Codec{}},
	ISO8859_13:  {name: "iso-8859-13", bytes: charmapCodec{charmap.ISO8859_13}},
	ISO8859_14:  {name: "iso-8859-14", bytes: charmapCodec{charmap.ISO8859_14}},
	ISO8859_15:  {name: "iso-8859-15", bytes: charmapCodec{charmap.ISO8859_15}},
	ISO8859_16:  {name: "iso-8859-16", bytes: charmapCodec{charmap.ISO8859_16}},
	KOI8R:       {name: "koi8-r", bytes: charmapCodec{charmap.KOI8R}},
	KOI8U:       {name: "koi8-u", bytes: charmapCodec{charmap.KOI8U}},
	Windows874:  {name: "windows-874", bytes: charmapCodec{charmap.Windows874}},
	Windows932:  {name: "windows-932", multi: japanese.ShiftJIS},
	Windows936:  {name: "windows-936", multi: simplifiedchinese.GBK},
	Windows949:  {name: "windows-949", multi: korean.EUCKR},
	Windows950:  {name: "windows-950", multi: traditionalchinese.Big5},
	Windows1250: {name: "windows-1250", bytes: charmapCodec{charmap.Windows1250}},
	Windows1251: {name: "windows-1251", bytes: charmapCodec{charmap.Windows1251}},
	Windows1252: {name: "windows-1252", bytes: charmapCodec{charmap.Windows1252}},
	Windows1253: {name: "windows-1253", bytes: charmapCodec{charmap.Windows1253}},
	Windows1254: {name: "windows-1254", bytes: charmapCodec{charmap.Windows1254}},
	Windows1255: {name: "windows-1255", bytes: charmapCodec{charmap.Windows1255}},
	Windows1256: {name: "windows-1256", bytes: charmapCodec{charmap.Windows1256}},
	Windows1257: {name: "windows-1257", bytes: charmapCodec{charmap.Windows1257}},
	Windows1258: {name: "windows-1258", bytes: charmapCodec{charmap.Windows1258}},
}

// Validate checks cp against the supported set.
func Validate(cp int) (Codepage, error) {
	c := Codepage(cp)
	if _, ok := table[c]; !ok {
		return 0, types.Set(nil, types.DomainInput, types.InputUnsupportedValue,
			"unsupported codepage: %d", cp)
	}
	return c, nil
}

// Parse accepts a codepage number ("1252") or canonical name
// ("windows-1252", case-insensitive).
func Parse(s string) (Codepage, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return Validate(n)
	}
	for cp, e := range table {
		if strings.EqualFold(e.name, s) {
			return cp, nil
		}
	}
	return 0, types.Set(nil, types.DomainInput, types.InputUnsupportedValue,
		"unsupported codepage: %q", s)
}

// IsValid reports whether c is in the supported set.
func (c Codepage) IsValid() bool {
	_, ok := table[c]
	return ok
}

// String returns the canonical name, e.g. "windows-1252".
func (c Codepage) String() string {
	if e, ok := table[c]; ok {
		return e.name
	}
	return fmt.Sprintf("codepage(%d)", int(c))
}

// Supported returns every supported codepage in ascending numeric order.
func Supported() []Codepage {
	out := make([]Codepage, 0, len(table))
	for cp := range table {
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func lookup(cp Codepage) (entry, error) {
	e, ok := table[cp]
	if !ok {
		return entry{}, types.Set(nil, types.DomainInput, types.InputUnsupportedValue,
			"unsupported codepage: %d", int(cp))
	}
	return e, nil
}
