package codepage

import (
	"encoding/binary"
	"strings"
	"unicode/utf8"

	"github.com/joshuapare/nk2kit/pkg/types"
)

const (
	highSurrogateStart = 0xD800
	highSurrogateEnd   = 0xDBFF
	lowSurrogateStart  = 0xDC00
	lowSurrogateEnd    = 0xDFFF
	surrogateBase      = 0x10000
)

// walkUTF16 calls fn for every code point in the UTF-16LE stream src, stopping
// at the first NUL code unit. Unpaired surrogates and a dangling odd byte are
// rejected.
func walkUTF16(src []byte, fn func(r rune)) error {
	for i := 0; i < len(src); i += 2 {
		if i+1 >= len(src) {
			return types.Set(nil, types.DomainInput, types.InputInvalidData,
				"UTF-16 stream has odd length %d", len(src))
		}
		r := rune(binary.LittleEndian.Uint16(src[i:]))
		switch {
		case r == 0:
			return nil
		case r >= highSurrogateStart && r <= highSurrogateEnd:
			if i+3 >= len(src) {
				return types.Set(nil, types.DomainInput, types.InputInvalidData,
					"unpaired high surrogate at byte %d", i)
			}
			r2 := rune(binary.LittleEndian.Uint16(src[i+2:]))
			if r2 < lowSurrogateStart || r2 > lowSurrogateEnd {
				return types.Set(nil, types.DomainInput, types.InputInvalidData,
					"unpaired high surrogate at byte %d", i)
			}
			r = surrogateBase + ((r-highSurrogateStart)<<10 | (r2 - lowSurrogateStart))
			i += 2
		case r >= lowSurrogateStart && r <= lowSurrogateEnd:
			return types.Set(nil, types.DomainInput, types.InputInvalidData,
				"unpaired low surrogate at byte %d", i)
		}
		fn(r)
	}
	return nil
}

// DecodeUTF16 converts a UTF-16LE stream to a UTF-8 string.
func DecodeUTF16(src []byte) (string, error) {
	var b strings.Builder
	b.Grow(len(src) / 2)
	if err := walkUTF16(src, func(r rune) { b.WriteRune(r) }); err != nil {
		return "", err
	}
	return b.String(), nil
}

// EncodeUTF16 converts a UTF-8 string to UTF-16LE without a terminator.
func EncodeUTF16(s string) ([]byte, error) {
	n, err := UTF16StreamSize(s)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	if _, err := CopyToUTF16Stream(out, s); err != nil {
		return nil, err
	}
	return out[:n-2], nil
}

// UTF16StreamSize returns the UTF-16LE size of s in bytes, including the
// two-byte terminator.
func UTF16StreamSize(s string) (int, error) {
	s = cstr(s)
	n := 2
	for i, r := range s {
		if r == utf8.RuneError {
			if _, size := utf8.DecodeRuneInString(s[i:]); size == 1 {
				return 0, types.Set(nil, types.DomainConversion, types.ConversionInputFailed,
					"invalid UTF-8 at byte %d", i)
			}
		}
		if r >= surrogateBase {
			n += 4
		} else {
			n += 2
		}
	}
	return n, nil
}

// CopyToUTF16Stream encodes s into dst followed by a NUL code unit and returns
// the number of bytes written.
func CopyToUTF16Stream(dst []byte, s string) (int, error) {
	need, err := UTF16StreamSize(s)
	if err != nil {
		return 0, err
	}
	if len(dst) < need {
		return 0, insufficient(len(dst), need)
	}
	off := 0
	for _, r := range cstr(s) {
		if r >= surrogateBase {
			r -= surrogateBase
			binary.LittleEndian.PutUint16(dst[off:], uint16(highSurrogateStart+(r>>10)))
			binary.LittleEndian.PutUint16(dst[off+2:], uint16(lowSurrogateStart+(r&0x3ff)))
			off += 4
			continue
		}
		binary.LittleEndian.PutUint16(dst[off:], uint16(r))
		off += 2
	}
	dst[off], dst[off+1] = 0, 0
	return off + 2, nil
}

// UTF8SizeFromUTF16Stream returns the UTF-8 size of the UTF-16LE stream src,
// including the terminator.
func UTF8SizeFromUTF16Stream(src []byte) (int, error) {
	n := 1
	if err := walkUTF16(src, func(r rune) { n += utf8.RuneLen(r) }); err != nil {
		return 0, err
	}
	return n, nil
}

// CopyUTF8FromUTF16Stream decodes src into dst followed by a NUL and returns
// the number of bytes written.
func CopyUTF8FromUTF16Stream(dst, src []byte) (int, error) {
	need, err := UTF8SizeFromUTF16Stream(src)
	if err != nil {
		return 0, err
	}
	if len(dst) < need {
		return 0, insufficient(len(dst), need)
	}
	off := 0
	_ = walkUTF16(src, func(r rune) { off += utf8.EncodeRune(dst[off:], r) })
	dst[off] = 0
	return off + 1, nil
}
