package codepage

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/joshuapare/nk2kit/pkg/types"
)

// cstring returns src up to (not including) the first NUL byte.
func cstring(src []byte) []byte {
	if i := bytes.IndexByte(src, 0); i >= 0 {
		return src[:i]
	}
	return src
}

func cstr(s string) string {
	if i := strings.IndexByte(s, 0); i >= 0 {
		return s[:i]
	}
	return s
}

// Decode converts codepage bytes to a UTF-8 string. Bytes that have no
// mapping in cp become U+FFFD.
func Decode(cp Codepage, src []byte) (string, error) {
	e, err := lookup(cp)
	if err != nil {
		return "", err
	}
	src = cstring(src)
	if e.bytes != nil {
		var b strings.Builder
		b.Grow(len(src))
		for _, c := range src {
			b.WriteRune(e.bytes.decodeByte(c))
		}
		return b.String(), nil
	}
	out, err := e.multi.NewDecoder().Bytes(src)
	if err != nil {
		return "", types.Set(err, types.DomainConversion, types.ConversionInputFailed,
			"unable to decode %s string", cp)
	}
	return string(out), nil
}

// Encode converts a UTF-8 string to codepage bytes without a terminator.
func Encode(cp Codepage, s string) ([]byte, error) {
	e, err := lookup(cp)
	if err != nil {
		return nil, err
	}
	s = cstr(s)
	if e.bytes != nil {
		out := make([]byte, 0, len(s))
		for i, r := range s {
			if r == utf8.RuneError {
				if _, size := utf8.DecodeRuneInString(s[i:]); size == 1 {
					return nil, types.Set(nil, types.DomainConversion, types.ConversionInputFailed,
						"invalid UTF-8 at byte %d", i)
				}
			}
			c, ok := e.bytes.encodeRune(r)
			if !ok {
				return nil, types.Set(nil, types.DomainConversion, types.ConversionOutputFailed,
					"character %U not representable in %s", r, cp)
			}
			out = append(out, c)
		}
		return out, nil
	}
	if !utf8.ValidString(s) {
		return nil, types.Set(nil, types.DomainConversion, types.ConversionInputFailed,
			"invalid UTF-8 input")
	}
	out, err := e.multi.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, types.Set(err, types.DomainConversion, types.ConversionOutputFailed,
			"string not representable in %s", cp)
	}
	return out, nil
}

// UTF8StringSize returns the UTF-8 size of src, including the terminator.
func UTF8StringSize(cp Codepage, src []byte) (int, error) {
	e, err := lookup(cp)
	if err != nil {
		return 0, err
	}
	if e.bytes != nil {
		n := 1
		for _, c := range cstring(src) {
			n += utf8.RuneLen(e.bytes.decodeByte(c))
		}
		return n, nil
	}
	s, err := Decode(cp, src)
	if err != nil {
		return 0, err
	}
	return len(s) + 1, nil
}

// CopyToUTF8String decodes src into dst followed by a NUL and returns the
// number of bytes written.
func CopyToUTF8String(cp Codepage, dst, src []byte) (int, error) {
	need, err := UTF8StringSize(cp, src)
	if err != nil {
		return 0, err
	}
	if len(dst) < need {
		return 0, insufficient(len(dst), need)
	}
	s, err := Decode(cp, src)
	if err != nil {
		return 0, err
	}
	n := copy(dst, s)
	dst[n] = 0
	return n + 1, nil
}

// ByteStreamSize returns the encoded size of s in cp, including the
// terminator.
func ByteStreamSize(cp Codepage, s string) (int, error) {
	e, err := lookup(cp)
	if err != nil {
		return 0, err
	}
	if e.bytes == nil {
		out, err := Encode(cp, s)
		if err != nil {
			return 0, err
		}
		return len(out) + 1, nil
	}
	n := 1
	s = cstr(s)
	for i, r := range s {
		if r == utf8.RuneError {
			if _, size := utf8.DecodeRuneInString(s[i:]); size == 1 {
				return 0, types.Set(nil, types.DomainConversion, types.ConversionInputFailed,
					"invalid UTF-8 at byte %d", i)
			}
		}
		if _, ok := e.bytes.encodeRune(r); !ok {
			return 0, types.Set(nil, types.DomainConversion, types.ConversionOutputFailed,
				"character %U not representable in %s", r, cp)
		}
		n++
	}
	return n, nil
}

// CopyToByteStream encodes s into dst followed by a NUL and returns the
// number of bytes written.
func CopyToByteStream(cp Codepage, dst []byte, s string) (int, error) {
	need, err := ByteStreamSize(cp, s)
	if err != nil {
		return 0, err
	}
	if len(dst) < need {
		return 0, insufficient(len(dst), need)
	}
	out, err := Encode(cp, s)
	if err != nil {
		return 0, err
	}
	n := copy(dst, out)
	dst[n] = 0
	return n + 1, nil
}

func insufficient(have, need int) error {
	return types.Set(nil, types.DomainOutput, types.OutputInsufficientSpace,
		"destination too small: %d bytes, need %d", have, need)
}
