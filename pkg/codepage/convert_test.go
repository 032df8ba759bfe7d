package codepage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/nk2kit/pkg/types"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		cp   Codepage
		src  []byte
		want string
	}{
		{"ascii", ASCII, []byte("Bob"), "Bob"},
		{"ascii high byte", ASCII, []byte{'a', 0xe9}, "a�"},
		{"windows-1252 e-acute", Windows1252, []byte{'C', 'a', 'f', 0xe9}, "Café"},
		{"windows-1252 euro", Windows1252, []byte{0x80}, "€"},
		{"windows-1251 cyrillic", Windows1251, []byte{0xcf, 0xf0, 0xe8}, "При"},
		{"koi8-r cyrillic", KOI8R, []byte{0xf0, 0xd2, 0xc9}, "При"},
		{"iso-8859-11 thai", ISO8859_11, []byte{0xa1}, "ก"},
		{"iso-8859-11 c1", ISO8859_11, []byte{0x85}, "\u0085"},
		{"windows-874 ellipsis", Windows874, []byte{0x85}, "…"},
		{"windows-932 katakana", Windows932, []byte{0x83, 0x65, 0x83, 0x58, 0x83, 0x67}, "テスト"},
		{"stops at NUL", Windows1252, []byte{'a', 'b', 0, 'c'}, "ab"},
		{"empty", Windows1252, nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.cp, tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncode(t *testing.T) {
	got, err := Encode(Windows1252, "Café")
	require.NoError(t, err)
	assert.Equal(t, []byte{'C', 'a', 'f', 0xe9}, got)

	got, err = Encode(Windows936, "中文")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xd6, 0xd0, 0xce, 0xc4}, got)

	got, err = Encode(ISO8859_11, "\u0085ก")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x85, 0xa1}, got)
}

func TestEncode_Unrepresentable(t *testing.T) {
	for _, cp := range []Codepage{ASCII, Windows1252, Windows932} {
		_, err := Encode(cp, "smile 😀")
		require.ErrorIs(t, err, types.ErrConversionFailed, "codepage %s", cp)
	}
	// Windows-874 punctuation has no ISO-8859-11 equivalent.
	_, err := Encode(ISO8859_11, "…")
	require.ErrorIs(t, err, types.ErrConversionFailed)
}

func TestEncode_InvalidUTF8(t *testing.T) {
	_, err := Encode(Windows1252, "a\xffb")
	require.Error(t, err)
	frames := types.Frames(err)
	require.NotEmpty(t, frames)
	assert.Equal(t, types.DomainConversion, frames[0].Domain)
	assert.Equal(t, types.ConversionInputFailed, frames[0].Code)
}

func TestTwoPhase_UTF8String(t *testing.T) {
	src := []byte{'C', 'a', 'f', 0xe9}

	size, err := UTF8StringSize(Windows1252, src)
	require.NoError(t, err)
	assert.Equal(t, 6, size) // "Caf" + 2-byte é + NUL

	dst := make([]byte, size)
	n, err := CopyToUTF8String(Windows1252, dst, src)
	require.NoError(t, err)
	assert.Equal(t, size, n)
	assert.Equal(t, "Café\x00", string(dst))

	_, err = CopyToUTF8String(Windows1252, make([]byte, size-1), src)
	require.ErrorIs(t, err, types.ErrInsufficientSpace)
}

func TestTwoPhase_UTF8String_Multibyte(t *testing.T) {
	src := []byte{0x83, 0x65, 0x83, 0x58, 0x83, 0x67}
	size, err := UTF8StringSize(Windows932, src)
	require.NoError(t, err)
	assert.Equal(t, len("テスト")+1, size)

	dst := make([]byte, size)
	_, err = CopyToUTF8String(Windows932, dst, src)
	require.NoError(t, err)
	assert.Equal(t, "テスト\x00", string(dst))
}

func TestTwoPhase_ByteStream(t *testing.T) {
	size, err := ByteStreamSize(Windows1251, "При")
	require.NoError(t, err)
	assert.Equal(t, 4, size)

	dst := make([]byte, size)
	n, err := CopyToByteStream(Windows1251, dst, "При")
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []byte{0xcf, 0xf0, 0xe8, 0}, dst)

	_, err = CopyToByteStream(Windows1251, make([]byte, 3), "При")
	require.ErrorIs(t, err, types.ErrInsufficientSpace)

	_, err = ByteStreamSize(Windows1251, "😀")
	require.ErrorIs(t, err, types.ErrConversionFailed)
}

func TestUnsupportedCodepage(t *testing.T) {
	_, err := Decode(Codepage(65001), []byte("x"))
	require.ErrorIs(t, err, types.ErrUnsupportedInput)
	_, err = Encode(Codepage(65001), "x")
	require.ErrorIs(t, err, types.ErrUnsupportedInput)
	_, err = UTF8StringSize(Codepage(65001), []byte("x"))
	require.ErrorIs(t, err, types.ErrUnsupportedInput)
}
