package codepage

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/nk2kit/pkg/types"
)

func TestCodepageNames(t *testing.T) {
	tests := []struct {
		cp   Codepage
		name string
	}{
		{ASCII, "ascii"},
		{ISO8859_1, "iso-8859-1"},
		{ISO8859_2, "iso-8859-2"},
		{ISO8859_3, "iso-8859-3"},
		{ISO8859_4, "iso-8859-4"},
		{ISO8859_5, "iso-8859-5"},
		{ISO8859_6, "iso-8859-6"},
		{ISO8859_7, "iso-8859-7"},
		{ISO8859_8, "iso-8859-8"},
		{ISO8859_9, "iso-8859-9"},
		{ISO8859_10, "iso-8859-10"},
		{ISO8859_11, "iso-8859-11"},
		{ISO8859_13, "iso-8859-13"},
		{ISO8859_14, "iso-8859-14"},
		{ISO8859_15, "iso-8859-15"},
		{ISO8859_16, "iso-8859-16"},
		{KOI8R, "koi8-r"},
		{KOI8U, "koi8-u"},
		{Windows874, "windows-874"},
		{Windows932, "windows-932"},
		{Windows936, "windows-936"},
		{Windows949, "windows-949"},
		{Windows950, "windows-950"},
		{Windows1250, "windows-1250"},
		{Windows1251, "windows-1251"},
		{Windows1252, "windows-1252"},
		{Windows1253, "windows-1253"},
		{Windows1254, "windows-1254"},
		{Windows1255, "windows-1255"},
		{Windows1256, "windows-1256"},
		{Windows1257, "windows-1257"},
		{Windows1258, "windows-1258"},
	}
	require.Len(t, Supported(), len(tests))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.cp.String())
			assert.True(t, tt.cp.IsValid())

			got, err := Validate(int(tt.cp))
			require.NoError(t, err)
			assert.Equal(t, tt.cp, got)

			parsed, err := Parse(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.cp, parsed)
		})
	}
}

func TestValidate_Unsupported(t *testing.T) {
	for _, cp := range []int{0, 28602, 65001, -1} {
		_, err := Validate(cp)
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrUnsupportedInput), "codepage %d", cp)
	}
	assert.Equal(t, "codepage(28602)", Codepage(28602).String())
}

func TestParse(t *testing.T) {
	cp, err := Parse(" 1251 ")
	require.NoError(t, err)
	assert.Equal(t, Windows1251, cp)

	cp, err = Parse("KOI8-R")
	require.NoError(t, err)
	assert.Equal(t, KOI8R, cp)

	_, err = Parse("utf-8")
	require.ErrorIs(t, err, types.ErrUnsupportedInput)
}

func TestSupported_Sorted(t *testing.T) {
	all := Supported()
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1], all[i])
	}
	assert.Equal(t, Windows874, all[0])
}
