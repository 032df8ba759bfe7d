package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("codepage", "windows-1252", "")
	fs.Bool("tolerant", false, "")
	fs.String("log-level", "warn", "")
	fs.String("log-dir", "", "")
	return fs
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nk2ctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	c, err := loadConfig(testFlags(), "")
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), c)
}

func TestLoadConfig_Precedence(t *testing.T) {
	file := writeConfig(t, "codepage: windows-1251\ntolerant: true\noutput: json\nlog_level: info\n")

	c, err := loadConfig(testFlags(), file)
	require.NoError(t, err)
	assert.Equal(t, "windows-1251", c.Codepage)
	assert.True(t, c.Tolerant)
	assert.Equal(t, outputJSON, c.Output)
	assert.Equal(t, "info", c.LogLevel)

	t.Setenv("NK2CTL_LOG_LEVEL", "debug")
	c, err = loadConfig(testFlags(), file)
	require.NoError(t, err)
	assert.Equal(t, "debug", c.LogLevel, "environment beats the file")

	fs := testFlags()
	require.NoError(t, fs.Set("codepage", "932"))
	require.NoError(t, fs.Set("log-level", "error"))
	c, err = loadConfig(fs, file)
	require.NoError(t, err)
	assert.Equal(t, "932", c.Codepage, "flags beat the file")
	assert.Equal(t, "error", c.LogLevel, "flags beat the environment")
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad output", "output: xml\n"},
		{"bad codepage", "codepage: utf-8\n"},
		{"malformed yaml", "codepage: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(testFlags(), writeConfig(t, tt.body))
			require.Error(t, err)
		})
	}

	_, err := loadConfig(testFlags(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err, "an explicit config file must exist")
}
