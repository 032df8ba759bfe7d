package main

import (
	"bytes"
	"os"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/joshuapare/nk2kit/internal/testutil"
	"github.com/joshuapare/nk2kit/pkg/codepage"
	"github.com/joshuapare/nk2kit/pkg/types"
)

// fixture writes a small NK2 file with two recipients and one gap block
// after each item record, and returns its path and image.
func fixture(t *testing.T) (string, *testutil.Image) {
	t.Helper()
	b := testutil.New()
	b.GapBlocks = 1
	b.AddItem(
		testutil.Unicode(types.EntryDisplayName, "Alice: R&D <Ops>"),
		testutil.ASCII(types.EntryEmailAddress, "alice@example.com", codepage.Windows1252),
		testutil.Int32(types.EntryDisplayType, 6),
	)
	b.AddItem(
		testutil.Unicode(types.EntryDisplayName, "Bob"),
		testutil.Unicode(types.EntrySMTPAddress, "bob@example.com"),
		testutil.Binary(types.EntryEntryID, []byte{0xde, 0xad, 0xbe, 0xef, 0, 1, 2, 3, 4}),
	)
	img := b.MustBuild(t)
	return img.WriteFile(t, "Outlook.NK2"), img
}

// resetFlags restores every package-level flag to its default.
func resetFlags(t *testing.T) {
	t.Helper()
	quiet, verbose, jsonOut = false, false, false
	cfg = defaultConfig()
	itemsShowEntries, itemsIndex = false, -1
	unallocKind, unallocCarve = "all", ""
	diagFormat, diagStrict, diagOutputFile, diagShowSummary = "text", false, "", false
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	// Drain concurrently so large outputs cannot fill the pipe.
	done := make(chan []byte)
	go func() {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(r)
		done <- buf.Bytes()
	}()

	fnErr := fn()

	w.Close()
	os.Stdout = origStdout
	out := <-done
	r.Close()

	return string(out), fnErr
}

// assertJSON checks that output is valid JSON
func assertJSON(t *testing.T, output string) {
	t.Helper()
	var result any
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Errorf("invalid JSON output: %v\nOutput: %s", err, output)
	}
}

// assertContains checks that output contains all expected strings
func assertContains(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("output missing expected string %q\nGot: %s", want, output)
		}
	}
}
