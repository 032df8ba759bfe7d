package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newExportCmd())
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <file.nk2> <output-dir>",
		Short: "Export every item to a text file",
		Long: `The export command writes one text file per item into the output
directory, creating it when needed. Files are named after the item index and
display name; characters that are not portable in file names are replaced
with '_'. Each file lists every property of the item.

Example:
  nk2ctl export Outlook.NK2 ./recipients`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(args)
		},
	}
	return cmd
}

func runExport(args []string) error {
	path, outDir := args[0], args[1]

	f, err := openFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	views, err := collectItems(f, -1, true)
	if err != nil {
		return err
	}

	written, failed := 0, 0
	for _, v := range views {
		if v.Error != "" {
			printError("item %d: %s\n", v.Index, v.Error)
			failed++
			continue
		}
		name := exportFilename(v)
		if err := os.WriteFile(filepath.Join(outDir, name), []byte(renderItemText(v)), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
		printVerbose("Wrote %s\n", name)
		written++
	}

	printInfo("Exported %d item(s) to %s", written, outDir)
	if failed > 0 {
		printInfo(", %d unreadable", failed)
	}
	printInfo("\n")
	return nil
}

func exportFilename(v itemView) string {
	name := v.Name
	if name == "" {
		name = v.Address
	}
	if name == "" {
		name = "item"
	}
	return fmt.Sprintf("%04d_%s.txt", v.Index, sanitizeFilename(name))
}

func renderItemText(v itemView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Item:   %d\n", v.Index)
	fmt.Fprintf(&b, "Offset: 0x%08x\n\n", v.Offset)
	for _, e := range v.Entries {
		value := e.Value
		if e.Error != "" {
			value = "<error: " + e.Error + ">"
		}
		fmt.Fprintf(&b, "%s (0x%04x)\t%s\t%s\n", e.EntryType, e.EntryTypeID, e.ValueType, value)
	}
	return b.String()
}
