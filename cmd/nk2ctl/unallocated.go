package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/joshuapare/nk2kit/pkg/nk2"
)

var (
	unallocKind  string
	unallocCarve string
)

func init() {
	cmd := newUnallocatedCmd()
	cmd.Flags().StringVarP(&unallocKind, "kind", "k", "all", "Structure kind: index, data, all")
	cmd.Flags().StringVar(&unallocCarve, "carve", "", "Copy every range into this directory, one file per range")
	rootCmd.AddCommand(cmd)
}

func newUnallocatedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unallocated <file.nk2>",
		Short: "List block ranges not used by any live structure",
		Long: `The unallocated command reports the block-aligned ranges of an NK2
file that no live structure of a kind occupies. For the index kind, the live
structures are the header, the index nodes and the item records; for the data
kind, the header and every data block reachable from an entry. Deleted
recipients usually survive in these ranges.

Example:
  nk2ctl unallocated Outlook.NK2
  nk2ctl unallocated Outlook.NK2 --kind data --carve ./carved`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUnallocated(args)
		},
	}
	return cmd
}

type unallocatedView struct {
	Kind   string                 `json:"kind"`
	Blocks []nk2.UnallocatedBlock `json:"blocks"`
	Bytes  uint64                 `json:"bytes"`
}

func parseKinds(s string) ([]nk2.BlockKind, error) {
	switch s {
	case "index":
		return []nk2.BlockKind{nk2.BlockKindIndexNode}, nil
	case "data":
		return []nk2.BlockKind{nk2.BlockKindData}, nil
	case "all", "":
		return []nk2.BlockKind{nk2.BlockKindIndexNode, nk2.BlockKindData}, nil
	default:
		return nil, fmt.Errorf("unknown kind: %s (use: index, data, all)", s)
	}
}

func runUnallocated(args []string) error {
	path := args[0]
	kinds, err := parseKinds(unallocKind)
	if err != nil {
		return err
	}

	f, err := openFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	views := make([]unallocatedView, 0, len(kinds))
	for _, kind := range kinds {
		blocks, err := f.UnallocatedBlocks(kind)
		if err != nil {
			return fmt.Errorf("unallocated scan (%s) failed: %w", kind, err)
		}
		v := unallocatedView{Kind: kind.String(), Blocks: blocks}
		for _, b := range blocks {
			v.Bytes += b.Size
		}
		views = append(views, v)
	}

	if unallocCarve != "" {
		if err := carve(path, unallocCarve, views); err != nil {
			return err
		}
	}

	if jsonOut {
		return printJSON(views)
	}
	for _, v := range views {
		printInfo("%s: %d range(s), %d bytes\n", v.Kind, len(v.Blocks), v.Bytes)
		for _, b := range v.Blocks {
			printInfo("  0x%08x - 0x%08x  %d bytes\n", b.Offset, b.End(), b.Size)
		}
	}
	return nil
}

// carve copies each range into dir as <kind>_<offset>.bin.
func carve(path, dir string, views []unallocatedView) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create carve directory: %w", err)
	}
	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer src.Close()

	for _, v := range views {
		for _, b := range v.Blocks {
			name := filepath.Join(dir, fmt.Sprintf("%s_%08x.bin", v.Kind, b.Offset))
			if err := copyRange(src, name, b); err != nil {
				return err
			}
			printVerbose("Carved %s\n", name)
		}
	}
	return nil
}

func copyRange(src io.ReaderAt, name string, b nk2.UnallocatedBlock) error {
	dst, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	_, err = io.Copy(dst, io.NewSectionReader(src, int64(b.Offset), int64(b.Size)))
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("failed to carve 0x%x: %w", b.Offset, err)
	}
	return nil
}
