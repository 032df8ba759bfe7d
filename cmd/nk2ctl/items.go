package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/nk2kit/pkg/nk2"
)

var (
	itemsShowEntries bool
	itemsIndex       int
)

func init() {
	cmd := newItemsCmd()
	cmd.Flags().BoolVarP(&itemsShowEntries, "entries", "e", false, "Show every record entry of each item")
	cmd.Flags().IntVarP(&itemsIndex, "index", "i", -1, "Show only the item at this index")
	rootCmd.AddCommand(cmd)
}

func newItemsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items <file.nk2>",
		Short: "List the cached recipients",
		Long: `The items command lists every item of an NK2 file with its display
name and address. With --entries every property is printed with its entry
type, value type and decoded value. Items that cannot be read are reported
and skipped.

Example:
  nk2ctl items Outlook.NK2
  nk2ctl items Outlook.NK2 --entries --index 3
  nk2ctl items Outlook.NK2 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runItems(args)
		},
	}
	return cmd
}

func runItems(args []string) error {
	f, err := openFile(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	views, err := collectItems(f, itemsIndex, itemsShowEntries)
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(views)
	}

	for _, v := range views {
		if v.Error != "" {
			printInfo("[%d] <unreadable: %s>\n", v.Index, v.Error)
			continue
		}
		printInfo("[%d] %s", v.Index, v.Name)
		if v.Address != "" {
			printInfo(" <%s>", v.Address)
		}
		printInfo("\n")
		printVerbose("     offset 0x%x\n", v.Offset)
		for _, e := range v.Entries {
			value := e.Value
			if e.Error != "" {
				value = "<error: " + e.Error + ">"
			}
			printInfo("     %-26s %-14s %s\n", e.EntryType, e.ValueType, value)
		}
	}
	if !quiet {
		fmt.Printf("\n%d item(s)\n", len(views))
	}
	return nil
}

// collectItems materializes one item (index >= 0) or all of them.
func collectItems(f *nk2.File, index int, entries bool) ([]itemView, error) {
	n, err := f.NumberOfItems()
	if err != nil {
		return nil, err
	}
	first, last := 0, n
	if index >= 0 {
		if index >= n {
			return nil, fmt.Errorf("item index %d out of range (file has %d items)", index, n)
		}
		first, last = index, index+1
	}

	views := make([]itemView, 0, last-first)
	for i := first; i < last; i++ {
		it, err := f.Item(i)
		if err != nil {
			views = append(views, itemView{Index: i, Error: err.Error()})
			continue
		}
		views = append(views, viewItem(i, it, entries))
	}
	return views, nil
}
