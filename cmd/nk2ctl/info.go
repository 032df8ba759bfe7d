package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/nk2kit/pkg/nk2"
)

func init() {
	rootCmd.AddCommand(newInfoCmd())
}

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <file.nk2>",
		Short: "Validate an NK2 header and report basic metadata",
		Long: `The info command validates an NK2 file header and index and displays
its content type, layout, encryption, block size and item count.

Example:
  nk2ctl info Outlook.NK2
  nk2ctl info Outlook.NK2 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args)
		},
	}
	return cmd
}

type infoView struct {
	File         string `json:"file"`
	ContentType  string `json:"content_type"`
	Type         string `json:"type"`
	Version      uint16 `json:"version"`
	Encryption   string `json:"encryption"`
	Key          uint32 `json:"key"`
	BlockSize    uint32 `json:"block_size"`
	Size         uint64 `json:"size"`
	RecordedSize uint64 `json:"recorded_size"`
	Items        int    `json:"items"`
	Codepage     string `json:"codepage"`
}

func runInfo(args []string) error {
	path := args[0]
	f, err := openFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	view, err := describe(path, f)
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(view)
	}

	printInfo("\nNK2 Information:\n")
	printInfo("  File:          %s\n", view.File)
	printInfo("  Size:          %s\n", humanSize(view.Size))
	printInfo("  Content type:  %s\n", view.ContentType)
	printInfo("  Layout:        %s (version %d)\n", view.Type, view.Version)
	printInfo("  Encryption:    %s\n", view.Encryption)
	printVerbose("  Key:           0x%08x\n", view.Key)
	printInfo("  Block size:    %d\n", view.BlockSize)
	printInfo("  Items:         %d\n", view.Items)
	printInfo("  Codepage:      %s\n", view.Codepage)
	if view.RecordedSize != view.Size {
		printInfo("  Note: %d bytes past the recorded size of %d\n", view.Size-view.RecordedSize, view.RecordedSize)
	}
	return nil
}

func describe(path string, f *nk2.File) (infoView, error) {
	info, err := f.Info()
	if err != nil {
		return infoView{}, err
	}
	enc, err := f.EncryptionValues()
	if err != nil {
		return infoView{}, err
	}
	return infoView{
		File:         path,
		ContentType:  info.ContentType.String(),
		Type:         info.Type.String(),
		Version:      info.Version,
		Encryption:   enc.Type.String(),
		Key:          enc.Key,
		BlockSize:    info.BlockSize,
		Size:         info.Size,
		RecordedSize: info.RecordedSize,
		Items:        info.ItemCount,
		Codepage:     f.Codepage().String(),
	}, nil
}

func humanSize(size uint64) string {
	switch {
	case size < 1024:
		return fmt.Sprintf("%d bytes", size)
	case size < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(size)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(size)/(1024*1024))
	}
}
