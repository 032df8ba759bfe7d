package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/joshuapare/nk2kit/internal/logger"
	"github.com/joshuapare/nk2kit/pkg/codepage"
	"github.com/joshuapare/nk2kit/pkg/nk2"
	"github.com/joshuapare/nk2kit/pkg/types"
)

var (
	// Global flags
	verbose    bool
	quiet      bool
	jsonOut    bool
	configFile string

	cfg       = defaultConfig()
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "nk2ctl",
	Short: "Inspect Outlook nickname cache (NK2) files",
	Long: `nk2ctl reads Outlook nickname cache files and reports their header,
the cached recipients and every property stored for them. It can export each
recipient to a text file, list unallocated regions for carving, and run a
diagnostic scan that records every inconsistency with its file offset.

Settings are read from nk2ctl.yaml in ., $HOME/.nk2ctl or /etc/nk2ctl and from
NK2CTL_* environment variables; flags override both.`,
	Version:           "0.1.0",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logCloser != nil {
			return logCloser.Close()
		}
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output and debug logging")
	pf.BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	pf.BoolVar(&jsonOut, "json", false, "Output in JSON format")
	pf.StringVar(&configFile, "config", "", "Config file (default: nk2ctl.yaml in ., $HOME/.nk2ctl, /etc/nk2ctl)")
	pf.String("codepage", codepage.Default.String(), "Codepage of PT_STRING8 values (number or name)")
	pf.Bool("tolerant", false, "Keep going past a corrupt index node or an item count mismatch")
	pf.String("log-level", "warn", "Log level: debug, info, warn, error")
	pf.String("log-dir", "", "Write logs to a dated file in this directory instead of stderr")
}

// setup loads the configuration and initializes logging before any command
// runs.
func setup(cmd *cobra.Command, args []string) error {
	c, err := loadConfig(cmd.Flags(), configFile)
	if err != nil {
		return err
	}
	if jsonOut {
		c.Output = outputJSON
	}
	cfg = c
	jsonOut = cfg.Output == outputJSON

	level := logger.ParseLevel(cfg.LogLevel)
	if verbose {
		level = slog.LevelDebug
	}
	logCloser, err = logger.Init(logger.Options{
		Enabled: true,
		JSON:    jsonOut,
		Level:   level,
		Writer:  os.Stderr,
		LogDir:  cfg.LogDir,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	logger.Debug("configuration loaded", "codepage", cfg.Codepage, "tolerant", cfg.Tolerant, "output", cfg.Output)
	return nil
}

// exitError carries a process exit code for results that are not failures of
// the command itself, such as a diagnostic scan that found errors.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }

func execute() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}
	var ee *exitError
	if errors.As(err, &ee) {
		if ee.msg != "" {
			fmt.Fprintln(os.Stderr, ee.msg)
		}
		os.Exit(ee.code)
	}
	printError("%v\n", err)
	if verbose {
		types.Fprint(os.Stderr, err)
	}
	os.Exit(1)
}

// openFile opens path with the options from the configuration. Each adjust
// function may change the options before the file is opened.
func openFile(path string, adjust ...func(*nk2.OpenOptions)) (*nk2.File, error) {
	cp, err := codepage.Parse(cfg.Codepage)
	if err != nil {
		return nil, fmt.Errorf("invalid codepage %q: %w", cfg.Codepage, err)
	}
	opts := nk2.OpenOptions{
		Codepage: int(cp),
		Tolerant: cfg.Tolerant,
		Logger:   logger.L,
	}
	for _, fn := range adjust {
		fn(&opts)
	}
	printVerbose("Opening: %s (codepage %s)\n", path, cp)
	f, err := nk2.Open(path, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return f, nil
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...any) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
