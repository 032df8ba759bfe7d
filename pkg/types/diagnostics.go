package types

import (
	"fmt"
	"sort"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

// -----------------------------------------------------------------------------
// Diagnostic System - Passive Forensics
// -----------------------------------------------------------------------------
//
// The diagnostic system records every recoverable issue met while parsing
// (skipped index nodes, corrupt items, undecodable entries) with its exact
// byte offset, without changing what the parser returns.
//   - Opt-in via OpenOptions.CollectDiagnostics (nil collector otherwise)
//   - Collects ALL issues, not just the first error
//   - Supports text and JSON output

// Severity classifies how serious a diagnostic issue is
type Severity int

const (
	SevInfo     Severity = iota // Informational (unusual but valid)
	SevWarning                  // Non-critical issue, data still reachable
	SevError                    // Item or entry inaccessible
	SevCritical                 // Structural corruption, index incomplete
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	case SevCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// MarshalText renders the severity by name in JSON output.
func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// DiagCategory classifies the type of issue found
type DiagCategory int

const (
	DiagStructure DiagCategory = iota // header/index node/item record problems
	DiagData                          // value data corruption or truncation
	DiagIntegrity                     // checksums, counts, references broken
)

func (c DiagCategory) String() string {
	switch c {
	case DiagStructure:
		return "STRUCTURE"
	case DiagData:
		return "DATA"
	case DiagIntegrity:
		return "INTEGRITY"
	default:
		return "UNKNOWN"
	}
}

// MarshalText renders the category by name in JSON output.
func (c DiagCategory) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// Diagnostic represents a single issue found in the file
type Diagnostic struct {
	Severity  Severity     `json:"severity"`
	Category  DiagCategory `json:"category"`
	Offset    uint64       `json:"offset"`
	Structure string       `json:"structure"` // "HEADER", "INDEX", "ITEM", "ENTRY", "BLOCK"
	Issue     string       `json:"issue"`
	Expected  any          `json:"expected,omitempty"`
	Actual    any          `json:"actual,omitempty"`
	Item      int          `json:"item"` // item index, -1 when not item-specific
}

// DiagnosticReport collects all diagnostics found during parsing
type DiagnosticReport struct {
	// Metadata
	FilePath string        `json:"file_path,omitempty"`
	FileSize int64         `json:"file_size"`
	ScanTime time.Duration `json:"scan_time"`

	// Issues
	Diagnostics []Diagnostic `json:"diagnostics"`

	// Summary statistics
	Summary DiagSummary `json:"summary"`

	// Pre-computed groupings for efficient querying
	BySeverity map[Severity][]Diagnostic `json:"-"`
	ByOffset   []Diagnostic              `json:"-"` // sorted by offset
}

// DiagSummary provides quick statistics
type DiagSummary struct {
	Critical int `json:"critical"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Info     int `json:"info"`
}

// NewDiagnosticReport creates an empty report
func NewDiagnosticReport() *DiagnosticReport {
	return &DiagnosticReport{
		BySeverity: make(map[Severity][]Diagnostic),
	}
}

// Add adds a diagnostic to the report and updates indices
func (r *DiagnosticReport) Add(d Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, d)

	switch d.Severity {
	case SevCritical:
		r.Summary.Critical++
	case SevError:
		r.Summary.Errors++
	case SevWarning:
		r.Summary.Warnings++
	case SevInfo:
		r.Summary.Info++
	}

	r.BySeverity[d.Severity] = append(r.BySeverity[d.Severity], d)
}

// Finalize sorts diagnostics by offset and prepares for output
func (r *DiagnosticReport) Finalize() {
	r.ByOffset = make([]Diagnostic, len(r.Diagnostics))
	copy(r.ByOffset, r.Diagnostics)
	sort.SliceStable(r.ByOffset, func(i, j int) bool {
		return r.ByOffset[i].Offset < r.ByOffset[j].Offset
	})
}

// Clone returns a copy that shares no slices or maps with r.
func (r *DiagnosticReport) Clone() *DiagnosticReport {
	c := *r
	c.Diagnostics = append([]Diagnostic(nil), r.Diagnostics...)
	c.ByOffset = append([]Diagnostic(nil), r.ByOffset...)
	c.BySeverity = make(map[Severity][]Diagnostic, len(r.BySeverity))
	for sev, ds := range r.BySeverity {
		c.BySeverity[sev] = append([]Diagnostic(nil), ds...)
	}
	return &c
}

// HasCriticalIssues returns true if any critical issues were found
func (r *DiagnosticReport) HasCriticalIssues() bool {
	return r.Summary.Critical > 0
}

// HasErrors returns true if any errors or critical issues were found
func (r *DiagnosticReport) HasErrors() bool {
	return r.Summary.Critical > 0 || r.Summary.Errors > 0
}

// HasAnyIssues returns true if any issues were found (including warnings and info)
func (r *DiagnosticReport) HasAnyIssues() bool {
	return len(r.Diagnostics) > 0
}

// -----------------------------------------------------------------------------
// Output Formatters
// -----------------------------------------------------------------------------

// FormatJSON returns the report as formatted JSON (2-space indentation)
func (r *DiagnosticReport) FormatJSON() (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FormatText returns a human-readable text report
func (r *DiagnosticReport) FormatText() string {
	var b strings.Builder

	b.WriteString(strings.Repeat("=", 79) + "\n")
	b.WriteString("NK2 Diagnostic Report\n")
	b.WriteString(strings.Repeat("=", 79) + "\n\n")

	if r.FilePath != "" {
		fmt.Fprintf(&b, "File:      %s\n", r.FilePath)
	}
	fmt.Fprintf(&b, "Size:      %d bytes\n", r.FileSize)
	fmt.Fprintf(&b, "Scan time: %v\n\n", r.ScanTime)

	b.WriteString("SUMMARY\n")
	b.WriteString(strings.Repeat("-", 79) + "\n")
	fmt.Fprintf(&b, "  Critical: %d\n", r.Summary.Critical)
	fmt.Fprintf(&b, "  Errors:   %d\n", r.Summary.Errors)
	fmt.Fprintf(&b, "  Warnings: %d\n", r.Summary.Warnings)
	fmt.Fprintf(&b, "  Info:     %d\n\n", r.Summary.Info)

	if len(r.Diagnostics) == 0 {
		b.WriteString("No issues found.\n")
		return b.String()
	}

	b.WriteString("DIAGNOSTICS\n")
	b.WriteString(strings.Repeat("-", 79) + "\n\n")

	for _, severity := range []Severity{SevCritical, SevError, SevWarning, SevInfo} {
		diags := r.BySeverity[severity]
		if len(diags) == 0 {
			continue
		}

		fmt.Fprintf(&b, "%s (%d)\n", severity, len(diags))
		b.WriteString(strings.Repeat("~", 79) + "\n")

		for i, d := range diags {
			fmt.Fprintf(&b, "\n%d. [%s/%s] at offset 0x%X\n", i+1, d.Structure, d.Category, d.Offset)
			fmt.Fprintf(&b, "   %s\n", d.Issue)
			if d.Item >= 0 {
				fmt.Fprintf(&b, "   Item:     %d\n", d.Item)
			}
			if d.Expected != nil {
				fmt.Fprintf(&b, "   Expected: %v\n", d.Expected)
			}
			if d.Actual != nil {
				fmt.Fprintf(&b, "   Actual:   %v\n", d.Actual)
			}
		}
		b.WriteString("\n")
	}

	return b.String()
}

// FormatTextCompact returns a compact one-line-per-issue text format
func (r *DiagnosticReport) FormatTextCompact() string {
	var b strings.Builder

	for _, d := range r.ByOffset {
		fmt.Fprintf(&b, "0x%08X [%s/%s/%s] %s\n",
			d.Offset, d.Severity, d.Structure, d.Category, d.Issue)
	}

	if len(r.Diagnostics) == 0 {
		b.WriteString("No issues found.\n")
	}

	return b.String()
}
