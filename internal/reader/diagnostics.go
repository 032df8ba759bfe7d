package reader

import (
	"sync"
	"time"

	"github.com/joshuapare/nk2kit/pkg/types"
)

// diagnosticCollector accumulates diagnostics during file operations.
// It's nil in normal mode (zero overhead), and only allocated when
// OpenOptions.CollectDiagnostics is true.
type diagnosticCollector struct {
	report *types.DiagnosticReport
	mu     sync.Mutex // Item and unallocated scans may run concurrently
}

func newDiagnosticCollector() *diagnosticCollector {
	return &diagnosticCollector{
		report: types.NewDiagnosticReport(),
	}
}

// record adds a diagnostic to the collection.
func (dc *diagnosticCollector) record(d types.Diagnostic) {
	if dc == nil {
		return // hot path: no-op when collector is nil
	}

	dc.mu.Lock()
	defer dc.mu.Unlock()

	dc.report.Add(d)
}

func (dc *diagnosticCollector) setFile(path string, size int64, scan time.Duration) {
	if dc == nil {
		return
	}
	dc.mu.Lock()
	defer dc.mu.Unlock()
	dc.report.FilePath = path
	dc.report.FileSize = size
	dc.report.ScanTime = scan
}

// getReport finalizes the report and returns a snapshot of it. Later
// Item calls and scans keep recording into the live report.
func (dc *diagnosticCollector) getReport() *types.DiagnosticReport {
	if dc == nil {
		return nil
	}

	dc.mu.Lock()
	defer dc.mu.Unlock()

	dc.report.Finalize()
	return dc.report.Clone()
}

// Helper functions for creating common diagnostics

// diagStructure creates a structure corruption diagnostic.
func diagStructure(severity types.Severity, offset uint64, structure, issue string, expected, actual any) types.Diagnostic {
	return types.Diagnostic{
		Severity:  severity,
		Category:  types.DiagStructure,
		Offset:    offset,
		Structure: structure,
		Issue:     issue,
		Expected:  expected,
		Actual:    actual,
		Item:      -1,
	}
}

// diagData creates a value data diagnostic tied to an item.
func diagData(severity types.Severity, offset uint64, item int, issue string) types.Diagnostic {
	return types.Diagnostic{
		Severity:  severity,
		Category:  types.DiagData,
		Offset:    offset,
		Structure: "ENTRY",
		Issue:     issue,
		Item:      item,
	}
}

// diagIntegrity creates an integrity issue diagnostic.
func diagIntegrity(severity types.Severity, offset uint64, structure, issue string, expected, actual any) types.Diagnostic {
	return types.Diagnostic{
		Severity:  severity,
		Category:  types.DiagIntegrity,
		Offset:    offset,
		Structure: structure,
		Issue:     issue,
		Expected:  expected,
		Actual:    actual,
		Item:      -1,
	}
}
