// Package types defines the core types shared by the NK2 parser: value type
// numbering, file metadata enums, open options, the domain-coded error chain
// and the diagnostic report.
//
// Design goals:
//   - Paranoid bounds checking; never panic on malformed input.
//   - Typed errors with stable (domain, code) pairs that survive wrapping.
//   - Plain values that can be copied and shared between goroutines.
//
// This package has no dependencies beyond the standard library and go-json.
package types
