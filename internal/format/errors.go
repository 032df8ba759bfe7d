package format

import "errors"

var (
	// ErrSignatureMismatch indicates a structure had an unexpected magic.
	ErrSignatureMismatch = errors.New("format: signature mismatch")
	// ErrTruncated indicates the buffer lacked the bytes required for a structure.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrChecksumMismatch indicates a stored checksum did not match the data.
	ErrChecksumMismatch = errors.New("format: checksum mismatch")
	// ErrInvalid indicates a field held a value outside its legal range.
	ErrInvalid = errors.New("format: invalid field")
	// ErrUnsupportedVersion indicates a format version with no known layout.
	ErrUnsupportedVersion = errors.New("format: unsupported version")
	// ErrUnsupported indicates the structure or feature is not supported.
	ErrUnsupported = errors.New("format: unsupported feature")
)
