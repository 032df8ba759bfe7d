package reader

import (
	"errors"
	"io"

	"github.com/joshuapare/nk2kit/internal/format"
	"github.com/joshuapare/nk2kit/pkg/types"
)

// wrapFormatErr maps a decoder error onto a domain-coded frame.
func wrapFormatErr(err error, msg string, args ...any) error {
	domain, code := types.DomainInput, types.InputGeneric
	switch {
	case errors.Is(err, format.ErrSignatureMismatch):
		code = types.InputSignatureMismatch
	case errors.Is(err, format.ErrChecksumMismatch):
		code = types.InputChecksumMismatch
	case errors.Is(err, format.ErrUnsupportedVersion):
		domain, code = types.DomainRuntime, types.RuntimeUnsupportedValue
	case errors.Is(err, format.ErrUnsupported):
		code = types.InputUnsupportedValue
	case errors.Is(err, format.ErrTruncated), errors.Is(err, format.ErrInvalid),
		errors.Is(err, io.ErrUnexpectedEOF):
		code = types.InputInvalidData
	}
	return types.Set(err, domain, code, msg, args...)
}

// wrapReadErr maps a stream read failure. Reads past the end of the stream
// mean an offset in the file is wrong, not that the device failed.
func wrapReadErr(err error, msg string, args ...any) error {
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return types.Set(err, types.DomainInput, types.InputInvalidData, msg, args...)
	}
	return types.Set(err, types.DomainIO, types.IOReadFailed, msg, args...)
}

func invalidData(msg string, args ...any) error {
	return types.Set(nil, types.DomainInput, types.InputInvalidData, msg, args...)
}
