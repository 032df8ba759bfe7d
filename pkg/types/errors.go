package types

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// -----------------------------------------------------------------------------
// Error Chain (domain-coded frames for programmatic handling)
// -----------------------------------------------------------------------------
//
// Every layer that catches a lower-layer failure appends a frame describing
// its own context via Set. The frames form a chain linked through Unwrap, so
// the root cause is never lost and errors.Is/errors.As work across the chain.
//
//	if err := f.Open(path); err != nil {
//	    types.Fprint(os.Stderr, err) // root cause first, one frame per line
//	    if errors.Is(err, types.ErrSignatureMismatch) {
//	        ...
//	    }
//	}

// ErrDomain groups error codes by the subsystem that raised them.
type ErrDomain int

const (
	DomainArguments   ErrDomain = iota + 1 // invalid or out-of-range caller input
	DomainConversion                       // encoding transform failure
	DomainCompression                      // compressed payload failure
	DomainIO                               // open/close/seek/read failures
	DomainInput                            // malformed on-disk data
	DomainMemory                           // allocation/copy failure
	DomainOutput                           // insufficient destination space
	DomainRuntime                          // lifecycle and state violations
)

func (d ErrDomain) String() string {
	switch d {
	case DomainArguments:
		return "arguments"
	case DomainConversion:
		return "conversion"
	case DomainCompression:
		return "compression"
	case DomainIO:
		return "io"
	case DomainInput:
		return "input"
	case DomainMemory:
		return "memory"
	case DomainOutput:
		return "output"
	case DomainRuntime:
		return "runtime"
	default:
		return fmt.Sprintf("domain(%d)", int(d))
	}
}

// ErrCode is a numeric code within a domain. Codes are only meaningful
// together with their domain; the same number means different things in
// different domains.
type ErrCode int

// Arguments domain codes.
const (
	ArgumentGeneric ErrCode = iota
	ArgumentInvalidValue
	ArgumentValueLessThanZero
	ArgumentValueZeroOrLess
	ArgumentValueExceedsMaximum
	ArgumentValueTooSmall
	ArgumentValueTooLarge
	ArgumentValueOutOfBounds
	ArgumentUnsupportedValue
	ArgumentConflictingValue
)

// Conversion domain codes.
const (
	ConversionGeneric ErrCode = iota
	ConversionInputFailed
	ConversionOutputFailed
)

// Compression domain codes.
const (
	CompressionGeneric ErrCode = iota
	CompressionCompressFailed
	CompressionDecompressFailed
)

// IO domain codes.
const (
	IOGeneric ErrCode = iota
	IOOpenFailed
	IOCloseFailed
	IOSeekFailed
	IOReadFailed
	IOWriteFailed
	IOAccessDenied
	IOInvalidResource
	IOIoctlFailed
	IOUnlinkFailed
)

// Input domain codes.
const (
	InputGeneric ErrCode = iota
	InputInvalidData
	InputSignatureMismatch
	InputChecksumMismatch
	InputValueMismatch
	InputUnsupportedValue
)

// Memory domain codes.
const (
	MemoryGeneric ErrCode = iota
	MemoryInsufficient
	MemoryCopyFailed
	MemorySetFailed
)

// Output domain codes.
const (
	OutputGeneric ErrCode = iota
	OutputInsufficientSpace
)

// Runtime domain codes.
const (
	RuntimeGeneric ErrCode = iota
	RuntimeValueMissing
	RuntimeValueAlreadySet
	RuntimeInitializeFailed
	RuntimeResizeFailed
	RuntimeFinalizeFailed
	RuntimeGetFailed
	RuntimeSetFailed
	RuntimeAppendFailed
	RuntimeCopyFailed
	RuntimeRemoveFailed
	RuntimePrintFailed
	RuntimeValueOutOfBounds
	RuntimeValueExceedsMaximum
	RuntimeUnsupportedValue
	RuntimeAbortRequested
)

var codeNames = map[ErrDomain][]string{
	DomainArguments: {
		"generic", "invalid value", "value less than zero", "value zero or less",
		"value exceeds maximum", "value too small", "value too large",
		"value out of bounds", "unsupported value", "conflicting value",
	},
	DomainConversion:  {"generic", "input failed", "output failed"},
	DomainCompression: {"generic", "compress failed", "decompress failed"},
	DomainIO: {
		"generic", "open failed", "close failed", "seek failed", "read failed",
		"write failed", "access denied", "invalid resource", "ioctl failed", "unlink failed",
	},
	DomainInput: {
		"generic", "invalid data", "signature mismatch", "checksum mismatch",
		"value mismatch", "unsupported value",
	},
	DomainMemory: {"generic", "insufficient", "copy failed", "set failed"},
	DomainOutput: {"generic", "insufficient space"},
	DomainRuntime: {
		"generic", "value missing", "value already set", "initialize failed",
		"resize failed", "finalize failed", "get failed", "set failed", "append failed",
		"copy failed", "remove failed", "print failed", "value out of bounds",
		"value exceeds maximum", "unsupported value", "abort requested",
	},
}

// CodeName returns the human-readable name of code within domain.
func CodeName(domain ErrDomain, code ErrCode) string {
	names := codeNames[domain]
	if int(code) < 0 || int(code) >= len(names) {
		return fmt.Sprintf("code(%d)", int(code))
	}
	return names[code]
}

// Error is a single frame of an error chain.
type Error struct {
	Domain ErrDomain
	Code   ErrCode
	Msg    string
	Err    error // cause (the frame pushed before this one)
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same domain and code.
// Sentinels carry only a domain and code, so errors.Is(err, ErrOutOfBounds)
// matches any frame in the chain raised with that pair.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Domain == t.Domain && e.Code == t.Code
}

// Sentinels for the (domain, code) pairs callers most often branch on.
var (
	ErrOutOfBounds       = &Error{Domain: DomainArguments, Code: ArgumentValueOutOfBounds, Msg: "value out of bounds"}
	ErrInvalidArgument   = &Error{Domain: DomainArguments, Code: ArgumentInvalidValue, Msg: "invalid argument"}
	ErrInvalidData       = &Error{Domain: DomainInput, Code: InputInvalidData, Msg: "invalid data"}
	ErrSignatureMismatch = &Error{Domain: DomainInput, Code: InputSignatureMismatch, Msg: "signature mismatch"}
	ErrChecksumMismatch  = &Error{Domain: DomainInput, Code: InputChecksumMismatch, Msg: "checksum mismatch"}
	ErrValueMismatch     = &Error{Domain: DomainInput, Code: InputValueMismatch, Msg: "value mismatch"}
	ErrUnsupportedInput  = &Error{Domain: DomainInput, Code: InputUnsupportedValue, Msg: "unsupported value"}
	ErrValueMissing      = &Error{Domain: DomainRuntime, Code: RuntimeValueMissing, Msg: "value missing"}
	ErrValueAlreadySet   = &Error{Domain: DomainRuntime, Code: RuntimeValueAlreadySet, Msg: "value already set"}
	ErrUnsupportedValue  = &Error{Domain: DomainRuntime, Code: RuntimeUnsupportedValue, Msg: "unsupported value"}
	ErrExceedsMaximum    = &Error{Domain: DomainRuntime, Code: RuntimeValueExceedsMaximum, Msg: "value exceeds maximum"}
	ErrInsufficientSpace = &Error{Domain: DomainOutput, Code: OutputInsufficientSpace, Msg: "insufficient space"}
	ErrConversionFailed  = &Error{Domain: DomainConversion, Code: ConversionOutputFailed, Msg: "conversion failed"}
	ErrDecompressFailed  = &Error{Domain: DomainCompression, Code: CompressionDecompressFailed, Msg: "decompress failed"}
	ErrOpenFailed        = &Error{Domain: DomainIO, Code: IOOpenFailed, Msg: "open failed"}
	ErrReadFailed        = &Error{Domain: DomainIO, Code: IOReadFailed, Msg: "read failed"}
)

// Set pushes a new frame onto err and returns the extended chain. A nil err
// starts a new chain.
func Set(err error, domain ErrDomain, code ErrCode, format string, args ...any) error {
	return &Error{
		Domain: domain,
		Code:   code,
		Msg:    fmt.Sprintf(format, args...),
		Err:    err,
	}
}

// Free releases the chain held in *errp. A nil pointer or nil error is a no-op.
func Free(errp *error) {
	if errp == nil {
		return
	}
	*errp = nil
}

// Frame is one rendered element of an error chain.
type Frame struct {
	Domain ErrDomain
	Code   ErrCode
	Msg    string
}

func (f Frame) String() string {
	if f.Domain == 0 {
		return f.Msg
	}
	return fmt.Sprintf("%s/%s: %s", f.Domain, CodeName(f.Domain, f.Code), f.Msg)
}

// Frames returns the chain outermost frame first. Errors that are not *Error
// (for example a wrapped os.PathError) contribute a frame without a domain.
// Chains built with fmt.Errorf("...: %w") are followed through Unwrap.
func Frames(err error) []Frame {
	var frames []Frame
	for err != nil {
		if e, ok := err.(*Error); ok && e != nil {
			frames = append(frames, Frame{Domain: e.Domain, Code: e.Code, Msg: e.Msg})
			err = e.Err
			continue
		}
		next := errors.Unwrap(err)
		if next == nil {
			frames = append(frames, Frame{Msg: err.Error()})
			break
		}
		msg := strings.TrimSuffix(err.Error(), ": "+next.Error())
		frames = append(frames, Frame{Msg: msg})
		err = next
	}
	return frames
}

// Fprint writes every frame of err to w, root cause first. A nil err writes
// nothing and is not an error.
func Fprint(w io.Writer, err error) (int, error) {
	if err == nil {
		return 0, nil
	}
	frames := Frames(err)
	total := 0
	for i := len(frames) - 1; i >= 0; i-- {
		n, werr := fmt.Fprintln(w, frames[i].String())
		total += n
		if werr != nil {
			return total, Set(werr, DomainRuntime, RuntimePrintFailed, "unable to print error frame")
		}
	}
	return total, nil
}

// Sprint renders every frame of err, root cause first.
func Sprint(err error) string {
	var b strings.Builder
	_, _ = Fprint(&b, err)
	return b.String()
}
