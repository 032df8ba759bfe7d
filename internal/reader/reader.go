// Package reader implements the NK2 file engine: header validation, the item
// index, item materialization and the unallocated block scan. The public
// facade in pkg/nk2 re-exports it.
package reader

import (
	"bytes"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/joshuapare/nk2kit/internal/format"
	"github.com/joshuapare/nk2kit/internal/stream"
	"github.com/joshuapare/nk2kit/pkg/codepage"
	"github.com/joshuapare/nk2kit/pkg/types"
)

type state uint8

const (
	stateUnopened state = iota
	stateOpen
	stateClosed
)

// itemRef locates an item record without decoding it.
type itemRef struct {
	offset     uint64
	entryCount uint32
}

// extent is a byte range occupied by a live structure.
type extent struct {
	offset uint64
	size   uint64
}

// File is an NK2 file. Metadata queries and Item may be called from several
// goroutines once Open has returned; Open, Close and SetCodepage may not run
// concurrently with anything else.
type File struct {
	opts        types.OpenOptions
	log         *slog.Logger
	diagnostics *diagnosticCollector

	state    state
	path     string
	s        stream.Stream
	size     uint64
	header   format.Header
	layout   format.Layout
	codepage codepage.Codepage

	items      []itemRef
	indexNodes []extent

	mu      sync.Mutex // guards unalloc
	unalloc map[types.BlockKind][]types.UnallocatedBlock
}

// New returns an unopened File. Zero-valued options select the defaults.
func New(opts types.OpenOptions) *File {
	if opts.MaxValueSize <= 0 {
		opts.MaxValueSize = types.DefaultMaxValueSize
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	f := &File{opts: opts, log: log}
	if opts.CollectDiagnostics {
		f.diagnostics = newDiagnosticCollector()
	}
	f.codepage = f.resolveCodepage(opts.Codepage)
	return f
}

// Open opens the file at path.
func Open(path string, opts types.OpenOptions) (*File, error) {
	f := New(opts)
	if err := f.Open(path); err != nil {
		return nil, err
	}
	return f, nil
}

// OpenBytes opens an in-memory image.
func OpenBytes(b []byte, opts types.OpenOptions) (*File, error) {
	f := New(opts)
	if err := f.OpenStream(stream.FromBytes(b)); err != nil {
		return nil, err
	}
	return f, nil
}

// OpenReaderAt opens size bytes read through r. When r is an io.Closer it
// is closed by Close, or immediately when parsing fails.
func OpenReaderAt(r io.ReaderAt, size int64, opts types.OpenOptions) (*File, error) {
	f := New(opts)
	if err := f.OpenStream(stream.FromReaderAt(r, size)); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *File) resolveCodepage(cp int) codepage.Codepage {
	if cp == 0 {
		return codepage.Default
	}
	c, err := codepage.Validate(cp)
	if err != nil {
		f.log.Warn("unsupported codepage, using default",
			"codepage", cp, "default", codepage.Default.String())
		return codepage.Default
	}
	return c
}

// Open memory-maps path and parses it.
func (f *File) Open(path string) error {
	if err := f.ensureUnopened(); err != nil {
		return err
	}
	s, err := stream.Open(path)
	if err != nil {
		return types.Set(err, types.DomainIO, types.IOOpenFailed, "unable to open file: %s", path)
	}
	f.path = path
	return f.OpenStream(s)
}

// OpenStream parses s. The File takes ownership of s: it is closed by Close,
// or immediately when parsing fails.
func (f *File) OpenStream(s stream.Stream) error {
	if err := f.ensureUnopened(); err != nil {
		return err
	}
	if s == nil {
		return types.Set(nil, types.DomainArguments, types.ArgumentInvalidValue, "invalid stream")
	}
	start := time.Now()
	if err := f.parse(s); err != nil {
		_ = s.Close()
		f.items, f.indexNodes = nil, nil
		return types.Set(err, types.DomainIO, types.IOOpenFailed, "unable to open file")
	}
	f.s = s
	f.state = stateOpen
	f.diagnostics.setFile(f.path, s.Size(), time.Since(start))
	f.log.Debug("opened nk2 file",
		"path", f.path,
		"type", f.layout.Type.String(),
		"content", types.ContentType(f.header.ContentType).String(),
		"items", len(f.items))
	return nil
}

func (f *File) ensureUnopened() error {
	if f.state != stateUnopened {
		return types.Set(nil, types.DomainRuntime, types.RuntimeValueAlreadySet,
			"file already opened")
	}
	return nil
}

func (f *File) ensureOpen() error {
	switch f.state {
	case stateOpen:
		return nil
	case stateClosed:
		return types.Set(nil, types.DomainRuntime, types.RuntimeValueMissing, "file is closed")
	default:
		return types.Set(nil, types.DomainRuntime, types.RuntimeValueMissing, "file is not open")
	}
}

// parse validates the header and builds the item index.
func (f *File) parse(s stream.Stream) error {
	f.size = uint64(s.Size())

	n := min(f.size, format.HeaderSize)
	head, err := stream.ReadFull(s, 0, int(n))
	if err != nil {
		return wrapReadErr(err, "unable to read file header")
	}
	if len(head) < len(format.FileSignature) {
		return invalidData("file of %d bytes is too small", f.size)
	}
	if !bytes.Equal(head[:len(format.FileSignature)], format.FileSignature) {
		return types.Set(nil, types.DomainInput, types.InputSignatureMismatch,
			"invalid file signature % x", head[:len(format.FileSignature)])
	}
	if len(head) < format.HeaderSize {
		return invalidData("file of %d bytes is smaller than the %d-byte header", f.size, format.HeaderSize)
	}

	h, err := format.ParseHeader(head)
	if err != nil {
		return wrapFormatErr(err, "unable to parse file header")
	}
	if h.RecordedSize > f.size {
		return invalidData("recorded file size %d exceeds stream size %d", h.RecordedSize, f.size)
	}
	if h.RecordedSize < f.size {
		f.diagnostics.record(diagIntegrity(types.SevInfo, format.HeaderSizeFieldOffset, "HEADER",
			"stream is larger than the recorded file size", h.RecordedSize, f.size))
	}
	f.header = h
	f.layout = h.Layout

	if err := f.readIndex(s); err != nil {
		return err
	}
	if uint64(len(f.items)) != uint64(h.ItemCount) {
		if !f.opts.Tolerant {
			return types.Set(nil, types.DomainInput, types.InputValueMismatch,
				"index holds %d items, header records %d", len(f.items), h.ItemCount)
		}
		f.diagnostics.record(diagIntegrity(types.SevWarning, format.HeaderItemCountOffset, "HEADER",
			"item count mismatch", h.ItemCount, len(f.items)))
		f.log.Warn("item count mismatch", "header", h.ItemCount, "index", len(f.items))
	}
	return nil
}

// Close releases the stream. Items materialized earlier stay valid.
// Closing an unopened or closed file is a no-op.
func (f *File) Close() error {
	if f.state != stateOpen {
		f.state = stateClosed
		return nil
	}
	f.state = stateClosed
	s := f.s
	f.s = nil
	if err := s.Close(); err != nil {
		return types.Set(err, types.DomainIO, types.IOCloseFailed, "unable to close file")
	}
	return nil
}

// Size returns the size of the underlying stream in bytes.
func (f *File) Size() (uint64, error) {
	if err := f.ensureOpen(); err != nil {
		return 0, err
	}
	return f.size, nil
}

// ContentType returns the content type from the header.
func (f *File) ContentType() (types.ContentType, error) {
	if err := f.ensureOpen(); err != nil {
		return 0, err
	}
	return types.ContentType(f.header.ContentType), nil
}

// Type returns the record layout variant.
func (f *File) Type() (types.FileType, error) {
	if err := f.ensureOpen(); err != nil {
		return 0, err
	}
	return f.layout.Type, nil
}

// EncryptionValues returns the encryption type and key.
func (f *File) EncryptionValues() (types.EncryptionValues, error) {
	if err := f.ensureOpen(); err != nil {
		return types.EncryptionValues{}, err
	}
	return types.EncryptionValues{
		Type: types.EncryptionType(f.header.Encryption),
		Key:  f.header.Key,
	}, nil
}

// BlockSize returns the allocation unit.
func (f *File) BlockSize() (uint32, error) {
	if err := f.ensureOpen(); err != nil {
		return 0, err
	}
	return uint32(f.header.BlockSize()), nil
}

// NumberOfItems returns the number of items in the index.
func (f *File) NumberOfItems() (int, error) {
	if err := f.ensureOpen(); err != nil {
		return 0, err
	}
	return len(f.items), nil
}

// Info summarizes the header.
func (f *File) Info() (types.FileInfo, error) {
	if err := f.ensureOpen(); err != nil {
		return types.FileInfo{}, err
	}
	return types.FileInfo{
		ContentType:  types.ContentType(f.header.ContentType),
		Type:         f.layout.Type,
		Version:      f.header.Version,
		Encryption:   types.EncryptionType(f.header.Encryption),
		BlockSize:    uint32(f.header.BlockSize()),
		Size:         f.size,
		RecordedSize: f.header.RecordedSize,
		ItemCount:    len(f.items),
	}, nil
}

// Codepage returns the codepage applied to items materialized from now on.
func (f *File) Codepage() codepage.Codepage {
	return f.codepage
}

// SetCodepage changes the codepage for subsequently materialized items.
func (f *File) SetCodepage(cp int) error {
	c, err := codepage.Validate(cp)
	if err != nil {
		return types.Set(err, types.DomainArguments, types.ArgumentUnsupportedValue,
			"unable to set codepage")
	}
	f.codepage = c
	return nil
}

// Diagnostics returns the collected report, or nil when collection is off.
func (f *File) Diagnostics() *types.DiagnosticReport {
	return f.diagnostics.getReport()
}
