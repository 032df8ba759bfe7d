package nk2

import (
	"io"
	"iter"

	"github.com/joshuapare/nk2kit/internal/reader"
	"github.com/joshuapare/nk2kit/internal/stream"
	"github.com/joshuapare/nk2kit/pkg/types"
)

// Reader is the read-only view of an open NK2 file.
type Reader interface {
	Close() error
	Info() (FileInfo, error)
	NumberOfItems() (int, error)
	Item(i int) (*Item, error)
	NumberOfUnallocatedBlocks(kind BlockKind) (int, error)
	UnallocatedBlock(kind BlockKind, i int) (UnallocatedBlock, error)
	UnallocatedBlocks(kind BlockKind) ([]UnallocatedBlock, error)
	Diagnostics() *DiagnosticReport
}

var _ Reader = (*File)(nil)

// Open opens an NK2 file for reading. The file is memory-mapped where the
// platform allows it. The caller must call Close when done.
//
// Example:
//
//	f, err := nk2.Open("Outlook.NK2", nk2.OpenOptions{Codepage: 1251})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer f.Close()
func Open(path string, opts OpenOptions) (*File, error) {
	return reader.Open(path, opts)
}

// OpenBytes opens an NK2 image held in memory. The slice must not be
// modified while the file is open.
func OpenBytes(b []byte, opts OpenOptions) (*File, error) {
	return reader.OpenBytes(b, opts)
}

// OpenReaderAt opens an NK2 image of size bytes read through r, such as an
// *os.File or a section of a larger evidence image. r is closed by Close
// when it implements io.Closer.
func OpenReaderAt(r io.ReaderAt, size int64, opts OpenOptions) (*File, error) {
	return reader.OpenReaderAt(r, size, opts)
}

// New returns an unopened File; call its Open method to parse a file.
func New(opts OpenOptions) *File {
	return reader.New(opts)
}

// Exists reports whether path names an existing regular file. A stat
// failure other than "not found" is returned as an error.
func Exists(path string) (bool, error) {
	ok, err := stream.Exists(path)
	if err != nil {
		return false, types.Set(err, types.DomainIO, types.IOGeneric, "unable to stat %s", path)
	}
	return ok, nil
}

// Items iterates over every item of r in index order. An item that cannot be
// materialized is yielded with its error and the walk continues.
func Items(r Reader) iter.Seq2[*Item, error] {
	return func(yield func(*Item, error) bool) {
		n, err := r.NumberOfItems()
		if err != nil {
			yield(nil, err)
			return
		}
		for i := range n {
			if !yield(r.Item(i)) {
				return
			}
		}
	}
}
