// Package stream provides the random-access byte source the reader parses.
// A Stream is either a memory-mapped file, an in-memory buffer, or any
// io.ReaderAt with a known size.
package stream

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/joshuapare/nk2kit/internal/mmfile"
)

// Stream is a sized, closable random-access byte source.
type Stream interface {
	io.ReaderAt
	io.Closer
	Size() int64
}

// ErrClosed is returned by ReadAt after Close.
var ErrClosed = errors.New("stream: closed")

// Open memory-maps the file at path.
func Open(path string) (Stream, error) {
	data, cleanup, err := mmfile.Map(path)
	if err != nil {
		return nil, fmt.Errorf("stream: open %s: %w", path, err)
	}
	return &mapped{data: data, size: int64(len(data)), r: bytes.NewReader(data), cleanup: cleanup}, nil
}

// FromBytes wraps b. The caller must not modify b while the stream is open.
func FromBytes(b []byte) Stream {
	return &mapped{data: b, size: int64(len(b)), r: bytes.NewReader(b)}
}

// FromReaderAt wraps r with a fixed size. Close closes r when it implements
// io.Closer.
func FromReaderAt(r io.ReaderAt, size int64) Stream {
	return &readerAt{r: r, size: size}
}

// Exists reports whether path names an existing regular file.
func Exists(path string) (bool, error) {
	info, err := os.Stat(path)
	switch {
	case err == nil:
		return info.Mode().IsRegular(), nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("stream: stat %s: %w", path, err)
	}
}

// ReadFull reads exactly n bytes at off. A short read is io.ErrUnexpectedEOF.
func ReadFull(s Stream, off int64, n int) ([]byte, error) {
	if n < 0 || off < 0 {
		return nil, fmt.Errorf("stream: invalid read of %d bytes at %d", n, off)
	}
	if off > s.Size() || int64(n) > s.Size()-off {
		return nil, io.ErrUnexpectedEOF
	}
	b := make([]byte, n)
	if _, err := s.ReadAt(b, off); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return b, nil
}

type mapped struct {
	mu      sync.RWMutex
	data    []byte
	size    int64
	r       *bytes.Reader
	cleanup func() error
	closed  bool
}

func (m *mapped) ReadAt(p []byte, off int64) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return 0, ErrClosed
	}
	return m.r.ReadAt(p, off)
}

func (m *mapped) Size() int64 { return m.size }

func (m *mapped) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	m.data = nil
	if m.cleanup != nil {
		return m.cleanup()
	}
	return nil
}

type readerAt struct {
	mu     sync.RWMutex
	r      io.ReaderAt
	size   int64
	closed bool
}

func (s *readerAt) ReadAt(p []byte, off int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, ErrClosed
	}
	return s.r.ReadAt(p, off)
}

func (s *readerAt) Size() int64 { return s.size }

func (s *readerAt) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if c, ok := s.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
