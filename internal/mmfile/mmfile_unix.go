//go:build unix

package mmfile

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/sys/unix"
)

// Map maps the file at path read-only into memory and returns its contents.
// The returned cleanup unmaps the region; calling it more than once is a no-op.
func Map(path string) ([]byte, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close() // safe before return; mapping keeps pages alive

	info, err := f.Stat()
	if err != nil {
		return nil, nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, nil, fmt.Errorf("mmfile: %s is not a regular file", path)
	}
	size := info.Size()
	if size == 0 {
		return []byte{}, func() error { return nil }, nil
	}
	if size > int64(^uint(0)>>1) {
		return nil, nil, fmt.Errorf("mmfile: file too large to map (%d bytes)", size)
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, fmt.Errorf("mmfile: mmap %s: %w", path, err)
	}
	var once sync.Once
	cleanup := func() error {
		var err error
		once.Do(func() { err = unix.Munmap(data) })
		return err
	}
	return data, cleanup, nil
}
