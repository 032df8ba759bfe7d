//go:build windows

package mmfile

import (
	"fmt"
	"os"
)

// Map reads the whole file; NK2 caches are small enough that mapping buys
// nothing on Windows.
func Map(path string) ([]byte, func() error, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, func() error { return nil }, fmt.Errorf("mmfile: %w", err)
	}
	return data, func() error { return nil }, nil
}
