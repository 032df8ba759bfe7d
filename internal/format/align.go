package format

// Alignment utilities. Every structure after the header starts on a block
// boundary and occupies a whole number of blocks.

// IsAligned reports whether off is a multiple of blockSize (a power of two).
func IsAligned(off, blockSize uint64) bool {
	return off&(blockSize-1) == 0
}

// BlockSpan returns n rounded up to a multiple of blockSize.
//
// Example:
//
//	BlockSpan(1, 64)   = 64
//	BlockSpan(64, 64)  = 64
//	BlockSpan(65, 64)  = 128
func BlockSpan(n, blockSize uint64) uint64 {
	return (n + blockSize - 1) &^ (blockSize - 1)
}
