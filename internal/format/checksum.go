package format

import "github.com/zeebo/xxh3"

// Checksum returns the low 32 bits of the XXH3-64 hash of b.
func Checksum(b []byte) uint32 {
	return uint32(xxh3.Hash(b))
}

// HeaderChecksum hashes the header with its checksum field excluded.
func HeaderChecksum(h []byte) uint32 {
	var tmp [HeaderSize - 4]byte
	n := copy(tmp[:], h[:HeaderChecksumOffset])
	copy(tmp[n:], h[HeaderChecksumOffset+4:HeaderSize])
	return Checksum(tmp[:])
}
