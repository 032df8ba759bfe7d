package format

// Stored value bytes are obfuscated with a keyed byte substitution. The
// substitution table is the permutation T[i] = i*167 + 13 (mod 256). Each
// stored buffer (inline value bytes or one data block payload) is
// transformed independently, with the position i counted from 0.
//
//	compressible: plain = T⁻¹[c] ^ k[0]
//	high:         plain = T⁻¹[c] - (k[i mod 4] + i)
//
// where k[j] is byte j (little-endian) of the key.

var (
	substTable   [256]byte
	inverseTable [256]byte
)

func init() {
	for i := range 256 {
		c := byte(i*167 + 13)
		substTable[i] = c
		inverseTable[c] = byte(i)
	}
}

// Decrypt reverses the substitution in place. EncryptionNone and unknown
// types leave b untouched.
func Decrypt(b []byte, encryption uint8, key uint32) {
	switch encryption {
	case EncryptionCompressible:
		k0 := byte(key)
		for i, c := range b {
			b[i] = inverseTable[c] ^ k0
		}
	case EncryptionHigh:
		for i, c := range b {
			b[i] = inverseTable[c] - (byte(key>>(8*(i%4))) + byte(i))
		}
	}
}

// Encrypt applies the substitution in place; Decrypt(Encrypt(b)) == b.
func Encrypt(b []byte, encryption uint8, key uint32) {
	switch encryption {
	case EncryptionCompressible:
		k0 := byte(key)
		for i, p := range b {
			b[i] = substTable[p^k0]
		}
	case EncryptionHigh:
		for i, p := range b {
			b[i] = substTable[p+byte(key>>(8*(i%4)))+byte(i)]
		}
	}
}
