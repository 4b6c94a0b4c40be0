// Package seq normalizes raw sequence bytes before hashing.
package seq

// complement maps each nucleotide to its Watson-Crick partner. Bytes outside
// {A,C,G,T} map to themselves, so ambiguity codes are only mirrored.
var complement [256]byte

func init() {
	for i := range complement {
		complement[i] = byte(i)
	}
	complement['A'] = 'T'
	complement['C'] = 'G'
	complement['G'] = 'C'
	complement['T'] = 'A'
}

// Uppercase converts ASCII lowercase letters to uppercase in place.
// Every other byte is left untouched.
func Uppercase(b []byte) {
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 32
		}
	}
}

// Complement returns the complement of a single base.
func Complement(b byte) byte {
	return complement[b]
}

// ReverseComplement returns a new buffer holding the reverse complement of src.
func ReverseComplement(src []byte) []byte {
	dst := make([]byte, len(src))
	ReverseComplementInto(dst, src)
	return dst
}

// ReverseComplementInto writes the reverse complement of src into dst, which
// must be at least len(src) bytes long. It returns dst[:len(src)].
func ReverseComplementInto(dst, src []byte) []byte {
	n := len(src)
	dst = dst[:n]
	for i := 0; i < n; i++ {
		dst[i] = complement[src[n-1-i]]
	}
	return dst
}
