package hash

import "github.com/spaolacci/murmur3"

// Seed is the MurmurHash3 seed shared by every k-mer hash in the process.
const Seed = 42

// Kmer hashes a k-mer with MurmurHash3 x64_128 and returns the first 64-bit
// half of the digest (the first eight output bytes, little-endian).
//
// Identical byte windows hash identically regardless of where they occur.
func Kmer(b []byte) uint64 {
	h1, _ := murmur3.Sum128WithSeed(b, Seed)
	return h1
}
