// Package hash provides the hashing primitives used by the minimizer index.
//
// # K-mer hashing
//
// Every k-mer is hashed with MurmurHash3 x64_128 using the fixed seed 42.
// Only the first 64 bits of the 128-bit digest are kept:
//
//	h := hash.Kmer(seq[i : i+k])
//
// The seed is a process-wide constant; indexes built with a different seed
// are not comparable.
//
// # CRC32-Castagnoli (CRC32C)
//
// Persisted sketch blobs carry a CRC32C trailer, and S3 uploads send the
// same checksum in base64 form:
//
//	trailer := hash.Checksum(body)
//	header := hash.ChecksumBase64(body)
//
// Go's crc32 package uses hardware instructions when available (SSE4.2,
// ARM CRC).
package hash
