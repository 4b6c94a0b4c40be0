package persistence

import "errors"

const (
	// MagicNumber identifies sketch files (ASCII: "WNWX").
	MagicNumber = 0x58574e57
	// Version is the current file format version.
	Version = 1

	// HeaderSize is the encoded size of FileHeader.
	HeaderSize = 48
	// RecordSize is the encoded size of one minimizer record.
	RecordSize = 21

	trailerSize = 4
)

var (
	// ErrCorrupt is returned when a blob is truncated or malformed.
	ErrCorrupt = errors.New("corrupt sketch data")
	// ErrChecksumMismatch is returned when the CRC32C trailer does not match.
	ErrChecksumMismatch = errors.New("checksum mismatch")
	// ErrUnsupportedVersion is returned for unknown format versions.
	ErrUnsupportedVersion = errors.New("unsupported format version")
)

// FileHeader is the 48-byte header at the start of every sketch blob.
type FileHeader struct {
	Magic         uint32 // 0x58574e57 ("WNWX")
	Version       uint16 // File format version
	Compression   uint8  // Compression of the record blocks
	Flags         uint8  // Reserved
	KmerSize      uint32
	WindowSize    uint32
	AlphabetSize  uint32
	SequenceCount uint32
	RecordCount   uint64
	SequenceBytes uint64 // Encoded size of the sequence table
	Reserved      [8]byte
}
