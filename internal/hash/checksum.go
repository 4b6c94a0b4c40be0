package hash

import (
	"encoding/base64"
	"encoding/binary"
	"hash"
	"hash/crc32"
)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// Checksum returns the CRC32C of a sketch body as stored in its trailer and
// manifest.
func Checksum(body []byte) uint32 {
	return crc32.Checksum(body, castagnoli)
}

// NewChecksum returns a running CRC32C for encoders that checksum a sketch
// body while writing it. Its Sum32 equals Checksum over the same bytes.
func NewChecksum() hash.Hash32 {
	return crc32.New(castagnoli)
}

// ChecksumBase64 returns the CRC32C of data in the form S3 expects for
// the x-amz-checksum-crc32c header: big-endian, base64 encoded.
func ChecksumBase64(data []byte) string {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], Checksum(data))
	return base64.StdEncoding.EncodeToString(b[:])
}
