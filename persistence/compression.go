package persistence

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression defines the algorithm used for record blocks.
type Compression uint8

const (
	// CompressionNone stores blocks as-is.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 block compression (fast).
	CompressionLZ4 Compression = 1
	// CompressionZSTD uses ZSTD (better ratio).
	CompressionZSTD Compression = 2
)

// String returns the stable name of the compression.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

// ParseCompression parses "none", "lz4" or "zstd".
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZSTD, nil
	default:
		return CompressionNone, fmt.Errorf("unknown compression %q", s)
	}
}

// DefaultBlockSize is the uncompressed size of a record block.
const DefaultBlockSize = 256 * 1024

const blockHeaderSize = 8

// ZSTD encoder/decoder pools for efficiency
var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func putZstdEncoder(enc *zstd.Encoder) {
	zstdEncoderPool.Put(enc)
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

func putZstdDecoder(dec *zstd.Decoder) {
	zstdDecoderPool.Put(dec)
}

// compressBlock returns the framed block. Blocks that do not shrink below
// 90% of their size are stored uncompressed.
func compressBlock(data []byte, c Compression) ([]byte, error) {
	var compressed []byte

	switch c {
	case CompressionLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, err
		}
		compressed = buf[:n]
	case CompressionZSTD:
		enc := getZstdEncoder()
		compressed = enc.EncodeAll(data, nil)
		putZstdEncoder(enc)
	}

	if len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*0.9 {
		out := make([]byte, blockHeaderSize+len(data))
		binary.LittleEndian.PutUint32(out[0:], uint32(len(data)))
		binary.LittleEndian.PutUint32(out[4:], 0)
		copy(out[blockHeaderSize:], data)
		return out, nil
	}

	out := make([]byte, blockHeaderSize+len(compressed))
	binary.LittleEndian.PutUint32(out[0:], uint32(len(data)))
	binary.LittleEndian.PutUint32(out[4:], uint32(len(compressed)))
	copy(out[blockHeaderSize:], compressed)
	return out, nil
}

// BlockWriter writes compressed blocks to an underlying writer.
type BlockWriter struct {
	w           io.Writer
	compression Compression
	blockSize   int
	buffer      *bytes.Buffer
	written     int64
}

// NewBlockWriter creates a new block writer.
func NewBlockWriter(w io.Writer, c Compression, blockSize int) *BlockWriter {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	return &BlockWriter{
		w:           w,
		compression: c,
		blockSize:   blockSize,
		buffer:      bytes.NewBuffer(make([]byte, 0, blockSize)),
	}
}

// Write buffers p, flushing full blocks as needed.
func (b *BlockWriter) Write(p []byte) (int, error) {
	total := 0
	for len(p) > 0 {
		space := b.blockSize - b.buffer.Len()
		if space <= 0 {
			if err := b.Flush(); err != nil {
				return total, err
			}
			space = b.blockSize
		}

		n := min(len(p), space)
		b.buffer.Write(p[:n])
		total += n
		p = p[n:]
	}
	return total, nil
}

// Flush compresses and writes the buffered block, if any.
func (b *BlockWriter) Flush() error {
	if b.buffer.Len() == 0 {
		return nil
	}

	block, err := compressBlock(b.buffer.Bytes(), b.compression)
	if err != nil {
		return err
	}

	n, err := b.w.Write(block)
	b.written += int64(n)
	if err != nil {
		return err
	}
	b.buffer.Reset()
	return nil
}

// BytesWritten returns the total framed bytes written.
func (b *BlockWriter) BytesWritten() int64 {
	return b.written
}

// BlockReader decodes framed blocks from an in-memory buffer.
type BlockReader struct {
	data        []byte
	offset      int
	compression Compression
}

// NewBlockReader creates a reader starting at offset.
func NewBlockReader(data []byte, offset int, c Compression) *BlockReader {
	return &BlockReader{data: data, offset: offset, compression: c}
}

// Offset returns the position of the next block.
func (r *BlockReader) Offset() int { return r.offset }

// ReadBlock reads and decompresses the next block.
func (r *BlockReader) ReadBlock() ([]byte, error) {
	if r.offset == len(r.data) {
		return nil, io.EOF
	}
	if r.offset+blockHeaderSize > len(r.data) {
		return nil, fmt.Errorf("%w: truncated block header", ErrCorrupt)
	}

	uncompressedSize := int(binary.LittleEndian.Uint32(r.data[r.offset:]))
	compressedSize := int(binary.LittleEndian.Uint32(r.data[r.offset+4:]))
	start := r.offset + blockHeaderSize

	if compressedSize == 0 {
		if start+uncompressedSize > len(r.data) {
			return nil, fmt.Errorf("%w: block extends beyond data", ErrCorrupt)
		}
		r.offset = start + uncompressedSize
		return r.data[start:r.offset], nil
	}

	if start+compressedSize > len(r.data) {
		return nil, fmt.Errorf("%w: compressed block extends beyond data", ErrCorrupt)
	}
	src := r.data[start : start+compressedSize]
	dst := make([]byte, uncompressedSize)

	switch r.compression {
	case CompressionLZ4:
		n, err := lz4.UncompressBlock(src, dst)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		if n != uncompressedSize {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}
	case CompressionZSTD:
		dec := getZstdDecoder()
		decoded, err := dec.DecodeAll(src, dst[:0])
		putZstdDecoder(dec)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		if len(decoded) != uncompressedSize {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}
		dst = decoded
	default:
		return nil, fmt.Errorf("%w: compressed block without codec", ErrCorrupt)
	}

	r.offset = start + compressedSize
	return dst, nil
}
