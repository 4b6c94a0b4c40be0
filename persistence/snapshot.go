package persistence

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	ihash "github.com/hupe1980/winnow/internal/hash"
	"github.com/hupe1980/winnow/model"
)

// Sequence describes one indexed sequence.
type Sequence struct {
	Name   string `json:"name"`
	Length int64  `json:"length"`
}

// Snapshot is the decoded content of a sketch blob.
type Snapshot struct {
	KmerSize     int
	WindowSize   int
	AlphabetSize int
	Sequences    []Sequence
	Records      []model.Record
}

// maxPrealloc bounds the record slice allocated from an untrusted header.
const maxPrealloc = 1 << 20

// Encode writes snap to w and returns the number of bytes written.
func Encode(w io.Writer, snap *Snapshot, c Compression) (int64, error) {
	if len(snap.Sequences) > math.MaxUint32 {
		return 0, fmt.Errorf("too many sequences: %d", len(snap.Sequences))
	}

	cw := NewChecksumWriter(w)

	var table bytes.Buffer
	for _, s := range snap.Sequences {
		if len(s.Name) > math.MaxUint16 {
			return 0, fmt.Errorf("sequence name too long: %d bytes", len(s.Name))
		}
		var hdr [2]byte
		binary.LittleEndian.PutUint16(hdr[:], uint16(len(s.Name)))
		table.Write(hdr[:])
		table.WriteString(s.Name)
		var l [8]byte
		binary.LittleEndian.PutUint64(l[:], uint64(s.Length))
		table.Write(l[:])
	}

	header := FileHeader{
		Magic:         MagicNumber,
		Version:       Version,
		Compression:   uint8(c),
		KmerSize:      uint32(snap.KmerSize),
		WindowSize:    uint32(snap.WindowSize),
		AlphabetSize:  uint32(snap.AlphabetSize),
		SequenceCount: uint32(len(snap.Sequences)),
		RecordCount:   uint64(len(snap.Records)),
		SequenceBytes: uint64(table.Len()),
	}
	if err := binary.Write(cw, binary.LittleEndian, &header); err != nil {
		return cw.Written(), err
	}
	if _, err := cw.Write(table.Bytes()); err != nil {
		return cw.Written(), err
	}

	bw := NewBlockWriter(cw, c, DefaultBlockSize)
	var rec [RecordSize]byte
	for _, r := range snap.Records {
		putRecord(rec[:], r)
		if _, err := bw.Write(rec[:]); err != nil {
			return cw.Written(), err
		}
	}
	if err := bw.Flush(); err != nil {
		return cw.Written(), err
	}

	var trailer [trailerSize]byte
	binary.LittleEndian.PutUint32(trailer[:], cw.Sum())
	if _, err := cw.Write(trailer[:]); err != nil {
		return cw.Written(), err
	}
	return cw.Written(), nil
}

// Decode parses a complete sketch blob.
func Decode(data []byte) (*Snapshot, error) {
	if len(data) < HeaderSize+trailerSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrCorrupt, len(data))
	}

	body := data[:len(data)-trailerSize]
	want := binary.LittleEndian.Uint32(data[len(data)-trailerSize:])
	if got := ihash.Checksum(body); got != want {
		return nil, fmt.Errorf("%w: got %08x, want %08x", ErrChecksumMismatch, got, want)
	}

	var header FileHeader
	if err := binary.Read(bytes.NewReader(body[:HeaderSize]), binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if header.Magic != MagicNumber {
		return nil, fmt.Errorf("%w: bad magic %08x", ErrCorrupt, header.Magic)
	}
	if header.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, header.Version)
	}

	off := HeaderSize
	if header.SequenceBytes > uint64(len(body)-off) {
		return nil, fmt.Errorf("%w: sequence table extends beyond data", ErrCorrupt)
	}
	table := body[off : off+int(header.SequenceBytes)]
	seqs, err := decodeSequences(table, int(header.SequenceCount))
	if err != nil {
		return nil, err
	}
	off += len(table)

	records := make([]model.Record, 0, min(header.RecordCount, maxPrealloc))
	br := NewBlockReader(body, off, Compression(header.Compression))
	var pending []byte
	for {
		block, err := br.ReadBlock()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		pending = append(pending, block...)
		n := len(pending) / RecordSize * RecordSize
		for i := 0; i < n; i += RecordSize {
			records = append(records, getRecord(pending[i:i+RecordSize]))
		}
		pending = append(pending[:0], pending[n:]...)
	}
	if len(pending) != 0 || uint64(len(records)) != header.RecordCount {
		return nil, fmt.Errorf("%w: expected %d records, decoded %d", ErrCorrupt, header.RecordCount, len(records))
	}

	return &Snapshot{
		KmerSize:     int(header.KmerSize),
		WindowSize:   int(header.WindowSize),
		AlphabetSize: int(header.AlphabetSize),
		Sequences:    seqs,
		Records:      records,
	}, nil
}

func decodeSequences(table []byte, count int) ([]Sequence, error) {
	seqs := make([]Sequence, 0, count)
	off := 0
	for i := 0; i < count; i++ {
		if off+2 > len(table) {
			return nil, fmt.Errorf("%w: truncated sequence table", ErrCorrupt)
		}
		nameLen := int(binary.LittleEndian.Uint16(table[off:]))
		off += 2
		if off+nameLen+8 > len(table) {
			return nil, fmt.Errorf("%w: truncated sequence entry %d", ErrCorrupt, i)
		}
		name := string(table[off : off+nameLen])
		off += nameLen
		length := int64(binary.LittleEndian.Uint64(table[off:]))
		off += 8
		seqs = append(seqs, Sequence{Name: name, Length: length})
	}
	if off != len(table) {
		return nil, fmt.Errorf("%w: trailing bytes in sequence table", ErrCorrupt)
	}
	return seqs, nil
}

func putRecord(b []byte, r model.Record) {
	binary.LittleEndian.PutUint64(b[0:], r.Hash)
	binary.LittleEndian.PutUint32(b[8:], r.SeqID)
	binary.LittleEndian.PutUint64(b[12:], uint64(r.WindowPos))
	b[20] = byte(r.Strand)
}

func getRecord(b []byte) model.Record {
	return model.Record{
		Hash:      binary.LittleEndian.Uint64(b[0:]),
		SeqID:     binary.LittleEndian.Uint32(b[8:]),
		WindowPos: int64(binary.LittleEndian.Uint64(b[12:])),
		Strand:    model.Strand(b[20]),
	}
}
