package fasta

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
)

// ErrMalformed is returned for input that is neither FASTA nor FASTQ.
var ErrMalformed = errors.New("fasta: malformed input")

// Record is one parsed sequence.
type Record struct {
	Name string
	Seq  []byte
}

// Reader parses records one at a time.
// Seq of a returned record is owned by the caller.
type Reader struct {
	br      *bufio.Reader
	line    []byte
	header  []byte
	pending bool
	lineNo  int
}

// NewReader returns a Reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReaderSize(r, 256*1024)}
}

// readLine returns the next line without its terminator. The slice is
// only valid until the next call.
func (r *Reader) readLine() ([]byte, error) {
	r.line = r.line[:0]
	for {
		chunk, err := r.br.ReadSlice('\n')
		r.line = append(r.line, chunk...)
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if err != nil && (err != io.EOF || len(r.line) == 0) {
			return nil, err
		}
		r.lineNo++
		return bytes.TrimRight(r.line, "\r\n"), nil
	}
}

// Next returns the next record, or io.EOF when the input is exhausted.
func (r *Reader) Next() (Record, error) {
	var hdr []byte
	if r.pending {
		hdr = r.header
		r.pending = false
	} else {
		for {
			line, err := r.readLine()
			if err != nil {
				return Record{}, err
			}
			line = bytes.TrimSpace(line)
			if len(line) == 0 {
				continue
			}
			hdr = line
			break
		}
	}

	switch hdr[0] {
	case '>':
		return r.nextFasta(parseHeaderName(hdr[1:]))
	case '@':
		return r.nextFastq(parseHeaderName(hdr[1:]))
	default:
		return Record{}, fmt.Errorf("%w: line %d: expected '>' or '@'", ErrMalformed, r.lineNo)
	}
}

func (r *Reader) nextFasta(name string) (Record, error) {
	var seq []byte
	for {
		line, err := r.readLine()
		if err == io.EOF {
			return Record{Name: name, Seq: seq}, nil
		}
		if err != nil {
			return Record{}, err
		}
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			r.header = append(r.header[:0], line...)
			r.pending = true
			return Record{Name: name, Seq: seq}, nil
		}
		seq = append(seq, line...)
	}
}

func (r *Reader) nextFastq(name string) (Record, error) {
	line, err := r.readLine()
	if err != nil {
		return Record{}, unexpected(err, r.lineNo)
	}
	seq := append([]byte(nil), bytes.TrimSpace(line)...)

	plus, err := r.readLine()
	if err != nil {
		return Record{}, unexpected(err, r.lineNo)
	}
	if len(plus) == 0 || plus[0] != '+' {
		return Record{}, fmt.Errorf("%w: line %d: expected '+'", ErrMalformed, r.lineNo)
	}

	qual, err := r.readLine()
	if err != nil {
		return Record{}, unexpected(err, r.lineNo)
	}
	if len(bytes.TrimSpace(qual)) != len(seq) {
		return Record{}, fmt.Errorf("%w: line %d: quality length mismatch", ErrMalformed, r.lineNo)
	}
	return Record{Name: name, Seq: seq}, nil
}

func unexpected(err error, line int) error {
	if err == io.EOF {
		return fmt.Errorf("%w: line %d: truncated fastq record", ErrMalformed, line)
	}
	return err
}

// Stream parses r and calls emit for each record. It stops at the first
// error returned by emit, or when ctx is done.
func Stream(ctx context.Context, r io.Reader, emit func(Record) error) error {
	fr := NewReader(r)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		rec, err := fr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("fasta scan: %w", err)
		}
		if err := emit(rec); err != nil {
			return err
		}
	}
}

func parseHeaderName(hdr []byte) string {
	hdr = bytes.TrimSpace(hdr)
	if i := bytes.IndexAny(hdr, " \t"); i >= 0 {
		return string(hdr[:i])
	}
	return string(hdr)
}
