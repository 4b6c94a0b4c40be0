package model

import (
	"fmt"
)

// SeqID identifies a sequence within an index. IDs are assigned densely
// from zero in processing order.
type SeqID = uint32

// Strand is the orientation a canonical k-mer hash was taken from.
type Strand uint8

const (
	// Forward means the k-mer as read produced the canonical hash.
	Forward Strand = iota
	// Reverse means the reverse complement produced the canonical hash.
	Reverse
)

// String returns "+" for Forward and "-" for Reverse.
func (s Strand) String() string {
	switch s {
	case Forward:
		return "+"
	case Reverse:
		return "-"
	default:
		return fmt.Sprintf("Strand(%d)", uint8(s))
	}
}

// Record is a single winnowed minimizer.
type Record struct {
	// Hash is the canonical k-mer hash.
	Hash uint64
	// SeqID is the sequence the minimizer was taken from.
	SeqID SeqID
	// WindowPos is the index of the sliding window the minimizer was first
	// recorded for (not the k-mer offset).
	WindowPos int64
	// Strand is the orientation that produced Hash.
	Strand Strand
}

// SameMinimizer reports whether r and o denote the same minimizer: equal
// hash, sequence and strand. WindowPos is not compared.
func (r Record) SameMinimizer(o Record) bool {
	return r.Hash == o.Hash && r.SeqID == o.SeqID && r.Strand == o.Strand
}

// String returns a compact representation of the record.
func (r Record) String() string {
	return fmt.Sprintf("Min(%016x seq=%d w=%d %s)", r.Hash, r.SeqID, r.WindowPos, r.Strand)
}

// Index is an ordered, append-only sequence of records.
//
// An Index is not safe for concurrent appends; callers that sketch
// sequences in parallel collect into per-sequence indexes and Extend the
// shared one in sequence order.
type Index struct {
	records []Record
}

// NewIndex returns an empty index with room for capacity records.
func NewIndex(capacity int) *Index {
	if capacity < 0 {
		capacity = 0
	}
	return &Index{records: make([]Record, 0, capacity)}
}

// FromRecords wraps rs in an index. The index takes ownership of rs.
func FromRecords(rs []Record) *Index {
	return &Index{records: rs}
}

// Clone returns an independent copy of the index.
func (x *Index) Clone() *Index {
	if x == nil {
		return NewIndex(0)
	}
	return &Index{records: append(make([]Record, 0, len(x.records)), x.records...)}
}

// Append adds a record to the end of the index.
func (x *Index) Append(r Record) {
	x.records = append(x.records, r)
}

// Extend appends every record of o, preserving order.
func (x *Index) Extend(o *Index) {
	if o == nil {
		return
	}
	x.records = append(x.records, o.records...)
}

// Len returns the number of records.
func (x *Index) Len() int {
	if x == nil {
		return 0
	}
	return len(x.records)
}

// At returns the i-th record.
func (x *Index) At(i int) Record {
	return x.records[i]
}

// Records returns the backing slice. Callers must not modify it.
func (x *Index) Records() []Record {
	if x == nil {
		return nil
	}
	return x.records
}
