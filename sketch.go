package winnow

import (
	"math"

	"github.com/hupe1980/winnow/lookup"
	"github.com/hupe1980/winnow/model"
)

// SequenceInfo describes one sketched sequence.
type SequenceInfo struct {
	ID     model.SeqID `json:"id"`
	Name   string      `json:"name"`
	Length int64       `json:"length"`
}

// Sketch is a finished minimizer index together with the sequences it
// covers. Records are ordered by sequence id, then window.
type Sketch struct {
	Params    Params
	Sequences []SequenceInfo
	Index     *model.Index
}

// Stats summarizes a sketch.
type Stats struct {
	Sequences int   `json:"sequences"`
	Records   int   `json:"records"`
	Forward   int   `json:"forward"`
	Reverse   int   `json:"reverse"`
	Bases     int64 `json:"bases"`
	Windows   int64 `json:"windows"`
	// Density is records per complete window. Random sequence gives about
	// 2/(w+1).
	Density float64 `json:"density"`
}

// Stats computes summary statistics.
func (s *Sketch) Stats() Stats {
	st := Stats{
		Sequences: len(s.Sequences),
		Records:   s.Index.Len(),
	}
	for _, q := range s.Sequences {
		st.Bases += q.Length
		st.Windows += int64(max(0, q.Length-int64(s.Params.KmerSize)-int64(s.Params.WindowSize)+2))
	}
	for _, r := range s.Index.Records() {
		if r.Strand == model.Reverse {
			st.Reverse++
		} else {
			st.Forward++
		}
	}
	if st.Windows > 0 {
		st.Density = float64(st.Records) / float64(st.Windows)
	}
	return st
}

// Sequence returns the sequence with the given id.
func (s *Sketch) Sequence(id model.SeqID) (SequenceInfo, bool) {
	if int64(id) >= int64(len(s.Sequences)) {
		return SequenceInfo{}, false
	}
	return s.Sequences[id], true
}

// Lookup builds a hash table over the sketch's records.
func (s *Sketch) Lookup() *lookup.Table {
	return lookup.Build(s.Index)
}

// Merge appends other to s. Sequence ids of other are shifted past the
// sequences already in s. Both sketches must share the same parameters.
func (s *Sketch) Merge(other *Sketch) error {
	if other.Params != s.Params {
		return &ParamsMismatchError{Expected: s.Params, Actual: other.Params}
	}
	if uint64(len(s.Sequences))+uint64(len(other.Sequences)) > math.MaxUint32+1 {
		return ErrTooManySequences
	}

	shift := model.SeqID(len(s.Sequences))
	for _, q := range other.Sequences {
		q.ID += shift
		s.Sequences = append(s.Sequences, q)
	}

	if s.Index == nil {
		s.Index = model.NewIndex(other.Index.Len())
	}
	for _, r := range other.Index.Records() {
		r.SeqID += shift
		s.Index.Append(r)
	}
	return nil
}
