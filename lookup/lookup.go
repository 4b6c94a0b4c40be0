// Package lookup builds a read-only hash table over a minimizer index.
//
// Records are sorted by (hash, sequence, window) and addressed through a
// sorted array of distinct hashes. Per-hash sequence sets are returned as
// roaring bitmaps so that callers can intersect or union them cheaply.
package lookup

import (
	"cmp"
	"slices"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/winnow/model"
)

// Table maps minimizer hashes to their occurrences.
type Table struct {
	records []model.Record
	hashes  []uint64
	offsets []int
}

// Build indexes the records of idx. idx is not modified.
func Build(idx *model.Index) *Table {
	recs := slices.Clone(idx.Records())
	slices.SortFunc(recs, compare)

	t := &Table{records: recs}
	for i, r := range recs {
		if i == 0 || r.Hash != recs[i-1].Hash {
			t.hashes = append(t.hashes, r.Hash)
			t.offsets = append(t.offsets, i)
		}
	}
	t.offsets = append(t.offsets, len(recs))
	return t
}

func compare(a, b model.Record) int {
	switch {
	case a.Hash != b.Hash:
		return cmp.Compare(a.Hash, b.Hash)
	case a.SeqID != b.SeqID:
		return cmp.Compare(a.SeqID, b.SeqID)
	default:
		return cmp.Compare(a.WindowPos, b.WindowPos)
	}
}

func (t *Table) find(hash uint64) (int, bool) {
	i := sort.Search(len(t.hashes), func(i int) bool { return t.hashes[i] >= hash })
	return i, i < len(t.hashes) && t.hashes[i] == hash
}

// Positions returns every occurrence of hash ordered by sequence and
// window. The slice aliases the table and must not be modified.
func (t *Table) Positions(hash uint64) []model.Record {
	i, ok := t.find(hash)
	if !ok {
		return nil
	}
	return t.records[t.offsets[i]:t.offsets[i+1]]
}

// Frequency returns the number of occurrences of hash.
func (t *Table) Frequency(hash uint64) int {
	i, ok := t.find(hash)
	if !ok {
		return 0
	}
	return t.offsets[i+1] - t.offsets[i]
}

// Sequences returns the set of sequence ids containing hash.
func (t *Table) Sequences(hash uint64) *roaring.Bitmap {
	bm := roaring.New()
	for _, r := range t.Positions(hash) {
		bm.Add(r.SeqID)
	}
	return bm
}

// SequencesAny returns the sequences containing at least one of hashes.
func (t *Table) SequencesAny(hashes ...uint64) *roaring.Bitmap {
	bms := make([]*roaring.Bitmap, 0, len(hashes))
	for _, h := range hashes {
		bms = append(bms, t.Sequences(h))
	}
	return roaring.FastOr(bms...)
}

// SequencesAll returns the sequences containing every one of hashes.
func (t *Table) SequencesAll(hashes ...uint64) *roaring.Bitmap {
	if len(hashes) == 0 {
		return roaring.New()
	}
	bms := make([]*roaring.Bitmap, 0, len(hashes))
	for _, h := range hashes {
		bms = append(bms, t.Sequences(h))
	}
	return roaring.FastAnd(bms...)
}

// Len returns the number of records.
func (t *Table) Len() int { return len(t.records) }

// Distinct returns the number of distinct hashes.
func (t *Table) Distinct() int { return len(t.hashes) }

// Hashes returns the distinct hashes in ascending order. The slice aliases
// the table and must not be modified.
func (t *Table) Hashes() []uint64 { return t.hashes }

// FrequencyThreshold returns the occurrence count at which the most
// frequent fraction of distinct hashes begins. Hashes occurring more often
// than the threshold are the repetitive ones a mapper would skip.
//
// fraction is clamped to [0, 1]. An empty table yields 0.
func (t *Table) FrequencyThreshold(fraction float64) int {
	m := len(t.hashes)
	if m == 0 {
		return 0
	}
	fraction = min(max(fraction, 0), 1)

	freqs := make([]int, m)
	for i := range freqs {
		freqs[i] = t.offsets[i+1] - t.offsets[i]
	}
	slices.SortFunc(freqs, func(a, b int) int { return b - a })

	idx := min(int(fraction*float64(m)), m-1)
	return freqs[idx]
}
