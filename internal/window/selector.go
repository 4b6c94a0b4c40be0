// Package window implements the sliding-window minimum that picks one
// minimizer per window of consecutive k-mers.
package window

import (
	"github.com/hupe1980/winnow/internal/queue"
	"github.com/hupe1980/winnow/model"
)

// candidate is a k-mer still able to become a window minimum.
type candidate struct {
	rec    model.Record
	origin int64
}

// Stats counts what a Selector has seen since the last Reset.
type Stats struct {
	// Positions is the number of k-mer positions pushed.
	Positions int64
	// Symmetric is the number of positions skipped because the k-mer equals
	// its own reverse complement.
	Symmetric int64
	// Emitted is the number of records appended.
	Emitted int64
}

// Selector maintains a monotonic deque of candidates for one sequence.
//
// Hashes are non-decreasing from front to back and origins strictly
// increasing, so the front is always the minimum of the current window.
// Among equal hashes the rightmost k-mer wins.
type Selector struct {
	w     int64
	seqID model.SeqID
	q     *queue.Deque[candidate]

	last    model.Record
	hasLast bool

	stats Stats
}

// New creates a selector for windows of w consecutive k-mers.
func New(w int, seqID model.SeqID) *Selector {
	if w < 1 {
		w = 1
	}
	return &Selector{
		w:     int64(w),
		seqID: seqID,
		q:     queue.NewDeque[candidate](w + 1),
	}
}

// Reset clears all state and retargets the selector to another sequence.
func (s *Selector) Reset(seqID model.SeqID) {
	s.q.Reset()
	s.seqID = seqID
	s.last = model.Record{}
	s.hasLast = false
	s.stats = Stats{}
}

// Stats returns the counters accumulated since the last Reset.
func (s *Selector) Stats() Stats { return s.stats }

// Push feeds the k-mer starting at pos with its forward and backward hashes
// and appends the minimizer of the window completed at pos to out, unless it
// repeats the previous emission. Positions must be pushed in increasing
// order starting at zero. It reports whether a record was appended.
func (s *Selector) Push(pos int64, fwd, bwd uint64, out *model.Index) bool {
	s.stats.Positions++

	// A k-mer equal to its reverse complement has no canonical strand.
	if fwd == bwd {
		s.stats.Symmetric++
		return false
	}

	h, strand := fwd, model.Forward
	if bwd < fwd {
		h, strand = bwd, model.Reverse
	}

	for !s.q.Empty() && s.q.Front().origin <= pos-s.w {
		s.q.PopFront()
	}
	for !s.q.Empty() && s.q.Back().rec.Hash >= h {
		s.q.PopBack()
	}
	s.q.PushBack(candidate{
		rec:    model.Record{Hash: h, SeqID: s.seqID, Strand: strand},
		origin: pos,
	})

	windowID := pos - s.w + 1
	if windowID < 0 {
		return false
	}

	front := s.q.Front().rec
	if s.hasLast && s.last.SameMinimizer(front) {
		return false
	}
	front.WindowPos = windowID
	out.Append(front)
	s.last = front
	s.hasLast = true
	s.stats.Emitted++
	return true
}

// Len returns the number of queued candidates.
func (s *Selector) Len() int { return s.q.Len() }
