package winnow

import (
	"math"

	"github.com/hupe1980/winnow/internal/hash"
	"github.com/hupe1980/winnow/internal/seq"
	"github.com/hupe1980/winnow/internal/window"
	"github.com/hupe1980/winnow/model"
)

// AddMinimizers computes the winnowed minimizers of one sequence and appends
// them to idx in window order.
//
// The sequence is uppercased in place. For nucleotide parameters each k-mer
// is canonicalized against its reverse complement and k-mers equal to their
// own reverse complement are skipped. For protein parameters every record is
// on the Forward strand.
//
// Sequences shorter than KmerSize+WindowSize-1 contribute nothing, as do
// invalid parameters.
func AddMinimizers(idx *model.Index, b []byte, seqID model.SeqID, p Params) {
	newScratch(p).addMinimizers(idx, b, seqID)
}

// scratch is the per-worker state reused from one sequence to the next.
// Only the selector is reused; the reverse complement lives for one call.
type scratch struct {
	p   Params
	sel *window.Selector
}

func newScratch(p Params) *scratch {
	return &scratch{p: p, sel: window.New(p.WindowSize, 0)}
}

func (sc *scratch) addMinimizers(idx *model.Index, b []byte, seqID model.SeqID) window.Stats {
	p := sc.p
	if p.KmerSize < 1 || p.WindowSize < 1 {
		return window.Stats{}
	}

	seq.Uppercase(b)

	n := len(b)
	k := p.KmerSize
	if n < k {
		return window.Stats{}
	}

	var rc []byte
	if p.Nucleotide() {
		rc = seq.ReverseComplement(b)
	}

	sel := sc.sel
	sel.Reset(seqID)
	for i := 0; i <= n-k; i++ {
		fwd := hash.Kmer(b[i : i+k])
		bwd := uint64(math.MaxUint64)
		if rc != nil {
			bwd = hash.Kmer(rc[n-i-k : n-i])
		}
		sel.Push(int64(i), fwd, bwd, idx)
	}
	return sel.Stats()
}
