package testutil

import (
	"bytes"
	"math"
	"math/rand"
	"sync"

	"github.com/hupe1980/winnow/internal/hash"
	"github.com/hupe1980/winnow/internal/seq"
	"github.com/hupe1980/winnow/model"
)

const (
	nucleotides = "ACGT"
	aminoAcids  = "ACDEFGHIKLMNPQRSTVWY"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

func (r *RNG) fill(n int, alphabet string) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]byte, n)
	for i := range out {
		out[i] = alphabet[r.rand.Intn(len(alphabet))]
	}
	return out
}

// DNA returns n random uppercase nucleotides.
func (r *RNG) DNA(n int) []byte {
	return r.fill(n, nucleotides)
}

// Protein returns n random amino acids.
func (r *RNG) Protein(n int) []byte {
	return r.fill(n, aminoAcids)
}

// Mutate returns a copy of s where each base is substituted with
// probability rate. Substitutions always change the base.
func (r *RNG) Mutate(s []byte, rate float64) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := bytes.Clone(s)
	for i := range out {
		if r.rand.Float64() >= rate {
			continue
		}
		for {
			b := nucleotides[r.rand.Intn(len(nucleotides))]
			if b != out[i] {
				out[i] = b
				break
			}
		}
	}
	return out
}

// Repetitive returns n bases built from copies of a few short motifs
// separated by random spacers, so some minimizers occur many times.
func (r *RNG) Repetitive(n, motifs, motifLen int) []byte {
	pool := make([][]byte, motifs)
	for i := range pool {
		pool[i] = r.DNA(motifLen)
	}

	out := make([]byte, 0, n)
	for len(out) < n {
		out = append(out, pool[r.Intn(motifs)]...)
		out = append(out, r.DNA(r.Intn(motifLen)+1)...)
	}
	return out[:n]
}

// LowerCase returns a copy of s with every letter lowercased.
func LowerCase(s []byte) []byte {
	return bytes.ToLower(s)
}

// BruteForceMinimizers recomputes the winnowed minimizers of s without a
// deque: for every completed window it scans all k-mers in the window and
// takes the rightmost minimum. Windows ending on a k-mer equal to its own
// reverse complement emit nothing, and consecutive emissions of the same
// (hash, strand) collapse to one.
func BruteForceMinimizers(s []byte, seqID model.SeqID, k, w int, nucleotide bool) []model.Record {
	if k < 1 || w < 1 || len(s) < k {
		return nil
	}
	up := bytes.ToUpper(s)
	n := len(up)

	type cand struct {
		h      uint64
		strand model.Strand
		ok     bool
	}

	var rc []byte
	if nucleotide {
		rc = seq.ReverseComplement(up)
	}

	cands := make([]cand, n-k+1)
	for i := range cands {
		fwd := hash.Kmer(up[i : i+k])
		bwd := uint64(math.MaxUint64)
		if rc != nil {
			bwd = hash.Kmer(rc[n-i-k : n-i])
		}
		switch {
		case fwd == bwd:
		case fwd < bwd:
			cands[i] = cand{h: fwd, strand: model.Forward, ok: true}
		default:
			cands[i] = cand{h: bwd, strand: model.Reverse, ok: true}
		}
	}

	var (
		out     []model.Record
		last    model.Record
		hasLast bool
	)
	for i := w - 1; i < len(cands); i++ {
		if !cands[i].ok {
			continue
		}
		best := -1
		for j := i - w + 1; j <= i; j++ {
			if !cands[j].ok {
				continue
			}
			if best < 0 || cands[j].h <= cands[best].h {
				best = j
			}
		}
		rec := model.Record{
			Hash:      cands[best].h,
			SeqID:     seqID,
			WindowPos: int64(i - w + 1),
			Strand:    cands[best].strand,
		}
		if hasLast && last.SameMinimizer(rec) {
			continue
		}
		out = append(out, rec)
		last, hasLast = rec, true
	}
	return out
}
