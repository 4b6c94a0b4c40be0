package winnow

import (
	"bytes"
	"math"
	"testing"

	"github.com/hupe1980/winnow/internal/hash"
	"github.com/hupe1980/winnow/model"
	"github.com/hupe1980/winnow/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func minimizers(t *testing.T, s string, id model.SeqID, p Params) []model.Record {
	t.Helper()
	idx := model.NewIndex(0)
	AddMinimizers(idx, []byte(s), id, p)
	return idx.Records()
}

// canonical computes the expected (hash, strand) of one nucleotide k-mer.
func canonical(kmer, rc string) (uint64, model.Strand) {
	f, b := hash.Kmer([]byte(kmer)), hash.Kmer([]byte(rc))
	if b < f {
		return b, model.Reverse
	}
	return f, model.Forward
}

func TestAddMinimizers_Scenario(t *testing.T) {
	// k=3, w=1: every k-mer is its own window.
	recs := minimizers(t, "ACGTACGTAC", 0, NucleotideParams(3, 1))

	kmers := []struct{ fwd, rc string }{
		{"ACG", "CGT"}, {"CGT", "ACG"}, {"GTA", "TAC"}, {"TAC", "GTA"},
		{"ACG", "CGT"}, {"CGT", "ACG"}, {"GTA", "TAC"}, {"TAC", "GTA"},
	}
	require.Len(t, recs, len(kmers))
	for i, km := range kmers {
		h, strand := canonical(km.fwd, km.rc)
		assert.Equal(t, model.Record{Hash: h, SeqID: 0, WindowPos: int64(i), Strand: strand}, recs[i], "window %d", i)
	}

	// A k-mer and its reverse complement share a hash on opposite strands.
	assert.Equal(t, recs[0].Hash, recs[1].Hash)
	assert.NotEqual(t, recs[0].Strand, recs[1].Strand)
}

func TestAddMinimizers_MatchesBruteForce(t *testing.T) {
	rng := testutil.NewRNG(42)
	for _, tc := range []struct{ k, w int }{
		{3, 1}, {5, 4}, {15, 10}, {21, 11}, {4, 7},
	} {
		for trial := 0; trial < 5; trial++ {
			s := rng.DNA(300 + rng.Intn(700))
			want := testutil.BruteForceMinimizers(s, 3, tc.k, tc.w, true)
			got := minimizers(t, string(s), 3, NucleotideParams(tc.k, tc.w))
			assert.Equal(t, want, got, "k=%d w=%d", tc.k, tc.w)
		}
	}
}

func TestAddMinimizers_RepetitiveMatchesBruteForce(t *testing.T) {
	rng := testutil.NewRNG(7)
	s := rng.Repetitive(3000, 4, 30)
	want := testutil.BruteForceMinimizers(s, 0, 8, 6, true)
	got := minimizers(t, string(s), 0, NucleotideParams(8, 6))
	assert.Equal(t, want, got)
}

func TestAddMinimizers_Protein(t *testing.T) {
	rng := testutil.NewRNG(5)
	s := rng.Protein(500)
	p := ProteinParams(5, 8)

	got := minimizers(t, string(s), 1, p)
	require.NotEmpty(t, got)
	for _, r := range got {
		assert.Equal(t, model.Forward, r.Strand)
	}
	assert.Equal(t, testutil.BruteForceMinimizers(s, 1, 5, 8, false), got)
}

func TestAddMinimizers_CaseInsensitive(t *testing.T) {
	rng := testutil.NewRNG(9)
	upper := rng.DNA(400)
	lower := testutil.LowerCase(upper)
	p := NucleotideParams(11, 5)

	assert.Equal(t, minimizers(t, string(upper), 0, p), minimizers(t, string(lower), 0, p))
	assert.Equal(t, minimizers(t, "acgt", 0, NucleotideParams(2, 1)), minimizers(t, "ACGT", 0, NucleotideParams(2, 1)))
}

func TestAddMinimizers_UppercasesInPlace(t *testing.T) {
	b := []byte("acgtn")
	AddMinimizers(model.NewIndex(0), b, 0, NucleotideParams(3, 1))
	assert.Equal(t, "ACGTN", string(b))
}

func TestAddMinimizers_ReverseComplementInvariant(t *testing.T) {
	rng := testutil.NewRNG(11)
	s := rng.DNA(600)
	rc := make([]byte, len(s))
	for i, c := range s {
		rc[len(s)-1-i] = map[byte]byte{'A': 'T', 'C': 'G', 'G': 'C', 'T': 'A'}[c]
	}

	p := NucleotideParams(9, 1)
	fwd := minimizers(t, string(s), 0, p)
	rev := minimizers(t, string(rc), 0, p)
	require.Equal(t, len(fwd), len(rev))

	// With w=1 each record maps to the mirrored k-mer on the other strand.
	for i := range fwd {
		j := len(rev) - 1 - i
		assert.Equal(t, fwd[i].Hash, rev[j].Hash)
		assert.NotEqual(t, fwd[i].Strand, rev[j].Strand)
	}
}

func TestAddMinimizers_SymmetricKmer(t *testing.T) {
	// ACGT is its own reverse complement.
	assert.Empty(t, minimizers(t, "ACGT", 0, NucleotideParams(4, 1)))

	// In protein mode there is no reverse complement to collide with.
	assert.Len(t, minimizers(t, "ACGT", 0, ProteinParams(4, 1)), 1)
}

func TestAddMinimizers_Counts(t *testing.T) {
	rng := testutil.NewRNG(3)
	for _, n := range []int{0, 5, 14, 15, 24, 25, 100, 2000} {
		s := rng.DNA(n)
		p := NucleotideParams(15, 10)
		recs := minimizers(t, string(s), 0, p)

		assert.LessOrEqual(t, len(recs), p.ValidWindows(n))
		for i, r := range recs {
			assert.GreaterOrEqual(t, r.WindowPos, int64(0))
			assert.Less(t, r.WindowPos, int64(p.ValidWindows(n)))
			if i > 0 {
				assert.Greater(t, r.WindowPos, recs[i-1].WindowPos)
				assert.False(t, r.SameMinimizer(recs[i-1]))
			}
		}
		if n < 15+10-1 {
			assert.Empty(t, recs, "n=%d", n)
		}
	}
}

func TestAddMinimizers_FirstWindowAlwaysEmits(t *testing.T) {
	rng := testutil.NewRNG(8)
	s := rng.DNA(100)
	recs := minimizers(t, string(s), 0, NucleotideParams(5, 3))
	require.NotEmpty(t, recs)
	assert.Equal(t, int64(0), recs[0].WindowPos)
}

func TestAddMinimizers_InvalidParams(t *testing.T) {
	assert.Empty(t, minimizers(t, "ACGTACGT", 0, Params{KmerSize: 0, WindowSize: 1, AlphabetSize: 4}))
	assert.Empty(t, minimizers(t, "ACGTACGT", 0, Params{KmerSize: 3, WindowSize: 0, AlphabetSize: 4}))
}

func TestAddMinimizers_AppendsToExisting(t *testing.T) {
	idx := model.NewIndex(0)
	sentinel := model.Record{Hash: math.MaxUint64, SeqID: 9}
	idx.Append(sentinel)

	AddMinimizers(idx, []byte("ACGTACGTAC"), 1, NucleotideParams(3, 1))
	require.Equal(t, 9, idx.Len())
	assert.Equal(t, sentinel, idx.At(0))
	for _, r := range idx.Records()[1:] {
		assert.Equal(t, model.SeqID(1), r.SeqID)
	}
}

func TestAddMinimizers_Deterministic(t *testing.T) {
	rng := testutil.NewRNG(1)
	s := rng.DNA(1000)
	p := NucleotideParams(15, 10)
	a := minimizers(t, string(bytes.Clone(s)), 0, p)
	b := minimizers(t, string(bytes.Clone(s)), 0, p)
	assert.Equal(t, a, b)
}

func TestScratchReuseAcrossSequences(t *testing.T) {
	p := NucleotideParams(7, 4)
	rng := testutil.NewRNG(31)
	long := rng.DNA(900)
	short := rng.DNA(120)
	// The last minimizer of the first sequence must not suppress the first
	// one of the next.
	same := append(bytes.Clone(short[:60]), short[:60]...)

	sc := newScratch(p)
	for i, s := range [][]byte{long, short, same, short} {
		got := model.NewIndex(0)
		sc.addMinimizers(got, bytes.Clone(s), model.SeqID(i))

		want := model.NewIndex(0)
		AddMinimizers(want, bytes.Clone(s), model.SeqID(i), p)
		assert.Equal(t, want.Records(), got.Records(), "sequence %d", i)
	}
}
