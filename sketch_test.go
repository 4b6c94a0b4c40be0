package winnow

import (
	"context"
	"testing"

	"github.com/hupe1980/winnow/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSketch(t *testing.T, p Params, seqs ...namedSeq) *Sketch {
	t.Helper()
	b, err := NewBuilder(p)
	require.NoError(t, err)
	for _, s := range seqs {
		_, err := b.AddSequence(context.Background(), s.name, append([]byte(nil), s.seq...))
		require.NoError(t, err)
	}
	return b.Sketch()
}

func TestSketch_Stats(t *testing.T) {
	sk := buildSketch(t, NucleotideParams(3, 1),
		namedSeq{name: "a", seq: []byte("ACGTACGTAC")},
		namedSeq{name: "short", seq: []byte("AC")},
	)

	st := sk.Stats()
	assert.Equal(t, 2, st.Sequences)
	assert.Equal(t, 8, st.Records)
	assert.Equal(t, int64(12), st.Bases)
	assert.Equal(t, int64(8), st.Windows)
	assert.Equal(t, st.Records, st.Forward+st.Reverse)
	assert.InDelta(t, 1.0, st.Density, 1e-9)
}

func TestSketch_StatsDensity(t *testing.T) {
	w := 10
	sk := buildSketch(t, NucleotideParams(15, w), randomSeqs(11, 4)...)

	st := sk.Stats()
	expected := 2.0 / float64(w+1)
	assert.InDelta(t, expected, st.Density, 0.06)
}

func TestSketch_StatsProtein(t *testing.T) {
	sk := buildSketch(t, ProteinParams(3, 2), namedSeq{name: "p", seq: []byte("MKVLAAGIVGLLLAW")})
	st := sk.Stats()
	assert.Zero(t, st.Reverse)
	assert.Equal(t, st.Records, st.Forward)
}

func TestSketch_Sequence(t *testing.T) {
	sk := buildSketch(t, NucleotideParams(3, 1),
		namedSeq{name: "a", seq: []byte("ACGTACGTAC")},
		namedSeq{name: "b", seq: []byte("GGGCCCAAAT")},
	)

	info, ok := sk.Sequence(1)
	require.True(t, ok)
	assert.Equal(t, "b", info.Name)
	assert.Equal(t, int64(10), info.Length)

	_, ok = sk.Sequence(2)
	assert.False(t, ok)
}

func TestSketch_Merge(t *testing.T) {
	p := NucleotideParams(7, 3)
	seqs := randomSeqs(12, 5)

	whole := buildSketch(t, p, seqs...)
	left := buildSketch(t, p, seqs[:2]...)
	right := buildSketch(t, p, seqs[2:]...)

	require.NoError(t, left.Merge(right))
	assert.Equal(t, whole.Sequences, left.Sequences)
	assert.Equal(t, whole.Index.Records(), left.Index.Records())

	// right is not modified.
	assert.Equal(t, model.SeqID(0), right.Sequences[0].ID)
	assert.Equal(t, model.SeqID(0), right.Index.At(0).SeqID)
}

func TestSketch_MergeParamsMismatch(t *testing.T) {
	a := buildSketch(t, NucleotideParams(7, 3), randomSeqs(13, 1)...)
	b := buildSketch(t, NucleotideParams(7, 4), randomSeqs(14, 1)...)

	err := a.Merge(b)
	var mismatch *ParamsMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, a.Params, mismatch.Expected)
	assert.Equal(t, b.Params, mismatch.Actual)
	assert.Len(t, a.Sequences, 1)
}

func TestSketch_Lookup(t *testing.T) {
	sk := buildSketch(t, NucleotideParams(5, 3),
		namedSeq{name: "a", seq: []byte("ACGTTGCAAGGCTTAACGT")},
		namedSeq{name: "b", seq: []byte("ACGTTGCAAGGCTTAACGT")},
	)

	tbl := sk.Lookup()
	assert.Equal(t, sk.Index.Len(), tbl.Len())

	first := sk.Index.At(0)
	seqs := tbl.Sequences(first.Hash)
	assert.True(t, seqs.Contains(0))
	assert.True(t, seqs.Contains(1))
	assert.GreaterOrEqual(t, tbl.Frequency(first.Hash), 2)
}
