package window

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/winnow/model"
)

func pushAll(s *Selector, hashes []uint64) *model.Index {
	out := model.NewIndex(0)
	for i, h := range hashes {
		s.Push(int64(i), h, math.MaxUint64, out)
	}
	return out
}

func TestSelector_SlidingMinimum(t *testing.T) {
	s := New(3, 7)
	out := pushAll(s, []uint64{5, 3, 4, 1, 2, 6, 7})

	want := []model.Record{
		{Hash: 3, SeqID: 7, WindowPos: 0, Strand: model.Forward},
		{Hash: 1, SeqID: 7, WindowPos: 1, Strand: model.Forward},
		{Hash: 2, SeqID: 7, WindowPos: 4, Strand: model.Forward},
	}
	assert.Equal(t, want, out.Records())
	assert.Equal(t, Stats{Positions: 7, Emitted: 3}, s.Stats())
}

func TestSelector_WindowOfOne(t *testing.T) {
	s := New(1, 0)
	out := pushAll(s, []uint64{5, 5, 5, 6, 5})

	require.Equal(t, 3, out.Len())
	assert.Equal(t, []int64{0, 3, 4}, []int64{out.At(0).WindowPos, out.At(1).WindowPos, out.At(2).WindowPos})
	assert.Equal(t, []uint64{5, 6, 5}, []uint64{out.At(0).Hash, out.At(1).Hash, out.At(2).Hash})
}

func TestSelector_TieKeepsRightmost(t *testing.T) {
	// With w=2 the two equal hashes collapse to a single emission because
	// the later candidate replaces the earlier one and both are the same
	// minimizer.
	s := New(2, 0)
	out := pushAll(s, []uint64{4, 4, 9, 9})

	require.Equal(t, 2, out.Len())
	assert.Equal(t, model.Record{Hash: 4, WindowPos: 0}, out.At(0))
	assert.Equal(t, model.Record{Hash: 9, WindowPos: 2}, out.At(1))
	assert.Equal(t, 1, s.Len())
}

func TestSelector_SymmetricSkipped(t *testing.T) {
	s := New(1, 0)
	out := model.NewIndex(0)

	assert.False(t, s.Push(0, 11, 11, out))
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 0, out.Len())
	assert.Equal(t, int64(1), s.Stats().Symmetric)

	assert.True(t, s.Push(1, 12, 13, out))
	assert.Equal(t, model.Record{Hash: 12, WindowPos: 1, Strand: model.Forward}, out.At(0))
}

func TestSelector_ReverseStrand(t *testing.T) {
	s := New(1, 2)
	out := model.NewIndex(0)

	s.Push(0, 10, 3, out)
	require.Equal(t, 1, out.Len())
	assert.Equal(t, model.Record{Hash: 3, SeqID: 2, Strand: model.Reverse}, out.At(0))
}

func TestSelector_DedupIgnoresWindow(t *testing.T) {
	// Same hash on both strands is a different minimizer.
	s := New(1, 0)
	out := model.NewIndex(0)
	s.Push(0, 3, 10, out)
	s.Push(1, 10, 3, out)
	s.Push(2, 10, 3, out)

	require.Equal(t, 2, out.Len())
	assert.Equal(t, model.Forward, out.At(0).Strand)
	assert.Equal(t, model.Reverse, out.At(1).Strand)
	assert.Equal(t, int64(1), out.At(1).WindowPos)
}

func TestSelector_Reset(t *testing.T) {
	s := New(2, 0)
	pushAll(s, []uint64{1, 2, 3})

	s.Reset(5)
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, Stats{}, s.Stats())

	out := pushAll(s, []uint64{1, 2})
	require.Equal(t, 1, out.Len())
	// The previous sequence's last emission does not suppress this one.
	assert.Equal(t, model.Record{Hash: 1, SeqID: 5, WindowPos: 0}, out.At(0))
}

func TestSelector_QueueBoundedByWindow(t *testing.T) {
	s := New(4, 0)
	out := model.NewIndex(0)
	for i := 0; i < 64; i++ {
		s.Push(int64(i), uint64(i), math.MaxUint64, out)
		assert.LessOrEqual(t, s.Len(), 4)
	}
}

func TestSelector_TieAcrossStrands(t *testing.T) {
	const h = 4

	t.Run("rightmost tie takes the window", func(t *testing.T) {
		s := New(2, 0)
		out := model.NewIndex(0)

		s.Push(0, h, 50, out) // (h, Forward)
		s.Push(1, 50, h, out) // (h, Reverse)
		s.Push(2, 60, 70, out)

		// The reverse k-mer replaces the forward one and stays the minimum
		// of the next window, so nothing new is emitted.
		require.Equal(t, 1, out.Len())
		assert.Equal(t, model.Record{Hash: h, WindowPos: 0, Strand: model.Reverse}, out.At(0))
	})

	t.Run("second window switches strand", func(t *testing.T) {
		s := New(2, 0)
		out := model.NewIndex(0)

		s.Push(0, h, 50, out)  // (h, Forward)
		s.Push(1, 60, 70, out) // larger
		s.Push(2, 50, h, out)  // (h, Reverse)

		require.Equal(t, 2, out.Len())
		assert.Equal(t, model.Record{Hash: h, WindowPos: 0, Strand: model.Forward}, out.At(0))
		assert.Equal(t, model.Record{Hash: h, WindowPos: 1, Strand: model.Reverse}, out.At(1))
	})
}
