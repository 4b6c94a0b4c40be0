package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_SameMinimizer(t *testing.T) {
	a := Record{Hash: 7, SeqID: 1, WindowPos: 3, Strand: Forward}

	assert.True(t, a.SameMinimizer(Record{Hash: 7, SeqID: 1, WindowPos: 9, Strand: Forward}))
	assert.False(t, a.SameMinimizer(Record{Hash: 7, SeqID: 1, WindowPos: 3, Strand: Reverse}))
	assert.False(t, a.SameMinimizer(Record{Hash: 7, SeqID: 2, WindowPos: 3, Strand: Forward}))
	assert.False(t, a.SameMinimizer(Record{Hash: 8, SeqID: 1, WindowPos: 3, Strand: Forward}))

	// Structural identity includes the window.
	assert.NotEqual(t, a, Record{Hash: 7, SeqID: 1, WindowPos: 9, Strand: Forward})
}

func TestIndex_AppendExtend(t *testing.T) {
	idx := NewIndex(0)
	assert.Equal(t, 0, idx.Len())

	idx.Append(Record{Hash: 1})
	idx.Append(Record{Hash: 2})

	other := NewIndex(2)
	other.Append(Record{Hash: 3, SeqID: 1})
	idx.Extend(other)
	idx.Extend(nil)

	require.Equal(t, 3, idx.Len())
	assert.Equal(t, uint64(2), idx.At(1).Hash)
	assert.Equal(t, Record{Hash: 3, SeqID: 1}, idx.At(2))
}

func TestStrand_String(t *testing.T) {
	assert.Equal(t, "+", Forward.String())
	assert.Equal(t, "-", Reverse.String())
	assert.Equal(t, "Strand(9)", Strand(9).String())
}

func TestIndex_CloneFromRecords(t *testing.T) {
	rs := []Record{{Hash: 1}, {Hash: 2, SeqID: 1, Strand: Reverse}}
	x := FromRecords(rs)
	assert.Equal(t, 2, x.Len())

	c := x.Clone()
	c.Append(Record{Hash: 3})
	assert.Equal(t, 2, x.Len())
	assert.Equal(t, 3, c.Len())

	var nilIdx *Index
	assert.Equal(t, 0, nilIdx.Clone().Len())
}
