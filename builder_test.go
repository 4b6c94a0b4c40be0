package winnow

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/hupe1980/winnow/model"
	"github.com/hupe1980/winnow/resource"
	"github.com/hupe1980/winnow/testutil"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type namedSeq struct {
	name string
	seq  []byte
}

func randomSeqs(seed int64, n int) []namedSeq {
	rng := testutil.NewRNG(seed)
	out := make([]namedSeq, n)
	for i := range out {
		out[i] = namedSeq{name: fmt.Sprintf("chr%d", i+1), seq: rng.DNA(200 + rng.Intn(2000))}
	}
	return out
}

func toFasta(seqs []namedSeq) string {
	var sb strings.Builder
	for _, s := range seqs {
		fmt.Fprintf(&sb, ">%s some description\n", s.name)
		for i := 0; i < len(s.seq); i += 60 {
			sb.Write(s.seq[i:min(i+60, len(s.seq))])
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// expectedIndex sketches seqs one by one with the low-level API.
func expectedIndex(seqs []namedSeq, p Params, first model.SeqID) []model.Record {
	idx := model.NewIndex(0)
	for i, s := range seqs {
		AddMinimizers(idx, bytes.Clone(s.seq), first+model.SeqID(i), p)
	}
	return idx.Records()
}

func writeFile(t *testing.T, name, content string, gz bool) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	if gz {
		zw := gzip.NewWriter(f)
		_, err = zw.Write([]byte(content))
		require.NoError(t, err)
		require.NoError(t, zw.Close())
		return path
	}
	_, err = f.WriteString(content)
	require.NoError(t, err)
	return path
}

func TestNewBuilder_InvalidParams(t *testing.T) {
	_, err := NewBuilder(Params{KmerSize: 0, WindowSize: 1, AlphabetSize: 4})
	assert.ErrorIs(t, err, ErrInvalidKmerSize)

	_, err = NewBuilder(Params{KmerSize: 3, WindowSize: 0, AlphabetSize: 4})
	assert.ErrorIs(t, err, ErrInvalidWindowSize)

	_, err = NewBuilder(Params{KmerSize: 3, WindowSize: 1, AlphabetSize: 0})
	assert.ErrorIs(t, err, ErrInvalidAlphabet)
}

func TestBuilder_AddSequence(t *testing.T) {
	ctx := context.Background()
	p := NucleotideParams(5, 4)
	b, err := NewBuilder(p)
	require.NoError(t, err)

	seqs := randomSeqs(1, 3)
	for i, s := range seqs {
		id, err := b.AddSequence(ctx, s.name, bytes.Clone(s.seq))
		require.NoError(t, err)
		assert.Equal(t, model.SeqID(i), id)
	}
	assert.Equal(t, 3, b.Len())

	sk := b.Sketch()
	assert.Equal(t, p, sk.Params)
	require.Len(t, sk.Sequences, 3)
	assert.Equal(t, SequenceInfo{ID: 1, Name: "chr2", Length: int64(len(seqs[1].seq))}, sk.Sequences[1])
	assert.Equal(t, expectedIndex(seqs, p, 0), sk.Index.Records())
}

func TestBuilder_SketchIsSnapshot(t *testing.T) {
	ctx := context.Background()
	b, err := NewBuilder(NucleotideParams(3, 1))
	require.NoError(t, err)

	_, err = b.AddSequence(ctx, "a", []byte("ACGTACGTAC"))
	require.NoError(t, err)
	sk := b.Sketch()

	_, err = b.AddSequence(ctx, "b", []byte("TTGCAAGGCT"))
	require.NoError(t, err)

	assert.Len(t, sk.Sequences, 1)
	assert.Equal(t, 8, sk.Index.Len())
	assert.Len(t, b.Sketch().Sequences, 2)
}

func TestBuilder_AddReader(t *testing.T) {
	p := NucleotideParams(15, 10)
	seqs := randomSeqs(2, 6)
	want := expectedIndex(seqs, p, 0)

	for _, workers := range []int{1, 2, 4, 16} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			b, err := NewBuilder(p, WithConcurrency(workers))
			require.NoError(t, err)

			n, err := b.AddReader(context.Background(), strings.NewReader(toFasta(seqs)))
			require.NoError(t, err)
			assert.Equal(t, len(seqs), n)

			sk := b.Sketch()
			assert.Equal(t, want, sk.Index.Records())
			for i, s := range sk.Sequences {
				assert.Equal(t, model.SeqID(i), s.ID)
				assert.Equal(t, seqs[i].name, s.Name)
			}
		})
	}
}

func TestBuilder_AddFiles(t *testing.T) {
	ctx := context.Background()
	p := NucleotideParams(11, 6)
	first := randomSeqs(3, 3)
	second := randomSeqs(4, 2)

	f1 := writeFile(t, "a.fa", toFasta(first), false)
	f2 := writeFile(t, "b.fa.gz", toFasta(second), true)

	metrics := &BasicMetricsCollector{}
	b, err := NewBuilder(p, WithConcurrency(3), WithMetricsCollector(metrics))
	require.NoError(t, err)

	n, err := b.AddFiles(ctx, f1, f2)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	want := append(expectedIndex(first, p, 0), expectedIndex(second, p, 3)...)
	assert.Equal(t, want, b.Sketch().Index.Records())

	stats := metrics.GetStats()
	assert.Equal(t, int64(5), stats.SequenceCount)
	assert.Equal(t, int64(2), stats.FileCount)
	assert.Equal(t, int64(0), stats.FileErrors)
	assert.Equal(t, int64(b.Sketch().Index.Len()), stats.SequenceMinimizers)
}

func TestBuilder_AddFilesMissing(t *testing.T) {
	ctx := context.Background()
	good := writeFile(t, "a.fa", toFasta(randomSeqs(5, 2)), false)
	missing := filepath.Join(t.TempDir(), "missing.fa")

	b, err := NewBuilder(NucleotideParams(7, 3))
	require.NoError(t, err)

	n, err := b.AddFiles(ctx, good, missing)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrReferenceUnreadable)
	assert.ErrorIs(t, err, os.ErrNotExist)

	var refErr *ReferenceError
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, missing, refErr.Path)

	// The file before the failure is kept.
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, b.Len())
}

func TestBuilder_AddReaderMalformedLeavesBuilderUnchanged(t *testing.T) {
	b, err := NewBuilder(NucleotideParams(3, 1), WithConcurrency(2))
	require.NoError(t, err)

	_, err = b.AddReader(context.Background(), strings.NewReader("@ok\nACGTACGT\n+\nIIIIIIII\n@bad\nACGT\n+\nII\n"))
	require.Error(t, err)
	assert.Equal(t, 0, b.Len())
	assert.Equal(t, 0, b.Sketch().Index.Len())
}

func TestBuilder_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b, err := NewBuilder(NucleotideParams(3, 1), WithConcurrency(4))
	require.NoError(t, err)

	_, err = b.AddReader(ctx, strings.NewReader(toFasta(randomSeqs(6, 4))))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, b.Len())
}

func TestBuilder_ResourceController(t *testing.T) {
	rc := resource.NewController(resource.Config{
		MemoryLimitBytes:   1000,
		MaxWorkers:         2,
		IOLimitBytesPerSec: 10 << 20,
	})
	p := NucleotideParams(9, 5)
	seqs := randomSeqs(7, 8)

	b, err := NewBuilder(p, WithConcurrency(4), WithResourceController(rc))
	require.NoError(t, err)

	n, err := b.AddReader(context.Background(), strings.NewReader(toFasta(seqs)))
	require.NoError(t, err)
	assert.Equal(t, 8, n)
	assert.Equal(t, expectedIndex(seqs, p, 0), b.Sketch().Index.Records())
	assert.Zero(t, rc.MemoryUsage())
}

func TestBuilder_Footprint(t *testing.T) {
	b, err := NewBuilder(NucleotideParams(3, 1), WithResourceController(resource.NewController(resource.Config{MemoryLimitBytes: 100})))
	require.NoError(t, err)
	assert.Equal(t, int64(20), b.footprint(10))
	assert.Equal(t, int64(100), b.footprint(1000))

	pb, err := NewBuilder(ProteinParams(3, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(1000), pb.footprint(1000))
}

func TestBuilder_NoGoroutineLeaks(t *testing.T) {
	before := runtime.NumGoroutine()

	for i := 0; i < 5; i++ {
		b, err := NewBuilder(NucleotideParams(7, 4), WithConcurrency(8))
		require.NoError(t, err)
		_, err = b.AddReader(context.Background(), strings.NewReader(toFasta(randomSeqs(int64(i), 10))))
		require.NoError(t, err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for runtime.NumGoroutine() > before+2 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	assert.LessOrEqual(t, runtime.NumGoroutine(), before+2)
}

type failingReader struct{ err error }

func (r failingReader) Read([]byte) (int, error) { return 0, r.err }

func TestBuilder_ReaderError(t *testing.T) {
	boom := errors.New("boom")
	b, err := NewBuilder(NucleotideParams(3, 1))
	require.NoError(t, err)

	_, err = b.AddReader(context.Background(), failingReader{err: boom})
	assert.ErrorIs(t, err, boom)
}
