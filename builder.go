package winnow

import (
	"context"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/hupe1980/winnow/fasta"
	"github.com/hupe1980/winnow/model"
	"github.com/hupe1980/winnow/resource"
	"golang.org/x/sync/errgroup"
)

// Builder accumulates the minimizers of many sequences into one sketch.
//
// Sequence ids are assigned densely from 0 in the order sequences are
// added. A Builder is safe for concurrent use, but calls are serialized:
// parallelism happens inside AddReader and AddFiles.
type Builder struct {
	mu        sync.Mutex
	params    Params
	opts      options
	sequences []SequenceInfo
	index     *model.Index
	scratch   sync.Pool
}

// NewBuilder creates a builder for p.
func NewBuilder(p Params, optFns ...Option) (*Builder, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	opts := applyOptions(optFns)
	opts.logger = opts.logger.WithParams(p)
	b := &Builder{
		params: p,
		opts:   opts,
		index:  model.NewIndex(0),
	}
	b.scratch.New = func() any { return newScratch(p) }
	return b, nil
}

// Params returns the builder's parameters.
func (b *Builder) Params() Params { return b.params }

// Len returns the number of sequences added so far.
func (b *Builder) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.sequences)
}

// AddSequence sketches seq under name and returns its sequence id.
// seq is uppercased in place.
func (b *Builder) AddSequence(ctx context.Context, name string, seq []byte) (model.SeqID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id, err := b.nextID(0)
	if err != nil {
		return 0, err
	}
	local, err := b.sketch(ctx, id, name, seq)
	if err != nil {
		return 0, err
	}
	b.commit([]SequenceInfo{{ID: id, Name: name, Length: int64(len(seq))}}, []*model.Index{local})
	return id, nil
}

// AddReader sketches every FASTA/FASTQ record read from r and returns the
// number of sequences added. On error the builder is left unchanged.
func (b *Builder) AddReader(ctx context.Context, r io.Reader) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.addReader(ctx, r)
}

// AddFiles sketches the given FASTA/FASTQ files (plain or gzip) one after
// another and returns the total number of sequences added. Files before a
// failing one stay in the builder.
func (b *Builder) AddFiles(ctx context.Context, paths ...string) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	total := 0
	for _, path := range paths {
		n, err := b.addFile(ctx, path)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func (b *Builder) addFile(ctx context.Context, path string) (int, error) {
	start := time.Now()
	logger := b.opts.logger.WithFile(path)

	rc, err := fasta.Open(path)
	if err != nil {
		err = &ReferenceError{Path: path, Err: err}
		logger.LogFile(ctx, 0, time.Since(start), err)
		b.opts.metricsCollector.RecordFile(0, time.Since(start), err)
		return 0, err
	}
	defer rc.Close()

	n, err := b.addReader(ctx, rc)
	if err != nil {
		err = fmt.Errorf("%s: %w", path, err)
	}
	logger.LogFile(ctx, n, time.Since(start), err)
	b.opts.metricsCollector.RecordFile(n, time.Since(start), err)
	return n, err
}

type pending struct {
	info  SequenceInfo
	index *model.Index
}

func (b *Builder) addReader(ctx context.Context, r io.Reader) (int, error) {
	rc := b.opts.resource
	r = resource.NewRateLimitedReader(ctx, r, rc)

	var results []*pending

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.opts.concurrency)

	err := fasta.Stream(gctx, r, func(rec fasta.Record) error {
		id, err := b.nextID(len(results))
		if err != nil {
			return err
		}
		slot := &pending{info: SequenceInfo{ID: id, Name: rec.Name, Length: int64(len(rec.Seq))}}
		results = append(results, slot)

		if b.opts.concurrency == 1 {
			idx, err := b.sketch(gctx, id, rec.Name, rec.Seq)
			slot.index = idx
			return err
		}

		g.Go(func() error {
			idx, err := b.sketch(gctx, id, rec.Name, rec.Seq)
			if err != nil {
				return err
			}
			slot.index = idx
			return nil
		})
		return nil
	})
	if werr := g.Wait(); err == nil {
		err = werr
	}
	if err != nil {
		return 0, err
	}

	infos := make([]SequenceInfo, len(results))
	locals := make([]*model.Index, len(results))
	for i, p := range results {
		infos[i] = p.info
		locals[i] = p.index
	}
	b.commit(infos, locals)
	return len(results), nil
}

// nextID returns the id of the sequence following `ahead` uncommitted ones.
func (b *Builder) nextID(ahead int) (model.SeqID, error) {
	n := len(b.sequences) + ahead
	if uint64(n) > math.MaxUint32 {
		return 0, fmt.Errorf("%w: %d", ErrTooManySequences, n)
	}
	return model.SeqID(n), nil
}

// sketch computes the minimizers of one sequence into a fresh local index.
func (b *Builder) sketch(ctx context.Context, id model.SeqID, name string, seq []byte) (*model.Index, error) {
	rc := b.opts.resource

	if err := rc.AcquireWorker(ctx); err != nil {
		return nil, err
	}
	defer rc.ReleaseWorker()

	mem := b.footprint(len(seq))
	if err := rc.AcquireMemory(ctx, mem); err != nil {
		return nil, err
	}
	defer rc.ReleaseMemory(mem)

	start := time.Now()
	logger := b.opts.logger.WithSequence(id)
	logger.LogSequenceStart(ctx, name, len(seq))

	sc := b.scratch.Get().(*scratch)
	defer b.scratch.Put(sc)

	windows := b.params.ValidWindows(len(seq))
	local := model.NewIndex(2*windows/(b.params.WindowSize+1) + 1)
	st := sc.addMinimizers(local, seq, id)

	logger.LogSequence(ctx, local.Len(), st.Symmetric)
	b.opts.metricsCollector.RecordSequence(len(seq), local.Len(), time.Since(start))
	return local, nil
}

// footprint estimates the bytes held while sketching a sequence of length
// n, capped at the memory limit so oversized sequences still run alone.
func (b *Builder) footprint(n int) int64 {
	mem := int64(n)
	if b.params.Nucleotide() {
		mem *= 2
	}
	if limit := b.opts.resource.Config().MemoryLimitBytes; limit > 0 && mem > limit {
		mem = limit
	}
	return mem
}

// commit appends sequences and their local indexes in id order.
func (b *Builder) commit(infos []SequenceInfo, locals []*model.Index) {
	b.sequences = append(b.sequences, infos...)
	for _, l := range locals {
		b.index.Extend(l)
	}
}

// Sketch returns a snapshot of everything added so far. Later additions do
// not affect the returned sketch.
func (b *Builder) Sketch() *Sketch {
	b.mu.Lock()
	defer b.mu.Unlock()
	return &Sketch{
		Params:    b.params,
		Sequences: append([]SequenceInfo(nil), b.sequences...),
		Index:     b.index.Clone(),
	}
}
