package winnow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hupe1980/winnow/blobstore"
	"github.com/hupe1980/winnow/internal/hash"
	"github.com/hupe1980/winnow/model"
	"github.com/hupe1980/winnow/persistence"
)

// Save writes the sketch to store as <name>.wnx plus a <name>.manifest
// describing it, then points CURRENT at the manifest unless
// WithPublish(false) is given.
//
// Options honored: WithCompression, WithCodec, WithLogger,
// WithMetricsCollector, WithPublish.
func (s *Sketch) Save(ctx context.Context, store blobstore.BlobStore, name string, optFns ...Option) (*persistence.Manifest, error) {
	o := applyOptions(optFns)
	start := time.Now()

	m, err := s.save(ctx, store, name, o)

	var size int64
	if m != nil {
		size = m.Size
	}
	o.logger.LogSave(ctx, name, size, err)
	o.metricsCollector.RecordSave(size, time.Since(start), err)
	return m, err
}

func (s *Sketch) save(ctx context.Context, store blobstore.BlobStore, name string, o options) (*persistence.Manifest, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := s.Params.Validate(); err != nil {
		return nil, err
	}
	if len(s.Sequences) == 0 {
		return nil, ErrEmptySketch
	}

	snap := s.snapshot()

	blobName := persistence.BlobName(name)
	w, err := store.Create(ctx, blobName)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", blobName, err)
	}
	cw := persistence.NewChecksumWriter(w)
	size, err := persistence.Encode(cw, snap, o.compression)
	if err != nil {
		_ = blobstore.Abort(w)
		return nil, fmt.Errorf("encode %s: %w", blobName, err)
	}
	if err := w.Sync(); err != nil {
		_ = blobstore.Abort(w)
		return nil, fmt.Errorf("sync %s: %w", blobName, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close %s: %w", blobName, err)
	}

	var bases int64
	for _, q := range s.Sequences {
		bases += q.Length
	}

	m := &persistence.Manifest{
		Version:      persistence.ManifestVersion,
		Name:         name,
		Blob:         blobName,
		KmerSize:     s.Params.KmerSize,
		WindowSize:   s.Params.WindowSize,
		AlphabetSize: s.Params.AlphabetSize,
		Sequences:    len(s.Sequences),
		Records:      s.Index.Len(),
		Bases:        bases,
		Size:         size,
		Checksum:     cw.Sum(),
		Compression:  o.compression.String(),
		Codec:        o.codec.Name(),
		CreatedAt:    time.Now().UTC(),
	}

	data, err := persistence.MarshalManifest(o.codec, m)
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	manifestName := persistence.ManifestName(name)
	if err := store.Put(ctx, manifestName, data); err != nil {
		return nil, fmt.Errorf("put %s: %w", manifestName, err)
	}

	if o.publish {
		if err := store.Put(ctx, persistence.CurrentFileName, []byte(manifestName)); err != nil {
			return m, fmt.Errorf("publish %s: %w", manifestName, err)
		}
	}
	return m, nil
}

func (s *Sketch) snapshot() *persistence.Snapshot {
	seqs := make([]persistence.Sequence, len(s.Sequences))
	for i, q := range s.Sequences {
		seqs[i] = persistence.Sequence{Name: q.Name, Length: q.Length}
	}
	return &persistence.Snapshot{
		KmerSize:     s.Params.KmerSize,
		WindowSize:   s.Params.WindowSize,
		AlphabetSize: s.Params.AlphabetSize,
		Sequences:    seqs,
		Records:      s.Index.Records(),
	}
}

// Load reads the sketch saved under name and verifies it against its
// manifest.
//
// Options honored: WithCodec, WithLogger, WithMetricsCollector.
func Load(ctx context.Context, store blobstore.BlobStore, name string, optFns ...Option) (*Sketch, error) {
	o := applyOptions(optFns)
	start := time.Now()

	sk, size, err := load(ctx, store, name, o)
	err = translateError(err)

	records := 0
	if sk != nil {
		records = sk.Index.Len()
	}
	o.logger.LogLoad(ctx, name, records, err)
	o.metricsCollector.RecordLoad(size, time.Since(start), err)
	return sk, err
}

// LoadCurrent loads the sketch CURRENT points at.
func LoadCurrent(ctx context.Context, store blobstore.BlobStore, optFns ...Option) (*Sketch, error) {
	data, err := blobstore.Get(ctx, store, persistence.CurrentFileName)
	if err != nil {
		return nil, translateError(fmt.Errorf("read %s: %w", persistence.CurrentFileName, err))
	}
	manifestName := strings.TrimSpace(string(data))
	name, ok := strings.CutSuffix(manifestName, persistence.ManifestSuffix)
	if !ok || name == "" {
		return nil, fmt.Errorf("%w: %s names %q", ErrCorrupt, persistence.CurrentFileName, manifestName)
	}
	return Load(ctx, store, name, optFns...)
}

func load(ctx context.Context, store blobstore.BlobStore, name string, o options) (*Sketch, int64, error) {
	if err := validateName(name); err != nil {
		return nil, 0, err
	}

	manifestName := persistence.ManifestName(name)
	data, err := blobstore.Get(ctx, store, manifestName)
	if err != nil {
		return nil, 0, fmt.Errorf("read %s: %w", manifestName, err)
	}
	m, err := persistence.UnmarshalManifest(o.codec, data)
	if err != nil {
		return nil, 0, err
	}

	blob, err := store.Open(ctx, m.Blob)
	if err != nil {
		return nil, 0, fmt.Errorf("open %s: %w", m.Blob, err)
	}
	defer blob.Close()

	size := blob.Size()
	if size != m.Size {
		return nil, size, fmt.Errorf("%w: %s is %d bytes, manifest says %d", persistence.ErrCorrupt, m.Blob, size, m.Size)
	}

	var raw []byte
	if mb, ok := blob.(blobstore.Mappable); ok {
		raw, err = mb.Bytes()
	} else {
		raw, err = blobstore.ReadAll(ctx, blob)
	}
	if err != nil {
		return nil, size, fmt.Errorf("read %s: %w", m.Blob, err)
	}
	if sum := hash.Checksum(raw); sum != m.Checksum {
		return nil, size, fmt.Errorf("%w: %s crc %08x, manifest says %08x", persistence.ErrChecksumMismatch, m.Blob, sum, m.Checksum)
	}

	snap, err := persistence.Decode(raw)
	if err != nil {
		return nil, size, err
	}

	p := Params{KmerSize: snap.KmerSize, WindowSize: snap.WindowSize, AlphabetSize: snap.AlphabetSize}
	if want := (Params{KmerSize: m.KmerSize, WindowSize: m.WindowSize, AlphabetSize: m.AlphabetSize}); p != want {
		return nil, size, fmt.Errorf("%w: %w", persistence.ErrCorrupt, &ParamsMismatchError{Expected: want, Actual: p})
	}
	if len(snap.Records) != m.Records || len(snap.Sequences) != m.Sequences {
		return nil, size, fmt.Errorf("%w: %s counts disagree with manifest", persistence.ErrCorrupt, m.Blob)
	}

	sk := &Sketch{
		Params:    p,
		Sequences: make([]SequenceInfo, len(snap.Sequences)),
		Index:     model.FromRecords(snap.Records),
	}
	for i, q := range snap.Sequences {
		sk.Sequences[i] = SequenceInfo{ID: model.SeqID(i), Name: q.Name, Length: q.Length}
	}
	return sk, size, nil
}

func validateName(name string) error {
	if name == "" || strings.ContainsAny(name, `/\`) || name == persistence.CurrentFileName {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// List returns the names of all sketches in store that have a manifest.
func List(ctx context.Context, store blobstore.BlobStore) ([]string, error) {
	names, err := store.List(ctx, "")
	if err != nil {
		return nil, err
	}
	var out []string
	for _, n := range names {
		if base, ok := strings.CutSuffix(n, persistence.ManifestSuffix); ok {
			out = append(out, base)
		}
	}
	return out, nil
}

// IsNotFound reports whether err means a sketch or blob does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, blobstore.ErrNotFound)
}
