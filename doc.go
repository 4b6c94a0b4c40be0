// Package winnow builds winnowed minimizer indexes of DNA and protein
// sequences.
//
// For every window of w consecutive k-mers the smallest k-mer hash is
// selected. Nucleotide k-mers are canonicalized against their reverse
// complement, so a sequence and its reverse complement yield the same
// hashes. Consecutive windows that pick the same minimizer produce a single
// record.
//
// # Quick Start
//
//	ctx := context.Background()
//	b, _ := winnow.NewBuilder(winnow.NucleotideParams(15, 10),
//	    winnow.WithConcurrency(8),
//	    winnow.WithLogLevel(slog.LevelInfo),
//	)
//	_, _ = b.AddFiles(ctx, "hg38.fa.gz")
//
//	sketch := b.Sketch()
//	_, _ = sketch.Save(ctx, blobstore.NewLocalStore("./refs"), "hg38")
//
// Loading:
//
//	sketch, _ := winnow.Load(ctx, store, "hg38")
//	tbl := sketch.Lookup()
//	for _, r := range tbl.Positions(h) { ... }
//
// # Low-level API
//
// AddMinimizers appends the minimizers of a single sequence to a
// caller-owned model.Index. It has no error path: invalid parameters and
// sequences shorter than one window contribute nothing.
//
// # Storage
//
// A saved sketch is two blobs, <name>.wnx (binary, block-compressed,
// CRC32C-protected) and <name>.manifest (JSON by default), plus a CURRENT
// pointer to the most recent manifest. Any blobstore.BlobStore works:
// local disk, memory, S3 (optionally with DynamoDB commits) or MinIO.
package winnow
