package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"runtime"

	"github.com/hupe1980/winnow"
	"github.com/hupe1980/winnow/persistence"
	"github.com/hupe1980/winnow/resource"
	"github.com/hupe1980/winnow/sqlstore"
)

type buildFlags struct {
	k, w, alphabet int
	name           string
	out            string
	ddbTable       string
	compression    string
	manifestCodec  string
	workers        int
	memoryLimit    int64
	ioLimit        int64
	sqlite         string
	noPublish      bool
	log            logFlags
}

func runBuild(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var f buildFlags
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: winnow build [flags] <fasta>...  ('-' reads stdin)")
		fs.PrintDefaults()
	}
	fs.IntVar(&f.k, "k", 15, "k-mer size")
	fs.IntVar(&f.w, "w", 10, "window size in k-mers")
	fs.IntVar(&f.alphabet, "alphabet", winnow.NucleotideAlphabet, "alphabet size (4 = nucleotide, otherwise protein)")
	fs.StringVar(&f.name, "name", "ref", "sketch name")
	fs.StringVar(&f.out, "out", ".", "output: directory, s3://bucket/prefix or minio://endpoint/bucket/prefix")
	fs.StringVar(&f.ddbTable, "ddb-table", "", "DynamoDB table publishing CURRENT (s3 only)")
	fs.StringVar(&f.compression, "compression", "lz4", "block compression: none | lz4 | zstd")
	fs.StringVar(&f.manifestCodec, "manifest-codec", "json", "manifest encoding: json | json-indent")
	fs.IntVar(&f.workers, "workers", runtime.NumCPU(), "sequences sketched in parallel")
	fs.Int64Var(&f.memoryLimit, "memory-limit", 0, "bytes of sequence data in flight (0 = unlimited)")
	fs.Int64Var(&f.ioLimit, "io-limit", 0, "input bytes per second (0 = unlimited)")
	fs.StringVar(&f.sqlite, "sqlite", "", "also export the sketch to this SQLite database")
	fs.BoolVar(&f.noPublish, "no-publish", false, "do not point CURRENT at the new sketch")
	f.log.register(fs)

	if err := fs.Parse(args); err != nil {
		return err
	}
	inputs := fs.Args()
	if len(inputs) == 0 {
		return usagef("no input files")
	}

	p := winnow.Params{KmerSize: f.k, WindowSize: f.w, AlphabetSize: f.alphabet}
	if err := p.Validate(); err != nil {
		return usagef("%v", err)
	}
	comp, err := persistence.ParseCompression(f.compression)
	if err != nil {
		return usagef("%v", err)
	}
	mc, err := persistence.ManifestCodecByName(f.manifestCodec)
	if err != nil {
		return usagef("%v", err)
	}
	loc, err := ParseLocation(f.out)
	if err != nil {
		return usagef("-out: %v", err)
	}
	logger, err := f.log.logger(stderr)
	if err != nil {
		return err
	}

	rc := resource.NewController(resource.Config{
		MemoryLimitBytes:   f.memoryLimit,
		MaxWorkers:         int64(max(1, f.workers)),
		IOLimitBytesPerSec: f.ioLimit,
	})
	b, err := winnow.NewBuilder(p,
		winnow.WithConcurrency(f.workers),
		winnow.WithResourceController(rc),
		winnow.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	if _, err := b.AddFiles(ctx, inputs...); err != nil {
		return err
	}
	sk := b.Sketch()

	store, err := openStore(ctx, loc, storeConfig{ddbTable: f.ddbTable, create: true})
	if err != nil {
		return err
	}
	m, err := sk.Save(ctx, store, f.name,
		winnow.WithCompression(comp),
		winnow.WithCodec(mc),
		winnow.WithLogger(logger),
		winnow.WithPublish(!f.noPublish),
	)
	if err != nil {
		return err
	}

	if f.sqlite != "" {
		db, err := sqlstore.Open(ctx, f.sqlite)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.Export(ctx, sk); err != nil {
			return err
		}
	}

	fmt.Fprintf(stdout, "%s: %d sequences, %d minimizers, %d bytes (%s) -> %s\n",
		m.Name, m.Sequences, m.Records, m.Size, m.Compression, loc)
	return nil
}
