package fasta

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// multiReadCloser closes multiple io.Closers when Close() is called.
type multiReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiReadCloser) Close() error {
	var err error
	for _, c := range m.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// Open opens path for reading, transparently decompressing gzip.
// "-" reads standard input.
func Open(path string) (io.ReadCloser, error) {
	if path == "-" {
		return maybeGzip(io.NopCloser(os.Stdin), "")
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return maybeGzip(fh, path)
}

func maybeGzip(rc io.ReadCloser, path string) (io.ReadCloser, error) {
	br := bufio.NewReaderSize(rc, 64*1024)
	sig, _ := br.Peek(2)
	isGzip := len(sig) == 2 && sig[0] == 0x1f && sig[1] == 0x8b
	if !isGzip && !strings.HasSuffix(path, ".gz") {
		return &multiReadCloser{Reader: br, closers: []io.Closer{rc}}, nil
	}
	gr, err := gzip.NewReader(br)
	if err != nil {
		_ = rc.Close()
		return nil, err
	}
	return &multiReadCloser{Reader: gr, closers: []io.Closer{gr, rc}}, nil
}
