// Package mmap maps local sketch blobs into memory read-only.
//
// Sketches are decoded front to back exactly once, so mappings are created
// with a sequential access hint. Platforms without mmap(2) read the file
// into memory instead.
package mmap

import (
	"fmt"
	"os"
	"sync"
)

// OpenReadOnly maps the file at path and returns its contents together with
// a release function that unmaps them. release may be called more than
// once; data must not be touched after the first call.
func OpenReadOnly(path string) (data []byte, release func() error, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, nil, err
	}
	size := fi.Size()
	if size == 0 {
		return []byte{}, func() error { return nil }, nil
	}
	if int64(int(size)) != size {
		return nil, nil, fmt.Errorf("mmap: %s: %d bytes exceed the address space", path, size)
	}

	data, unmap, err := mapFile(f, int(size))
	if err != nil {
		return nil, nil, fmt.Errorf("mmap: %s: %w", path, err)
	}

	var (
		once sync.Once
		uerr error
	)
	release = func() error {
		once.Do(func() {
			if unmap != nil {
				uerr = unmap(data)
			}
		})
		return uerr
	}
	return data, release, nil
}
