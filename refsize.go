package winnow

import "os"

// ReferenceSize returns the total on-disk size in bytes of the given
// reference files. Compressed files count with their compressed size.
//
// A path that cannot be stat'ed, or that is a directory, fails the whole
// call with a *ReferenceError.
func ReferenceSize(paths []string) (uint64, error) {
	var total uint64
	for _, p := range paths {
		fi, err := os.Stat(p)
		if err != nil {
			return 0, &ReferenceError{Path: p, Err: err}
		}
		if fi.IsDir() {
			return 0, &ReferenceError{Path: p, Err: ErrIsDirectory}
		}
		total += uint64(fi.Size())
	}
	return total, nil
}
