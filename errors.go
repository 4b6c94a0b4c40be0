package winnow

import (
	"errors"
	"fmt"

	"github.com/hupe1980/winnow/blobstore"
	"github.com/hupe1980/winnow/persistence"
)

var (
	// ErrInvalidKmerSize is returned when the k-mer length is not positive.
	ErrInvalidKmerSize = errors.New("k-mer size must be positive")

	// ErrInvalidWindowSize is returned when the window size is not positive.
	ErrInvalidWindowSize = errors.New("window size must be positive")

	// ErrInvalidAlphabet is returned when the alphabet size is not positive.
	ErrInvalidAlphabet = errors.New("alphabet size must be positive")

	// ErrEmptySketch is returned when saving a sketch without sequences.
	ErrEmptySketch = errors.New("sketch has no sequences")

	// ErrInvalidName is returned for sketch names that cannot be stored.
	ErrInvalidName = errors.New("invalid sketch name")

	// ErrTooManySequences is returned when sequence ids would overflow uint32.
	ErrTooManySequences = errors.New("too many sequences")

	// ErrReferenceUnreadable is matched by every *ReferenceError.
	ErrReferenceUnreadable = errors.New("reference file unreadable")

	// ErrIsDirectory is the cause of a *ReferenceError for directory paths.
	ErrIsDirectory = errors.New("is a directory")

	// ErrNotFound is returned when a stored sketch does not exist.
	ErrNotFound = errors.New("sketch not found")

	// ErrCorrupt is returned when a stored sketch fails validation.
	ErrCorrupt = errors.New("sketch corrupt")
)

// ReferenceError reports a reference file whose size could not be read.
//
// The original underlying error can be accessed via errors.Unwrap.
type ReferenceError struct {
	Path string
	Err  error
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("reference %q: %v", e.Path, e.Err)
}

func (e *ReferenceError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrReferenceUnreadable) match.
func (e *ReferenceError) Is(target error) bool { return target == ErrReferenceUnreadable }

// ParamsMismatchError indicates two sketches built with different parameters.
type ParamsMismatchError struct {
	Expected Params
	Actual   Params
}

func (e *ParamsMismatchError) Error() string {
	return fmt.Sprintf("params mismatch: expected %s, got %s", e.Expected, e.Actual)
}

func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, blobstore.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	if errors.Is(err, persistence.ErrCorrupt) ||
		errors.Is(err, persistence.ErrChecksumMismatch) ||
		errors.Is(err, persistence.ErrUnsupportedVersion) {
		return fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	return err
}
