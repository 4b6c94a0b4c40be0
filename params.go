package winnow

import "fmt"

// NucleotideAlphabet is the alphabet size that enables strand
// canonicalization. Any other size is treated as protein.
const NucleotideAlphabet = 4

// ProteinAlphabet is the conventional amino-acid alphabet size.
const ProteinAlphabet = 20

// Params are the winnowing parameters of an index.
type Params struct {
	// KmerSize is the k-mer length. Must be at least 1.
	KmerSize int `json:"kmer_size"`
	// WindowSize is the number of consecutive k-mers per window. Must be at least 1.
	WindowSize int `json:"window_size"`
	// AlphabetSize selects nucleotide (4) or protein (anything else) mode.
	AlphabetSize int `json:"alphabet_size"`
}

// NucleotideParams returns parameters for DNA input.
func NucleotideParams(k, w int) Params {
	return Params{KmerSize: k, WindowSize: w, AlphabetSize: NucleotideAlphabet}
}

// ProteinParams returns parameters for amino-acid input.
func ProteinParams(k, w int) Params {
	return Params{KmerSize: k, WindowSize: w, AlphabetSize: ProteinAlphabet}
}

// Validate checks that the parameters describe a usable index.
func (p Params) Validate() error {
	if p.KmerSize < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidKmerSize, p.KmerSize)
	}
	if p.WindowSize < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidWindowSize, p.WindowSize)
	}
	if p.AlphabetSize < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidAlphabet, p.AlphabetSize)
	}
	return nil
}

// Nucleotide reports whether strand canonicalization is enabled.
func (p Params) Nucleotide() bool {
	return p.AlphabetSize == NucleotideAlphabet
}

// CandidatePositions returns the number of k-mer positions scanned in a
// sequence of length n.
func (p Params) CandidatePositions(n int) int {
	return max(0, n-p.KmerSize+1)
}

// ValidWindows returns the number of complete windows in a sequence of
// length n.
func (p Params) ValidWindows(n int) int {
	return max(0, n-p.KmerSize-p.WindowSize+2)
}

// String returns a short description like "k=15 w=10 nucleotide".
func (p Params) String() string {
	mode := "protein"
	if p.Nucleotide() {
		mode = "nucleotide"
	}
	return fmt.Sprintf("k=%d w=%d %s", p.KmerSize, p.WindowSize, mode)
}
