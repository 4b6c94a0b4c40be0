// Package testutil provides testing utilities for winnow.
//
// This package is intended for use in tests and benchmarks only.
//
// # Random Sequences
//
//	rng := testutil.NewRNG(seed)
//	dna := rng.DNA(10_000)
//	prot := rng.Protein(500)
//	reads := rng.Mutate(dna, 0.01)
//
// # Reference Minimizers
//
// BruteForceMinimizers recomputes every window minimum from scratch. It is
// quadratic in the window size and serves as ground truth for the
// streaming selector.
package testutil
