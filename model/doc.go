// Package model defines the value types stored in a minimizer index.
//
// # Identity Types
//
//   - SeqID: caller-assigned, dense sequence identifier (uint32)
//   - Strand: Forward or Reverse orientation of a canonical k-mer
//
// # Data Types
//
//   - Record: one winnowed minimizer (hash, sequence, window, strand)
//   - Index: ordered, append-only list of records shared across sequences
//
// Records compare structurally with ==. Deduplication during winnowing uses
// SameMinimizer, which ignores the window position:
//
//	if !last.SameMinimizer(next) {
//	    idx.Append(next)
//	}
package model
