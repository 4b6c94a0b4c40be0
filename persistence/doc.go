// Package persistence provides the binary serialization of minimizer sketches.
//
// # File Layout
//
//	┌──────────────────────────────────────────────┐
//	│ FileHeader (48 bytes, little-endian)         │
//	├──────────────────────────────────────────────┤
//	│ Sequence table (uncompressed)                │
//	│   [nameLen u16][name][length u64] × N        │
//	├──────────────────────────────────────────────┤
//	│ Record blocks                                │
//	│   [uncompressed u32][compressed u32][data]   │
//	│   compressed == 0 means stored as-is         │
//	├──────────────────────────────────────────────┤
//	│ CRC32C of everything above (u32)             │
//	└──────────────────────────────────────────────┘
//
// Each record is 21 bytes: hash u64, sequence id u32, window position i64,
// strand u8.
//
// A JSON Manifest describes a stored blob (parameters, counts, checksum) so
// that listings and commit pointers do not need to read the blob itself.
package persistence
