// Package sqlstore exports sketches into a SQLite database so minimizer
// positions can be queried with plain SQL.
//
// The database uses the pure-Go modernc.org/sqlite driver and holds three
// tables:
//
//	params(kmer_size, window_size, alphabet_size)
//	sequences(id, name, length)
//	minimizers(hash, seq_id, wpos, strand)
//
// Hashes are stored as the int64 with the same bits as the uint64 hash.
package sqlstore
