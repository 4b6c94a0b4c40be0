package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hupe1980/winnow"
	"github.com/hupe1980/winnow/model"

	_ "modernc.org/sqlite" // register pure-Go SQLite driver
)

// ErrEmpty is returned when reading from a database nothing was exported to.
var ErrEmpty = errors.New("sqlstore: no sketch exported")

const schema = `
CREATE TABLE IF NOT EXISTS params (
	kmer_size     INTEGER NOT NULL,
	window_size   INTEGER NOT NULL,
	alphabet_size INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS sequences (
	id     INTEGER PRIMARY KEY,
	name   TEXT    NOT NULL,
	length INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS minimizers (
	hash   INTEGER NOT NULL,
	seq_id INTEGER NOT NULL,
	wpos   INTEGER NOT NULL,
	strand INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS minimizers_hash ON minimizers(hash);
`

// Store is a SQLite database holding at most one exported sketch.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at dsn. Pass ":memory:"
// for a private in-memory database.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// One connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlstore: create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// DB returns the underlying database handle.
func (s *Store) DB() *sql.DB { return s.db }

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// Export replaces the database content with sk in a single transaction.
func (s *Store) Export(ctx context.Context, sk *winnow.Sketch) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, table := range []string{"params", "sequences", "minimizers"} {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("sqlstore: clear %s: %w", table, err)
		}
	}

	p := sk.Params
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO params(kmer_size, window_size, alphabet_size) VALUES(?, ?, ?)`,
		p.KmerSize, p.WindowSize, p.AlphabetSize); err != nil {
		return fmt.Errorf("sqlstore: insert params: %w", err)
	}

	seqStmt, err := tx.PrepareContext(ctx, `INSERT INTO sequences(id, name, length) VALUES(?, ?, ?)`)
	if err != nil {
		return err
	}
	defer seqStmt.Close()
	for _, q := range sk.Sequences {
		if _, err = seqStmt.ExecContext(ctx, int64(q.ID), q.Name, q.Length); err != nil {
			return fmt.Errorf("sqlstore: insert sequence %d: %w", q.ID, err)
		}
	}

	minStmt, err := tx.PrepareContext(ctx, `INSERT INTO minimizers(hash, seq_id, wpos, strand) VALUES(?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer minStmt.Close()
	for _, r := range sk.Index.Records() {
		if _, err = minStmt.ExecContext(ctx, int64(r.Hash), int64(r.SeqID), r.WindowPos, int64(r.Strand)); err != nil {
			return fmt.Errorf("sqlstore: insert minimizer: %w", err)
		}
	}

	return tx.Commit()
}

// Params returns the parameters of the exported sketch.
func (s *Store) Params(ctx context.Context) (winnow.Params, error) {
	var p winnow.Params
	err := s.db.QueryRowContext(ctx, `SELECT kmer_size, window_size, alphabet_size FROM params LIMIT 1`).
		Scan(&p.KmerSize, &p.WindowSize, &p.AlphabetSize)
	if errors.Is(err, sql.ErrNoRows) {
		return p, ErrEmpty
	}
	return p, err
}

// Sequences returns the exported sequences ordered by id.
func (s *Store) Sequences(ctx context.Context) ([]winnow.SequenceInfo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, length FROM sequences ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []winnow.SequenceInfo
	for rows.Next() {
		var (
			id   int64
			info winnow.SequenceInfo
		)
		if err := rows.Scan(&id, &info.Name, &info.Length); err != nil {
			return nil, err
		}
		info.ID = model.SeqID(id)
		out = append(out, info)
	}
	return out, rows.Err()
}

// Positions returns every occurrence of hash ordered by sequence and
// window.
func (s *Store) Positions(ctx context.Context, hash uint64) ([]model.Record, error) {
	return s.records(ctx, `SELECT hash, seq_id, wpos, strand FROM minimizers WHERE hash = ? ORDER BY seq_id, wpos`, int64(hash))
}

// Count returns the number of occurrences of hash.
func (s *Store) Count(ctx context.Context, hash uint64) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM minimizers WHERE hash = ?`, int64(hash)).Scan(&n)
	return n, err
}

// Sketch reads the exported sketch back.
func (s *Store) Sketch(ctx context.Context) (*winnow.Sketch, error) {
	p, err := s.Params(ctx)
	if err != nil {
		return nil, err
	}
	seqs, err := s.Sequences(ctx)
	if err != nil {
		return nil, err
	}
	recs, err := s.records(ctx, `SELECT hash, seq_id, wpos, strand FROM minimizers ORDER BY seq_id, wpos`)
	if err != nil {
		return nil, err
	}
	return &winnow.Sketch{Params: p, Sequences: seqs, Index: model.FromRecords(recs)}, nil
}

func (s *Store) records(ctx context.Context, query string, args ...any) ([]model.Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Record
	for rows.Next() {
		var h, seqID, strand int64
		var r model.Record
		if err := rows.Scan(&h, &seqID, &r.WindowPos, &strand); err != nil {
			return nil, err
		}
		r.Hash = uint64(h)
		r.SeqID = model.SeqID(seqID)
		r.Strand = model.Strand(strand)
		out = append(out, r)
	}
	return out, rows.Err()
}
