// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package vectorindex

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mzhao/paper-curator/pkg/types"
)

const modelKey = "embedding_model"

// Index is the SQLite-backed chunk store. One Index instance owns the
// database handle; callers Close it when done.
type Index struct {
	db       *sql.DB
	embedder Embedder
}

// Open opens or creates the index database at dbPath and verifies that any
// existing chunks were embedded by the same model the given embedder uses.
// A model mismatch is an error, not a silent degradation: mixed-model
// vectors make cosine distances meaningless.
func Open(dbPath string, embedder Embedder) (*Index, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating index directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening index database: %w", err)
	}

	idx := &Index{db: db, embedder: embedder}
	if err := idx.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating index schema: %w", err)
	}
	if err := idx.checkModel(); err != nil {
		db.Close()
		return nil, err
	}
	return idx, nil
}

// Close releases the database connection.
func (x *Index) Close() error { return x.db.Close() }

func (x *Index) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS chunks (
			id TEXT PRIMARY KEY,
			paper_id TEXT NOT NULL,
			chunk_type TEXT NOT NULL,
			text TEXT NOT NULL,
			title TEXT,
			year TEXT,
			venue TEXT,
			authors TEXT,
			categories TEXT,
			embedding BLOB NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_chunks_paper_id ON chunks(paper_id)`,
		`CREATE INDEX IF NOT EXISTS idx_chunks_type ON chunks(chunk_type)`,
		`CREATE TABLE IF NOT EXISTS index_meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := x.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// checkModel compares the stored model ID against the embedder's. An empty
// store adopts the embedder's model.
func (x *Index) checkModel() error {
	var stored string
	err := x.db.QueryRow(`SELECT value FROM index_meta WHERE key = ?`, modelKey).Scan(&stored)
	switch {
	case err == sql.ErrNoRows:
		_, err := x.db.Exec(
			`INSERT INTO index_meta (key, value) VALUES (?, ?)`,
			modelKey, x.embedder.ModelID(),
		)
		if err != nil {
			return fmt.Errorf("recording embedding model: %w", err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("reading embedding model: %w", err)
	case stored != x.embedder.ModelID():
		return fmt.Errorf("index was built with embedding model %s but current model is %s; re-index with --clear",
			stored, x.embedder.ModelID())
	}
	return nil
}

// IndexSummary counts the outcomes of one indexing run.
type IndexSummary struct {
	TotalPapers int `json:"total_papers" yaml:"total_papers"`
	Indexed     int `json:"indexed" yaml:"indexed"`
	Chunks      int `json:"chunks" yaml:"chunks"`
	Errors      int `json:"errors" yaml:"errors"`
}

// HasFailures reports whether any paper failed to index.
func (s IndexSummary) HasFailures() bool { return s.Errors > 0 }

// IndexOptions controls one indexing run.
type IndexOptions struct {
	// ClearExisting drops all stored chunks before indexing.
	ClearExisting bool

	// Progress, when set, is called after each paper with (done, total).
	Progress func(done, total int)

	// OnError, when set, receives each per-paper failure. Failures never
	// abort the run.
	OnError func(paperID string, err error)
}

// IndexPapers chunks and embeds the given records and stores them.
// Deterministic chunk IDs make re-runs idempotent: a paper's chunks are
// replaced, not duplicated. A paper that fails to embed is counted and
// reported; the run continues.
func (x *Index) IndexPapers(ctx context.Context, papers []*types.PaperRecord, opts IndexOptions) (IndexSummary, error) {
	sum := IndexSummary{TotalPapers: len(papers)}

	if opts.ClearExisting {
		if _, err := x.db.ExecContext(ctx, `DELETE FROM chunks`); err != nil {
			return sum, fmt.Errorf("clearing index: %w", err)
		}
	}

	for i, p := range papers {
		select {
		case <-ctx.Done():
			return sum, ctx.Err()
		default:
		}

		chunks := ChunkPaper(p)
		if err := x.indexChunks(ctx, p.ID, chunks); err != nil {
			sum.Errors++
			if opts.OnError != nil {
				opts.OnError(p.ID, err)
			}
		} else {
			sum.Indexed++
			sum.Chunks += len(chunks)
		}

		if opts.Progress != nil {
			opts.Progress(i+1, len(papers))
		}
	}

	return sum, nil
}

func (x *Index) indexChunks(ctx context.Context, paperID string, chunks []types.EmbeddingChunk) error {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vecs, err := x.embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding %s: %w", paperID, err)
	}
	if len(vecs) != len(chunks) {
		return fmt.Errorf("embedding %s: got %d vectors for %d chunks", paperID, len(vecs), len(chunks))
	}

	tx, err := x.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// Drop the paper's prior chunks first so shrinking chunk sets (fewer
	// contributions after a re-summarize) leave no stale rows.
	if _, err := tx.ExecContext(ctx, `DELETE FROM chunks WHERE paper_id = ?`, paperID); err != nil {
		return fmt.Errorf("deleting old chunks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO chunks (id, paper_id, chunk_type, text, title, year, venue, authors, categories, embedding)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, c := range chunks {
		_, err := stmt.ExecContext(ctx,
			c.ID, c.PaperID, string(c.Type), c.Text,
			c.Meta.Title, c.Meta.Year, c.Meta.Venue, c.Meta.Authors, c.Meta.Categories,
			encodeVector(vecs[i]),
		)
		if err != nil {
			return fmt.Errorf("inserting chunk %s: %w", c.ID, err)
		}
	}

	return tx.Commit()
}

// Count returns the number of stored chunks.
func (x *Index) Count(ctx context.Context) (int, error) {
	var n int
	if err := x.db.QueryRowContext(ctx, `SELECT count(*) FROM chunks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return n, nil
}

// Info describes the index contents for the stats output.
type Info struct {
	Chunks int    `json:"chunks" yaml:"chunks"`
	Papers int    `json:"papers" yaml:"papers"`
	Model  string `json:"model" yaml:"model"`
}

// StatsInfo reports chunk and paper counts plus the embedding model.
func (x *Index) StatsInfo(ctx context.Context) (Info, error) {
	var info Info
	if err := x.db.QueryRowContext(ctx,
		`SELECT count(*), count(DISTINCT paper_id) FROM chunks`,
	).Scan(&info.Chunks, &info.Papers); err != nil {
		return info, fmt.Errorf("reading index stats: %w", err)
	}
	if err := x.db.QueryRowContext(ctx,
		`SELECT value FROM index_meta WHERE key = ?`, modelKey,
	).Scan(&info.Model); err != nil && err != sql.ErrNoRows {
		return info, fmt.Errorf("reading embedding model: %w", err)
	}
	return info, nil
}

// encodeVector serializes a vector as little-endian float32s.
func encodeVector(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

func decodeVector(buf []byte) []float32 {
	vec := make([]float32, len(buf)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return vec
}
