// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package vectorindex

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/mzhao/paper-curator/pkg/types"
)

// ErrNoAbstractChunk is returned by FindSimilar when the seed paper has no
// abstract chunk to measure similarity from.
var ErrNoAbstractChunk = errors.New("paper has no abstract chunk in the index")

// SearchResult is one retrieved chunk with its similarity to the query.
// Similarity is cosine in [-1, 1]; for normalized embedding models it is
// effectively [0, 1], higher is closer.
type SearchResult struct {
	ID         string          `json:"id" yaml:"id"`
	Text       string          `json:"text" yaml:"text"`
	Similarity float64         `json:"similarity" yaml:"similarity"`
	Meta       types.ChunkMeta `json:"metadata" yaml:"metadata"`
}

// SearchOptions filters a search.
type SearchOptions struct {
	// ChunkType restricts results to one chunk type, e.g. "abstract".
	ChunkType string

	// PaperID restricts results to one paper's chunks.
	PaperID string
}

// Search embeds the query and returns the k most similar chunks.
func (x *Index) Search(ctx context.Context, query string, k int, opts SearchOptions) ([]SearchResult, error) {
	vecs, err := x.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	return x.nearest(ctx, vecs[0], k, func(r SearchResult) bool {
		if opts.ChunkType != "" && r.Meta.ChunkType != opts.ChunkType {
			return false
		}
		if opts.PaperID != "" && r.Meta.PaperID != opts.PaperID {
			return false
		}
		return true
	})
}

// FindSimilar returns the k papers most similar to the given one, seeded
// from its stored abstract-chunk embedding. No re-embedding happens; the
// stored vector is the seed. Results cover only abstract chunks of other
// papers, so each hit is one paper.
func (x *Index) FindSimilar(ctx context.Context, paperID string, k int) ([]SearchResult, error) {
	var blob []byte
	err := x.db.QueryRowContext(ctx,
		`SELECT embedding FROM chunks WHERE paper_id = ? AND chunk_type = ?`,
		paperID, string(types.ChunkAbstract),
	).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("looking up %s: %w", paperID, ErrNoAbstractChunk)
	}
	if err != nil {
		return nil, fmt.Errorf("looking up %s: %w", paperID, err)
	}

	seed := decodeVector(blob)
	return x.nearest(ctx, seed, k, func(r SearchResult) bool {
		return r.Meta.ChunkType == string(types.ChunkAbstract) && r.Meta.PaperID != paperID
	})
}

// nearest scans all stored chunks, keeps those passing the filter, and
// returns the top k by cosine similarity.
func (x *Index) nearest(ctx context.Context, query []float32, k int, keep func(SearchResult) bool) ([]SearchResult, error) {
	rows, err := x.db.QueryContext(ctx,
		`SELECT id, paper_id, chunk_type, text, title, year, venue, authors, categories, embedding FROM chunks`)
	if err != nil {
		return nil, fmt.Errorf("scanning chunks: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		var blob []byte
		if err := rows.Scan(
			&r.ID, &r.Meta.PaperID, &r.Meta.ChunkType, &r.Text,
			&r.Meta.Title, &r.Meta.Year, &r.Meta.Venue, &r.Meta.Authors, &r.Meta.Categories,
			&blob,
		); err != nil {
			return nil, fmt.Errorf("reading chunk: %w", err)
		}
		if !keep(r) {
			continue
		}
		r.Similarity = cosine(query, decodeVector(blob))
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scanning chunks: %w", err)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})
	if k > 0 && len(results) > k {
		results = results[:k]
	}
	return results, nil
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
