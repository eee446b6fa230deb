// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package vectorindex

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mzhao/paper-curator/pkg/types"
)

func testIndex(t *testing.T, embedder Embedder) *Index {
	t.Helper()
	idx, err := Open(filepath.Join(t.TempDir(), "papers.db"), embedder)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { idx.Close() })
	return idx
}

func fixturePapers() []*types.PaperRecord {
	return []*types.PaperRecord{
		{
			ID:       "splatting-2023",
			Title:    "3D Gaussian Splatting",
			Authors:  []string{"Kerbl"},
			Year:     2023,
			Venue:    "arXiv",
			Abstract: "Gaussian splatting renders radiance fields in real time.",
			AISummaries: &types.SummarySet{
				KeyContributions: types.ContributionsResult{
					Items: []string{"Real-time rendering", "Anisotropic gaussians"},
				},
			},
		},
		{
			ID:       "nerf-2020",
			Title:    "NeRF",
			Authors:  []string{"Mildenhall"},
			Year:     2020,
			Venue:    "ECCV",
			Abstract: "Neural radiance fields represent scenes as networks.",
		},
		{
			// No abstract, no summaries: only the metadata chunk.
			ID:      "slam-2024",
			Title:   "Dense SLAM Survey",
			Authors: []string{"Zhou"},
			Year:    2024,
		},
	}
}

func TestChunkPaper(t *testing.T) {
	papers := fixturePapers()

	chunks := ChunkPaper(papers[0])
	if len(chunks) != 4 {
		t.Fatalf("got %d chunks, want abstract + 2 contributions + metadata", len(chunks))
	}
	wantIDs := []string{
		"splatting-2023_abstract",
		"splatting-2023_contrib_1",
		"splatting-2023_contrib_2",
		"splatting-2023_metadata",
	}
	for i, want := range wantIDs {
		if chunks[i].ID != want {
			t.Errorf("chunk[%d].ID = %q, want %q", i, chunks[i].ID, want)
		}
	}
	if !strings.Contains(chunks[0].Text, "Title: 3D Gaussian Splatting") {
		t.Errorf("abstract chunk missing title: %q", chunks[0].Text)
	}
	if chunks[0].Meta.Year != "2023" || chunks[0].Meta.Authors != "Kerbl" {
		t.Errorf("chunk metadata wrong: %+v", chunks[0].Meta)
	}
}

func TestChunkPaperMetadataOnly(t *testing.T) {
	chunks := ChunkPaper(fixturePapers()[2])
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want metadata only", len(chunks))
	}
	if chunks[0].Type != types.ChunkMetadata {
		t.Errorf("chunk type = %q, want metadata", chunks[0].Type)
	}
	if !strings.Contains(chunks[0].Text, "Dense SLAM Survey") {
		t.Errorf("metadata chunk missing title: %q", chunks[0].Text)
	}
}

func TestMetadataChunkCarriesTypeAndNotes(t *testing.T) {
	p := &types.PaperRecord{
		ID:    "survey-2024",
		Title: "A Survey of Neural Rendering",
		Year:  2024,
		Type:  "Survey",
		Notes: "must-read for the rendering chapter",
	}

	chunks := ChunkPaper(p)
	text := chunks[len(chunks)-1].Text
	if !strings.Contains(text, "Type: Survey") {
		t.Errorf("metadata chunk missing type line: %q", text)
	}
	if !strings.Contains(text, "Notes: must-read for the rendering chapter") {
		t.Errorf("metadata chunk missing notes line: %q", text)
	}

	// Untyped records default to Research; absent notes add no line.
	plain := ChunkPaper(&types.PaperRecord{ID: "plain-2024", Title: "Plain", Year: 2024})
	text = plain[len(plain)-1].Text
	if !strings.Contains(text, "Type: Research") {
		t.Errorf("metadata chunk missing default type: %q", text)
	}
	if strings.Contains(text, "Notes:") {
		t.Errorf("metadata chunk has a notes line for an unannotated record: %q", text)
	}
}

func TestChunkPaperSummaryStandsInForAbstract(t *testing.T) {
	p := &types.PaperRecord{
		ID:    "nosabs-2024",
		Title: "Paper Without Abstract",
		Year:  2024,
		AISummaries: &types.SummarySet{
			Short: types.SummaryResult{Text: "A short AI-written summary."},
		},
	}

	chunks := ChunkPaper(p)
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want abstract + metadata", len(chunks))
	}
	if chunks[0].ID != "nosabs-2024_abstract" {
		t.Errorf("chunk[0].ID = %q, want nosabs-2024_abstract", chunks[0].ID)
	}
	if !strings.Contains(chunks[0].Text, "A short AI-written summary.") {
		t.Errorf("abstract chunk should carry the summary text: %q", chunks[0].Text)
	}
}

func TestChunkPaperContributionCap(t *testing.T) {
	p := &types.PaperRecord{
		ID:       "many-2024",
		Title:    "Many Contributions",
		Abstract: "x",
		AISummaries: &types.SummarySet{
			KeyContributions: types.ContributionsResult{
				Items: []string{"a", "b", "c", "d", "e", "f", "g"},
			},
		},
	}
	chunks := ChunkPaper(p)
	// abstract + 5 capped contributions + metadata
	if len(chunks) != 7 {
		t.Fatalf("got %d chunks, want 7", len(chunks))
	}
}

func TestIndexAndSearch(t *testing.T) {
	idx := testIndex(t, HashingEmbedder{})
	ctx := context.Background()

	sum, err := idx.IndexPapers(ctx, fixturePapers(), IndexOptions{})
	if err != nil {
		t.Fatalf("IndexPapers: %v", err)
	}
	if sum.TotalPapers != 3 || sum.Indexed != 3 || sum.Errors != 0 {
		t.Fatalf("summary = %+v", sum)
	}
	if sum.Chunks != 4+2+1 {
		t.Errorf("Chunks = %d, want 7", sum.Chunks)
	}

	results, err := idx.Search(ctx, "gaussian splatting radiance", 3, SearchOptions{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	if results[0].Meta.PaperID != "splatting-2023" {
		t.Errorf("top result paper = %q, want splatting-2023", results[0].Meta.PaperID)
	}
	for i := 1; i < len(results); i++ {
		if results[i].Similarity > results[i-1].Similarity {
			t.Errorf("results not sorted by similarity at %d", i)
		}
	}
}

func TestIndexIsIdempotent(t *testing.T) {
	idx := testIndex(t, HashingEmbedder{})
	ctx := context.Background()
	papers := fixturePapers()

	if _, err := idx.IndexPapers(ctx, papers, IndexOptions{}); err != nil {
		t.Fatal(err)
	}
	first, _ := idx.Count(ctx)

	if _, err := idx.IndexPapers(ctx, papers, IndexOptions{}); err != nil {
		t.Fatal(err)
	}
	second, _ := idx.Count(ctx)

	if first != second {
		t.Errorf("re-index changed chunk count: %d -> %d", first, second)
	}
}

func TestIndexReplacesShrunkChunkSets(t *testing.T) {
	idx := testIndex(t, HashingEmbedder{})
	ctx := context.Background()
	papers := fixturePapers()

	if _, err := idx.IndexPapers(ctx, papers, IndexOptions{}); err != nil {
		t.Fatal(err)
	}

	// Re-summarize shrank the contribution list.
	papers[0].AISummaries.KeyContributions.Items = papers[0].AISummaries.KeyContributions.Items[:1]
	if _, err := idx.IndexPapers(ctx, papers[:1], IndexOptions{}); err != nil {
		t.Fatal(err)
	}

	results, err := idx.Search(ctx, "anything", 0, SearchOptions{PaperID: "splatting-2023"})
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range results {
		if r.ID == "splatting-2023_contrib_2" {
			t.Error("stale contribution chunk survived re-index")
		}
	}
	if len(results) != 3 {
		t.Errorf("got %d chunks for paper, want abstract + 1 contribution + metadata", len(results))
	}
}

func TestIndexClearExisting(t *testing.T) {
	idx := testIndex(t, HashingEmbedder{})
	ctx := context.Background()

	if _, err := idx.IndexPapers(ctx, fixturePapers(), IndexOptions{}); err != nil {
		t.Fatal(err)
	}
	if _, err := idx.IndexPapers(ctx, fixturePapers()[:1], IndexOptions{ClearExisting: true}); err != nil {
		t.Fatal(err)
	}

	info, err := idx.StatsInfo(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if info.Papers != 1 {
		t.Errorf("papers after clear = %d, want 1", info.Papers)
	}
	if info.Model != (HashingEmbedder{}).ModelID() {
		t.Errorf("model = %q", info.Model)
	}
}

type failingEmbedder struct{}

func (failingEmbedder) Embed(context.Context, []string) ([][]float32, error) {
	return nil, errors.New("backend unreachable")
}
func (failingEmbedder) ModelID() string { return "hashing/v1" }

func TestIndexCapturesPerPaperErrors(t *testing.T) {
	idx := testIndex(t, failingEmbedder{})
	ctx := context.Background()

	var failed []string
	sum, err := idx.IndexPapers(ctx, fixturePapers(), IndexOptions{
		OnError: func(paperID string, err error) { failed = append(failed, paperID) },
	})
	if err != nil {
		t.Fatalf("run should not abort on per-paper errors: %v", err)
	}
	if sum.Errors != 3 || sum.Indexed != 0 {
		t.Errorf("summary = %+v", sum)
	}
	if !sum.HasFailures() {
		t.Error("HasFailures() = false")
	}
	if len(failed) != 3 {
		t.Errorf("OnError called %d times, want 3", len(failed))
	}
}

func TestModelMismatchRefused(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "papers.db")

	idx, err := Open(path, HashingEmbedder{})
	if err != nil {
		t.Fatal(err)
	}
	idx.Close()

	_, err = Open(path, failingEmbedder2{})
	if err == nil {
		t.Fatal("expected model mismatch error")
	}
	if !strings.Contains(err.Error(), "--clear") {
		t.Errorf("error should tell the user to re-index: %v", err)
	}
}

type failingEmbedder2 struct{}

func (failingEmbedder2) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return HashingEmbedder{}.Embed(ctx, texts)
}
func (failingEmbedder2) ModelID() string { return "other/model" }

func TestFindSimilar(t *testing.T) {
	idx := testIndex(t, HashingEmbedder{})
	ctx := context.Background()

	if _, err := idx.IndexPapers(ctx, fixturePapers(), IndexOptions{}); err != nil {
		t.Fatal(err)
	}

	results, err := idx.FindSimilar(ctx, "splatting-2023", 5)
	if err != nil {
		t.Fatalf("FindSimilar: %v", err)
	}
	for _, r := range results {
		if r.Meta.PaperID == "splatting-2023" {
			t.Error("seed paper returned in its own similarity results")
		}
		if r.Meta.ChunkType != string(types.ChunkAbstract) {
			t.Errorf("non-abstract chunk %q in similarity results", r.ID)
		}
	}
	// Only nerf-2020 has an abstract chunk besides the seed.
	if len(results) != 1 || results[0].Meta.PaperID != "nerf-2020" {
		t.Errorf("results = %+v, want just nerf-2020", results)
	}
}

func TestFindSimilarNoAbstract(t *testing.T) {
	idx := testIndex(t, HashingEmbedder{})
	ctx := context.Background()

	if _, err := idx.IndexPapers(ctx, fixturePapers(), IndexOptions{}); err != nil {
		t.Fatal(err)
	}

	_, err := idx.FindSimilar(ctx, "slam-2024", 5)
	if !errors.Is(err, ErrNoAbstractChunk) {
		t.Errorf("err = %v, want ErrNoAbstractChunk", err)
	}
}

func TestSearchChunkTypeFilter(t *testing.T) {
	idx := testIndex(t, HashingEmbedder{})
	ctx := context.Background()

	if _, err := idx.IndexPapers(ctx, fixturePapers(), IndexOptions{}); err != nil {
		t.Fatal(err)
	}

	results, err := idx.Search(ctx, "radiance", 10, SearchOptions{ChunkType: "abstract"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d abstract chunks, want 2", len(results))
	}
	for _, r := range results {
		if r.Meta.ChunkType != "abstract" {
			t.Errorf("filter leaked chunk type %q", r.Meta.ChunkType)
		}
	}
}

func TestHashingEmbedderDeterministic(t *testing.T) {
	ctx := context.Background()
	a, err := HashingEmbedder{}.Embed(ctx, []string{"gaussian splatting"})
	if err != nil {
		t.Fatal(err)
	}
	b, _ := HashingEmbedder{}.Embed(ctx, []string{"gaussian splatting"})
	if fmt.Sprint(a) != fmt.Sprint(b) {
		t.Error("same text produced different vectors")
	}
	if sim := cosine(a[0], b[0]); sim < 0.999 {
		t.Errorf("self-similarity = %v, want ~1", sim)
	}
}
