// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/mzhao/paper-curator/internal/vectorindex"
)

type stubFinder struct {
	results []vectorindex.SearchResult
	err     error
}

func (s *stubFinder) FindSimilar(ctx context.Context, paperID string, k int) ([]vectorindex.SearchResult, error) {
	return s.results, s.err
}

func TestFindSimilarNoAbstractIsEmptyNotError(t *testing.T) {
	finder := &stubFinder{err: fmt.Errorf("paper nerf-2020: %w", vectorindex.ErrNoAbstractChunk)}

	var diag strings.Builder
	results, err := findSimilarOrEmpty(context.Background(), finder, "nerf-2020", 5, &diag)
	if err != nil {
		t.Fatalf("missing abstract chunk should not be an error, got %v", err)
	}
	if results == nil || len(results) != 0 {
		t.Errorf("got %v, want empty non-nil result set", results)
	}
	if !strings.Contains(diag.String(), "nerf-2020 has no abstract in the index") {
		t.Errorf("diagnostic not reported: %q", diag.String())
	}
}

func TestFindSimilarOtherErrorsPropagate(t *testing.T) {
	wantErr := errors.New("database locked")
	finder := &stubFinder{err: wantErr}

	var diag strings.Builder
	if _, err := findSimilarOrEmpty(context.Background(), finder, "nerf-2020", 5, &diag); !errors.Is(err, wantErr) {
		t.Fatalf("got %v, want %v", err, wantErr)
	}
	if diag.Len() != 0 {
		t.Errorf("unexpected diagnostic: %q", diag.String())
	}
}

func TestFindSimilarPassesResultsThrough(t *testing.T) {
	finder := &stubFinder{results: []vectorindex.SearchResult{{ID: "splatting-2023_abstract"}}}

	results, err := findSimilarOrEmpty(context.Background(), finder, "nerf-2020", 5, &strings.Builder{})
	if err != nil {
		t.Fatalf("findSimilarOrEmpty: %v", err)
	}
	if len(results) != 1 || results[0].ID != "splatting-2023_abstract" {
		t.Errorf("results not passed through: %v", results)
	}
}
