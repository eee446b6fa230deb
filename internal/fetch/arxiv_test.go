// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mzhao/paper-curator/pkg/types"
)

func feedXML(entries string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">` + entries + `</feed>`
}

func entryXML(id, title, published, comment string) string {
	return fmt.Sprintf(`<entry>
  <id>http://arxiv.org/abs/%s</id>
  <title>%s</title>
  <summary>  A multi-line
  abstract.  </summary>
  <published>%s</published>
  <updated>%s</updated>
  <author><name>Alice Smith</name></author>
  <author><name>Bob Jones</name></author>
  <category term="cs.CV"/>
  <category term="cs.LG"/>
  <comment>%s</comment>
  <link href="http://arxiv.org/pdf/%s" title="pdf" rel="related"/>
</entry>`, id, title, published, published, comment, id)
}

func testFetchCfg() types.FetchConfig {
	return types.FetchConfig{
		HTTPConfig:   types.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "test/0.1"},
		Categories:   []string{"cs.CV", "cs.LG"},
		MaxResults:   50,
		LookbackDays: 7,
	}
}

func TestFetchParsesFeed(t *testing.T) {
	recent := time.Now().Add(-24 * time.Hour).UTC().Format(time.RFC3339)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("search_query")
		if q != "(cat:cs.CV OR cat:cs.LG)" {
			t.Errorf("search_query = %q", q)
		}
		fmt.Fprint(w, feedXML(entryXML("2401.00001v1", "Gaussian   Splatting\n  Revisited", recent, "Code at github.com/x")))
	}))
	defer ts.Close()

	saved := arxivAPIBase
	arxivAPIBase = ts.URL
	defer func() { arxivAPIBase = saved }()

	f := &ArxivFetcher{Client: ts.Client()}
	candidates, err := f.Fetch(context.Background(), testFetchCfg())
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("len = %d, want 1", len(candidates))
	}

	c := candidates[0]
	if c.ArxivID != "2401.00001v1" {
		t.Errorf("ArxivID = %q", c.ArxivID)
	}
	if c.Title != "Gaussian Splatting Revisited" {
		t.Errorf("Title = %q, want whitespace collapsed", c.Title)
	}
	if c.Abstract != "A multi-line abstract." {
		t.Errorf("Abstract = %q", c.Abstract)
	}
	if len(c.Authors) != 2 || c.Authors[0] != "Alice Smith" {
		t.Errorf("Authors = %v", c.Authors)
	}
	if len(c.Categories) != 2 || c.PrimaryCategory != "cs.CV" {
		t.Errorf("Categories = %v, primary = %q", c.Categories, c.PrimaryCategory)
	}
	if !c.HasCode {
		t.Error("HasCode = false, want true for github mention")
	}
	if c.Links["pdf"] == "" || c.Links["paper"] == "" {
		t.Errorf("Links = %v, want paper and pdf", c.Links)
	}
}

func TestFetchFiltersByLookbackWindow(t *testing.T) {
	recent := time.Now().Add(-12 * time.Hour).UTC().Format(time.RFC3339)
	stale := time.Now().AddDate(0, 0, -30).UTC().Format(time.RFC3339)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, feedXML(
			entryXML("2401.00001v1", "Fresh Paper", recent, "")+
				entryXML("2301.00002v1", "Stale Paper", stale, "")))
	}))
	defer ts.Close()

	saved := arxivAPIBase
	arxivAPIBase = ts.URL
	defer func() { arxivAPIBase = saved }()

	cfg := testFetchCfg()
	cfg.LookbackDays = 1

	f := &ArxivFetcher{Client: ts.Client()}
	candidates, err := f.Fetch(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if len(candidates) != 1 || candidates[0].Title != "Fresh Paper" {
		t.Errorf("candidates = %+v, want only the fresh paper", candidates)
	}
}

func TestFetchEmptyFeed(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, feedXML(""))
	}))
	defer ts.Close()

	saved := arxivAPIBase
	arxivAPIBase = ts.URL
	defer func() { arxivAPIBase = saved }()

	f := &ArxivFetcher{Client: ts.Client()}
	candidates, err := f.Fetch(context.Background(), testFetchCfg())
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("len = %d, want 0", len(candidates))
	}
}

func TestFetchNoCategories(t *testing.T) {
	f := &ArxivFetcher{}
	if _, err := f.Fetch(context.Background(), types.FetchConfig{}); err == nil {
		t.Error("Fetch() with no categories: want error")
	}
}

func TestBuildCategoryQuery(t *testing.T) {
	tests := []struct {
		name       string
		categories []string
		want       string
	}{
		{"empty", nil, ""},
		{"single", []string{"cs.CV"}, "(cat:cs.CV)"},
		{"multiple", []string{"cs.CV", "eess.IV"}, "(cat:cs.CV OR cat:eess.IV)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildCategoryQuery(tt.categories); got != tt.want {
				t.Errorf("buildCategoryQuery() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInferHasCode(t *testing.T) {
	tests := []struct {
		comment string
		want    bool
	}{
		{"Code: github.com/x", true},
		{"Source code will be released", true},
		{"12 pages, 3 figures", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := inferHasCode(tt.comment); got != tt.want {
			t.Errorf("inferHasCode(%q) = %v, want %v", tt.comment, got, tt.want)
		}
	}
}
