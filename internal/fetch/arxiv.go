// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch pulls candidate papers from the arXiv Atom feed.
// The query is category-based on purpose: keywords are left to the scoring
// stage rather than baked into the feed query, which keeps recall high.
package fetch

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mzhao/paper-curator/internal/httputil"
	"github.com/mzhao/paper-curator/pkg/types"
)

// arxivAPIBase is the arXiv query endpoint. Declared as a var so tests can
// substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// ArxivFetcher queries the arXiv API for recent submissions.
type ArxivFetcher struct {
	Client *http.Client
}

// arxivFeed mirrors the Atom response shape.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID         string        `xml:"id"`
	Title      string        `xml:"title"`
	Summary    string        `xml:"summary"`
	Published  string        `xml:"published"`
	Updated    string        `xml:"updated"`
	Authors    []arxivAuthor `xml:"author"`
	Categories []arxivCat    `xml:"category"`
	Primary    arxivCat      `xml:"primary_category"`
	Comment    string        `xml:"comment"`
	JournalRef string        `xml:"journal_ref"`
	Links      []arxivLink   `xml:"link"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

type arxivCat struct {
	Term string `xml:"term,attr"`
}

type arxivLink struct {
	Href  string `xml:"href,attr"`
	Title string `xml:"title,attr"`
	Rel   string `xml:"rel,attr"`
}

// Fetch queries arXiv for recent submissions in the configured categories
// and returns candidates published within the lookback window. Partial
// results (fewer than MaxResults) are normal and not an error.
func (f *ArxivFetcher) Fetch(ctx context.Context, cfg types.FetchConfig) ([]types.Candidate, error) {
	query := buildCategoryQuery(cfg.Categories)
	if query == "" {
		return nil, fmt.Errorf("no arXiv categories configured")
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 50
	}

	reqURL := fmt.Sprintf("%s?search_query=%s&start=0&max_results=%d&sortBy=submittedDate&sortOrder=descending",
		arxivAPIBase, url.QueryEscape(query), maxResults)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}

	lookback := cfg.LookbackDays
	if lookback <= 0 {
		lookback = 1
	}
	cutoff := time.Now().AddDate(0, 0, -lookback)

	var candidates []types.Candidate
	for _, entry := range feed.Entries {
		arxivID := extractArxivID(entry.ID)
		if arxivID == "" {
			continue
		}

		published, err := time.Parse(time.RFC3339, entry.Published)
		if err != nil || published.Before(cutoff) {
			continue
		}

		c := types.Candidate{
			ArxivID:    arxivID,
			Title:      collapseWhitespace(entry.Title),
			Abstract:   collapseWhitespace(entry.Summary),
			Published:  published.Format("2006-01-02"),
			Comment:    strings.TrimSpace(entry.Comment),
			JournalRef: strings.TrimSpace(entry.JournalRef),
			Links: map[string]string{
				"paper": entry.ID,
			},
		}

		if updated, err := time.Parse(time.RFC3339, entry.Updated); err == nil {
			c.Updated = updated.Format("2006-01-02")
		}

		for _, a := range entry.Authors {
			c.Authors = append(c.Authors, strings.TrimSpace(a.Name))
		}
		for _, cat := range entry.Categories {
			c.Categories = append(c.Categories, cat.Term)
		}
		c.PrimaryCategory = entry.Primary.Term
		if c.PrimaryCategory == "" && len(c.Categories) > 0 {
			c.PrimaryCategory = c.Categories[0]
		}

		for _, link := range entry.Links {
			if link.Title == "pdf" {
				c.Links["pdf"] = link.Href
			}
		}

		c.HasCode = inferHasCode(c.Comment)

		candidates = append(candidates, c)
	}

	return candidates, nil
}

// buildCategoryQuery constructs the search_query parameter:
// (cat:cs.CV OR cat:cs.LG OR ...).
func buildCategoryQuery(categories []string) string {
	if len(categories) == 0 {
		return ""
	}
	parts := make([]string, len(categories))
	for i, cat := range categories {
		parts[i] = "cat:" + cat
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

// extractArxivID pulls the identifier from an entry URL like
// http://arxiv.org/abs/2308.04079v1.
func extractArxivID(entryID string) string {
	idx := strings.LastIndex(entryID, "/")
	if idx < 0 || idx == len(entryID)-1 {
		return ""
	}
	return entryID[idx+1:]
}

// inferHasCode reports whether the free-text comment mentions released code.
func inferHasCode(comment string) bool {
	c := strings.ToLower(comment)
	return strings.Contains(c, "github") || strings.Contains(c, "code")
}

// collapseWhitespace normalizes the newline-wrapped text arXiv returns.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
