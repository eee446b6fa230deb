// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package citations refreshes citation counts from the Semantic Scholar
// Graph API. Lookups are rate limited, recently-checked papers are
// skipped, and each run appends a dated snapshot to the collection's
// citation history.
package citations

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/mzhao/paper-curator/internal/httputil"
	"github.com/mzhao/paper-curator/pkg/types"
)

// semanticScholarAPIBase is the Graph API endpoint. Package-level var for
// test substitution.
var semanticScholarAPIBase = "https://api.semanticscholar.org/graph/v1"

const (
	defaultRecheckDays  = 7
	defaultRequestDelay = time.Second
	historyRetentionDays = 365
)

// Tracker looks up citation counts for collection records.
type Tracker struct {
	Client  *http.Client
	limiter *rate.Limiter

	apiKey      string
	userAgent   string
	recheckDays int

	// now is stubbed in tests.
	now func() time.Time
}

// NewTracker builds a tracker from configuration. The rate limiter allows
// one request per cfg.RequestDelay with no burst beyond a single token.
func NewTracker(cfg types.CitationsConfig) *Tracker {
	delay := cfg.RequestDelay
	if delay <= 0 {
		delay = defaultRequestDelay
	}
	recheck := cfg.RecheckDays
	if recheck <= 0 {
		recheck = defaultRecheckDays
	}
	client := &http.Client{Timeout: cfg.Timeout}
	if cfg.Timeout == 0 {
		client.Timeout = 30 * time.Second
	}
	return &Tracker{
		Client:      client,
		limiter:     rate.NewLimiter(rate.Every(delay), 1),
		apiKey:      cfg.APIKey,
		userAgent:   cfg.UserAgent,
		recheckDays: recheck,
		now:         time.Now,
	}
}

// Counts is one paper's citation numbers as reported by the API.
type Counts struct {
	CitationCount            int `json:"citationCount"`
	InfluentialCitationCount int `json:"influentialCitationCount"`
}

// UpdateSummary counts the outcomes of one tracker run.
type UpdateSummary struct {
	Updated int `json:"updated" yaml:"updated"`
	Skipped int `json:"skipped" yaml:"skipped"`
	Failed  int `json:"failed" yaml:"failed"`
}

// Total returns the number of papers considered.
func (s UpdateSummary) Total() int { return s.Updated + s.Skipped + s.Failed }

// HasFailures reports whether any lookup failed.
func (s UpdateSummary) HasFailures() bool { return s.Failed > 0 }

// UpdateAll refreshes citation counts for every record in doc. Papers
// checked within the recheck window are skipped unless force is set;
// papers without an arXiv ID are skipped always. Lookup failures never
// abort the run. On completion a history snapshot is appended and old
// entries are trimmed.
func (t *Tracker) UpdateAll(ctx context.Context, doc *types.CollectionDoc, force bool, w io.Writer) (UpdateSummary, error) {
	var sum UpdateSummary
	runDate := t.now().Format("2006-01-02")
	snapshot := types.CitationHistoryEntry{
		Date:   runDate,
		Papers: map[string]types.CitationSnapshot{},
	}

	for _, p := range doc.Papers {
		if p.ArxivID == "" {
			sum.Skipped++
			continue
		}
		if !force && t.recentlyChecked(p) {
			fmt.Fprintf(w, "  skipped %s (checked within %dd)\n", p.ID, t.recheckDays)
			sum.Skipped++
			if p.CitationCount != nil {
				snapshot.Papers[p.ID] = types.CitationSnapshot{
					CitationCount:    *p.CitationCount,
					InfluentialCount: intOrZero(p.InfluentialCitationCount),
				}
			}
			continue
		}

		counts, err := t.Lookup(ctx, p.ArxivID)
		if err != nil {
			fmt.Fprintf(w, "  failed  %s: %v\n", p.ID, err)
			sum.Failed++
			continue
		}

		// Counts can shrink when the API corrects itself; store whatever it
		// reports.
		citation := counts.CitationCount
		influential := counts.InfluentialCitationCount
		p.CitationCount = &citation
		p.InfluentialCitationCount = &influential
		p.CitationLastChecked = t.now().UTC().Format(time.RFC3339)
		snapshot.Papers[p.ID] = types.CitationSnapshot{
			CitationCount:    citation,
			InfluentialCount: influential,
		}

		fmt.Fprintf(w, "  updated %s: %d citations (%d influential)\n", p.ID, citation, influential)
		sum.Updated++
	}

	if len(snapshot.Papers) > 0 {
		doc.CitationHistory = appendHistory(doc.CitationHistory, snapshot, t.now())
	}
	if sum.Updated > 0 {
		doc.Metadata.LastCitationUpdate = runDate
	}

	fmt.Fprintf(w, "\nupdated: %d, skipped: %d, failed: %d\n", sum.Updated, sum.Skipped, sum.Failed)
	return sum, nil
}

func (t *Tracker) recentlyChecked(p *types.PaperRecord) bool {
	if p.CitationLastChecked == "" {
		return false
	}
	last, err := time.Parse(time.RFC3339, p.CitationLastChecked)
	if err != nil {
		return false
	}
	return t.now().Sub(last) < time.Duration(t.recheckDays)*24*time.Hour
}

// Lookup fetches one paper's counts by arXiv ID. A versioned ID that the
// API does not know is retried with the version suffix stripped.
func (t *Tracker) Lookup(ctx context.Context, arxivID string) (Counts, error) {
	counts, status, err := t.lookupOnce(ctx, arxivID)
	if err == nil {
		return counts, nil
	}
	if status == http.StatusNotFound {
		if bare := stripVersion(arxivID); bare != arxivID {
			counts, _, retryErr := t.lookupOnce(ctx, bare)
			if retryErr == nil {
				return counts, nil
			}
		}
	}
	return Counts{}, err
}

func (t *Tracker) lookupOnce(ctx context.Context, arxivID string) (Counts, int, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return Counts{}, 0, err
	}

	url := fmt.Sprintf("%s/paper/arXiv:%s?fields=citationCount,influentialCitationCount",
		semanticScholarAPIBase, arxivID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Counts{}, 0, fmt.Errorf("creating request: %w", err)
	}
	if t.userAgent != "" {
		req.Header.Set("User-Agent", t.userAgent)
	}
	if t.apiKey != "" {
		req.Header.Set("x-api-key", t.apiKey)
	}

	resp, err := httputil.DoWithRetry(ctx, t.Client, req, 3)
	if err != nil {
		return Counts{}, 0, fmt.Errorf("calling Semantic Scholar API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Counts{}, resp.StatusCode, fmt.Errorf("Semantic Scholar API returned %d for %s", resp.StatusCode, arxivID)
	}

	var counts Counts
	if err := json.NewDecoder(resp.Body).Decode(&counts); err != nil {
		return Counts{}, resp.StatusCode, fmt.Errorf("decoding response: %w", err)
	}
	return counts, resp.StatusCode, nil
}

// appendHistory adds the run snapshot and drops entries older than the
// retention window. A same-day re-run replaces that day's entry.
func appendHistory(history []types.CitationHistoryEntry, entry types.CitationHistoryEntry, now time.Time) []types.CitationHistoryEntry {
	cutoff := now.AddDate(0, 0, -historyRetentionDays).Format("2006-01-02")
	var kept []types.CitationHistoryEntry
	for _, h := range history {
		if h.Date < cutoff || h.Date == entry.Date {
			continue
		}
		kept = append(kept, h)
	}
	return append(kept, entry)
}

func stripVersion(arxivID string) string {
	for i := len(arxivID) - 1; i > 0; i-- {
		c := arxivID[i]
		if c >= '0' && c <= '9' {
			continue
		}
		if c == 'v' && i < len(arxivID)-1 {
			return arxivID[:i]
		}
		break
	}
	return arxivID
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
