// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the paper-curator pipeline.
// A candidate flows through fetch, scoring, and summarization as a Candidate;
// approval converts it into a PaperRecord inside the collection document,
// which every later stage keys by its stable ID.
package types

// Candidate is a raw paper pulled from the arXiv feed. Fields are filled
// additively by each pipeline stage: fetch populates the metadata, the
// filter stage attaches RelevanceScore and ScoreBreakdown, and the
// summarize stage attaches AISummaries.
type Candidate struct {
	// ArxivID is the source identifier (e.g. "2308.04079v1").
	ArxivID string `json:"arxiv_id" yaml:"arxiv_id"`

	// Title is the paper title as returned by the feed.
	Title string `json:"title" yaml:"title"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Abstract is the paper abstract. May be empty; scoring and chunking
	// must degrade gracefully rather than fail.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Published and Updated are feed dates in YYYY-MM-DD form.
	Published string `json:"published" yaml:"published"`
	Updated   string `json:"updated" yaml:"updated"`

	// Categories are the arXiv category tags (e.g. "cs.CV").
	Categories []string `json:"categories" yaml:"categories"`

	// PrimaryCategory is the feed's primary category tag.
	PrimaryCategory string `json:"primary_category" yaml:"primary_category"`

	// Links maps named URLs: paper, pdf.
	Links map[string]string `json:"links" yaml:"links"`

	// Comment is the author-supplied free-text comment field. Code
	// availability and venue mentions are inferred from it.
	Comment string `json:"comment" yaml:"comment"`

	// JournalRef is the free-text journal reference, when present.
	JournalRef string `json:"journal_ref" yaml:"journal_ref"`

	// HasCode records whether the comment field mentions released code.
	HasCode bool `json:"has_code" yaml:"has_code"`

	// RelevanceScore is the weighted composite score in [0,10].
	// Present only after the filter stage.
	RelevanceScore float64 `json:"relevance_score,omitempty" yaml:"relevance_score,omitempty"`

	// ScoreBreakdown holds the per-component sub-scores behind
	// RelevanceScore. Present only after the filter stage.
	ScoreBreakdown *ScoreBreakdown `json:"score_breakdown,omitempty" yaml:"score_breakdown,omitempty"`

	// AISummaries holds generated summaries. Present only after the
	// summarize stage.
	AISummaries *SummarySet `json:"ai_summaries,omitempty" yaml:"ai_summaries,omitempty"`
}

// ScoreBreakdown details the five weighted sub-scores behind a candidate's
// relevance score. Each component score is independently in [0,10]; the
// weights sum to 1.0, so the total never exceeds 10.
type ScoreBreakdown struct {
	// TotalScore is the weighted sum, rounded to two decimals.
	TotalScore float64 `json:"total_score" yaml:"total_score"`

	FieldMatch        FieldMatchScore `json:"field_match" yaml:"field_match"`
	VenueQuality      VenueScore      `json:"venue_quality" yaml:"venue_quality"`
	CitationPotential ComponentScore  `json:"citation_potential" yaml:"citation_potential"`
	CodeAvailability  CodeScore       `json:"code_availability" yaml:"code_availability"`
	Practicality      ComponentScore  `json:"practicality" yaml:"practicality"`
}

// ComponentScore is a weighted sub-score with no extra evidence.
type ComponentScore struct {
	Score  float64 `json:"score" yaml:"score"`
	Weight float64 `json:"weight" yaml:"weight"`
}

// FieldMatchScore records which research-field keywords matched.
type FieldMatchScore struct {
	Score  float64 `json:"score" yaml:"score"`
	Weight float64 `json:"weight" yaml:"weight"`

	// Matches lists the matched keywords, bounded by the scorer.
	Matches []string `json:"matches" yaml:"matches"`
}

// VenueScore records the first venue mention found, if any.
type VenueScore struct {
	Score  float64 `json:"score" yaml:"score"`
	Weight float64 `json:"weight" yaml:"weight"`

	// Venue is the matched venue name, or empty when the baseline applied.
	Venue string `json:"venue,omitempty" yaml:"venue,omitempty"`
}

// CodeScore records the code-availability evidence.
type CodeScore struct {
	Score   float64 `json:"score" yaml:"score"`
	Weight  float64 `json:"weight" yaml:"weight"`
	HasCode bool    `json:"has_code" yaml:"has_code"`
}

// SummaryResult is a single generated summary with its fallback marker.
// When the generation provider was unavailable or failed, Text holds a
// deterministic fallback derived from the abstract and FallbackUsed is true,
// so "N of M kinds succeeded" is a property of the data rather than a log line.
type SummaryResult struct {
	Text         string `json:"text" yaml:"text"`
	FallbackUsed bool   `json:"fallback_used,omitempty" yaml:"fallback_used,omitempty"`
}

// ContributionsResult is the generated key-contributions list with its
// fallback marker.
type ContributionsResult struct {
	Items        []string `json:"items" yaml:"items"`
	FallbackUsed bool     `json:"fallback_used,omitempty" yaml:"fallback_used,omitempty"`
}

// SummarySet holds all generated summaries for one paper. Each kind is
// independently fallback-able.
type SummarySet struct {
	TLDR             SummaryResult       `json:"tldr" yaml:"tldr"`
	Short            SummaryResult       `json:"short" yaml:"short"`
	KeyContributions ContributionsResult `json:"key_contributions" yaml:"key_contributions"`

	// Provider names the backend that generated the summaries, or
	// "fallback" when none was available.
	Provider string `json:"provider" yaml:"provider"`
}

// Succeeded returns how many summary kinds were generated without fallback.
func (s SummarySet) Succeeded() int {
	n := 0
	if !s.TLDR.FallbackUsed {
		n++
	}
	if !s.Short.FallbackUsed {
		n++
	}
	if !s.KeyContributions.FallbackUsed {
		n++
	}
	return n
}

// Kinds returns the number of summary kinds tracked per paper.
func (s SummarySet) Kinds() int { return 3 }

// PaperRecord is a curated paper inside the collection document. The ID is
// assigned once at approval (slug of title+year) and never changes; all
// later stages key off it. Starred and Notes are user-curated and are never
// overwritten by automated stages.
type PaperRecord struct {
	// ID is a stable slug derived from title and year
	// (e.g. "3d-gaussian-splatting-for-radiance-fields-2023").
	ID string `json:"id" yaml:"id"`

	Title   string   `json:"title" yaml:"title"`
	Authors []string `json:"authors" yaml:"authors"`
	Venue   string   `json:"venue" yaml:"venue"`
	Year    int      `json:"year" yaml:"year"`
	Month   int      `json:"month,omitempty" yaml:"month,omitempty"`

	// Categories are taxonomy IDs from the collection's category list.
	Categories []string `json:"categories" yaml:"categories"`

	// Type classifies the paper: Research, Survey, or Foundation.
	Type string `json:"type,omitempty" yaml:"type,omitempty"`

	Abstract string `json:"abstract" yaml:"abstract"`

	// Links maps named URLs: paper, pdf, code, project, video.
	Links map[string]string `json:"links" yaml:"links"`

	// ArxivID is the external source identifier used by the citation tracker.
	ArxivID string `json:"arxiv_id" yaml:"arxiv_id"`

	// CitationCount and InfluentialCitationCount are updated by the
	// citation tracker. Nil means never checked. Counts are monotonic
	// non-decreasing in practice but decreases are tolerated.
	CitationCount            *int `json:"citation_count,omitempty" yaml:"citation_count,omitempty"`
	InfluentialCitationCount *int `json:"influential_citation_count,omitempty" yaml:"influential_citation_count,omitempty"`

	// CitationLastChecked is an RFC 3339 timestamp of the last tracker run
	// that touched this record.
	CitationLastChecked string `json:"citation_last_checked,omitempty" yaml:"citation_last_checked,omitempty"`

	HasCode bool `json:"has_code,omitempty" yaml:"has_code,omitempty"`

	RelevanceScore float64         `json:"relevance_score,omitempty" yaml:"relevance_score,omitempty"`
	ScoreBreakdown *ScoreBreakdown `json:"score_breakdown,omitempty" yaml:"score_breakdown,omitempty"`

	AISummaries *SummarySet `json:"ai_summaries,omitempty" yaml:"ai_summaries,omitempty"`

	// Starred and Notes are user annotations.
	Starred bool   `json:"starred" yaml:"starred"`
	Notes   string `json:"notes,omitempty" yaml:"notes,omitempty"`

	// DateAdded is the approval date in YYYY-MM-DD form.
	DateAdded string `json:"date_added" yaml:"date_added"`
}

// Category is one entry in the collection's taxonomy.
type Category struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// CitationSnapshot is one paper's counts inside a history entry.
type CitationSnapshot struct {
	CitationCount    int `json:"citation_count" yaml:"citation_count"`
	InfluentialCount int `json:"influential_count" yaml:"influential_count"`
}

// CitationHistoryEntry records the counts captured by one tracker run.
type CitationHistoryEntry struct {
	// Date is the run date in YYYY-MM-DD form.
	Date string `json:"date" yaml:"date"`

	// Papers maps paper ID to the counts observed on Date.
	Papers map[string]CitationSnapshot `json:"papers" yaml:"papers"`
}

// CollectionMetadata holds run metadata for the collection document.
type CollectionMetadata struct {
	LastUpdated        string `json:"last_updated,omitempty" yaml:"last_updated,omitempty"`
	TotalPapers        int    `json:"total_papers,omitempty" yaml:"total_papers,omitempty"`
	LastCitationUpdate string `json:"last_citation_update,omitempty" yaml:"last_citation_update,omitempty"`
}

// CollectionDoc is the full persisted collection: records, taxonomy, and
// run metadata. It is loaded and saved as a single unit with
// whole-document-replace semantics; there are no partial in-place writes.
type CollectionDoc struct {
	Metadata        CollectionMetadata     `json:"metadata" yaml:"metadata"`
	Categories      []Category             `json:"categories" yaml:"categories"`
	Papers          []*PaperRecord         `json:"papers" yaml:"papers"`
	CitationHistory []CitationHistoryEntry `json:"citation_history,omitempty" yaml:"citation_history,omitempty"`
}

// CandidateFile is the JSON envelope handed between pipeline stages.
type CandidateFile struct {
	// FetchedAt is an RFC 3339 timestamp of the producing run.
	FetchedAt string `json:"fetched_at" yaml:"fetched_at"`

	// TotalPapers is len(Papers), recorded for quick inspection.
	TotalPapers int `json:"total_papers" yaml:"total_papers"`

	Papers []Candidate `json:"papers" yaml:"papers"`
}
