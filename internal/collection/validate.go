// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package collection

import (
	"fmt"
	"time"
)

// Issue is one validation finding, keyed to the offending paper.
type Issue struct {
	PaperID string `json:"paper_id" yaml:"paper_id"`
	Kind    string `json:"kind" yaml:"kind"`
	Message string `json:"message" yaml:"message"`
}

// Issue kinds reported by Validate.
const (
	IssueDuplicateID     = "duplicate_id"
	IssueMissingField    = "missing_field"
	IssueInvalidDate     = "invalid_date"
	IssueUnknownCategory = "unknown_category"
	IssueMissingArxivID  = "missing_arxiv_id"
)

// Validate checks the collection document for structural problems and
// returns every issue found. A clean document returns an empty slice.
func (s *Store) Validate() []Issue {
	var issues []Issue

	known := make(map[string]bool, len(s.doc.Categories))
	for _, c := range s.doc.Categories {
		known[c.ID] = true
	}

	seen := make(map[string]bool, len(s.doc.Papers))
	for _, p := range s.doc.Papers {
		if seen[p.ID] {
			issues = append(issues, Issue{
				PaperID: p.ID,
				Kind:    IssueDuplicateID,
				Message: fmt.Sprintf("duplicate paper ID %q", p.ID),
			})
		}
		seen[p.ID] = true

		for _, check := range []struct {
			field string
			empty bool
		}{
			{"id", p.ID == ""},
			{"title", p.Title == ""},
			{"authors", len(p.Authors) == 0},
			{"year", p.Year == 0},
		} {
			if check.empty {
				field := check.field
				issues = append(issues, Issue{
					PaperID: p.ID,
					Kind:    IssueMissingField,
					Message: fmt.Sprintf("missing required field %q", field),
				})
			}
		}

		if p.DateAdded != "" {
			if _, err := time.Parse("2006-01-02", p.DateAdded); err != nil {
				issues = append(issues, Issue{
					PaperID: p.ID,
					Kind:    IssueInvalidDate,
					Message: fmt.Sprintf("date_added %q is not YYYY-MM-DD", p.DateAdded),
				})
			}
		}

		for _, cat := range p.Categories {
			if !known[cat] {
				issues = append(issues, Issue{
					PaperID: p.ID,
					Kind:    IssueUnknownCategory,
					Message: fmt.Sprintf("category %q not in taxonomy", cat),
				})
			}
		}

		if p.ArxivID == "" {
			issues = append(issues, Issue{
				PaperID: p.ID,
				Kind:    IssueMissingArxivID,
				Message: "no arxiv_id; citation tracking will skip this paper",
			})
		}
	}

	return issues
}

// Stats summarizes the collection for the stats subcommand.
type Stats struct {
	TotalPapers   int            `json:"total_papers" yaml:"total_papers"`
	Starred       int            `json:"starred" yaml:"starred"`
	WithCode      int            `json:"with_code" yaml:"with_code"`
	WithCitations int            `json:"with_citations" yaml:"with_citations"`
	WithSummaries int            `json:"with_summaries" yaml:"with_summaries"`
	ByCategory    map[string]int `json:"by_category" yaml:"by_category"`
	ByYear        map[int]int    `json:"by_year" yaml:"by_year"`
	ByType        map[string]int `json:"by_type" yaml:"by_type"`
}

// Stats computes summary counts over the loaded document.
func (s *Store) Stats() Stats {
	st := Stats{
		ByCategory: map[string]int{},
		ByYear:     map[int]int{},
		ByType:     map[string]int{},
	}
	for _, p := range s.doc.Papers {
		st.TotalPapers++
		if p.Starred {
			st.Starred++
		}
		if p.HasCode {
			st.WithCode++
		}
		if p.CitationCount != nil {
			st.WithCitations++
		}
		if p.AISummaries != nil {
			st.WithSummaries++
		}
		for _, cat := range p.Categories {
			st.ByCategory[cat]++
		}
		if p.Year != 0 {
			st.ByYear[p.Year]++
		}
		if p.Type != "" {
			st.ByType[p.Type]++
		}
	}
	return st
}
