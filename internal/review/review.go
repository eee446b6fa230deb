// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package review renders the daily shortlist as a human review document
// and parses the reviewer's decisions back out of it. The document is a
// Markdown checklist; checking a paper's box approves it.
package review

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/mzhao/paper-curator/pkg/types"
)

// Sink receives a rendered review document.
type Sink interface {
	// Publish stores the document under the given title and returns a
	// human-readable location (file path, issue URL).
	Publish(title, body string) (string, error)
}

// FileSink writes review documents into a directory, one file per day.
type FileSink struct {
	Dir string
}

// Publish writes the document to Dir/<slug-of-title>.md.
func (s FileSink) Publish(title, body string) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("creating review directory: %w", err)
	}
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		case r == ' ':
			return '-'
		default:
			return -1
		}
	}, title)
	path := filepath.Join(s.Dir, name+".md")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return "", fmt.Errorf("writing review document: %w", err)
	}
	return path, nil
}

// Title returns the review document title for the given date.
func Title(date time.Time) string {
	return fmt.Sprintf("Paper review %s", date.Format("2006-01-02"))
}

// Render writes the shortlist as a Markdown checklist. Each paper gets an
// unchecked box carrying its arXiv ID, the score breakdown, and whatever
// summaries exist.
func Render(w io.Writer, papers []types.Candidate, date time.Time) {
	fmt.Fprintf(w, "# %s\n\n", Title(date))
	fmt.Fprintf(w, "%d candidates. Check the box to approve a paper, then run `paper-curator approve`.\n\n", len(papers))

	for i, p := range papers {
		fmt.Fprintf(w, "## %d. %s\n\n", i+1, p.Title)
		fmt.Fprintf(w, "- [ ] approve `%s`\n\n", p.ArxivID)

		fmt.Fprintf(w, "**Score: %.2f/10**", p.RelevanceScore)
		if b := p.ScoreBreakdown; b != nil {
			fmt.Fprintf(w, " (field %.1f, venue %.1f, citations %.1f, code %.1f, practicality %.1f)",
				b.FieldMatch.Score, b.VenueQuality.Score, b.CitationPotential.Score,
				b.CodeAvailability.Score, b.Practicality.Score)
		}
		fmt.Fprintf(w, "\n\n")

		if len(p.Authors) > 0 {
			fmt.Fprintf(w, "Authors: %s\n\n", strings.Join(p.Authors, ", "))
		}
		fmt.Fprintf(w, "Published: %s", p.Published)
		if p.HasCode {
			fmt.Fprintf(w, " | code available")
		}
		if url := p.Links["paper"]; url != "" {
			fmt.Fprintf(w, " | [arXiv](%s)", url)
		}
		fmt.Fprintf(w, "\n\n")

		if p.AISummaries != nil && p.AISummaries.TLDR.Text != "" {
			fmt.Fprintf(w, "> %s\n\n", p.AISummaries.TLDR.Text)
			if len(p.AISummaries.KeyContributions.Items) > 0 {
				for _, c := range p.AISummaries.KeyContributions.Items {
					fmt.Fprintf(w, "> - %s\n", c)
				}
				fmt.Fprintf(w, "\n")
			}
		} else if p.Abstract != "" {
			fmt.Fprintf(w, "> %s\n\n", truncate(p.Abstract, 300))
		}
	}
}

// approvedRe matches a checked approval box and captures the arXiv ID.
// Both "x" and "X" count as checked.
var approvedRe = regexp.MustCompile(`- \[[xX]\] approve \x60([^\x60]+)\x60`)

// ParseApproved returns the arXiv IDs whose boxes are checked in a review
// document, in document order, deduplicated.
func ParseApproved(body string) []string {
	var ids []string
	seen := make(map[string]bool)
	for _, m := range approvedRe.FindAllStringSubmatch(body, -1) {
		id := strings.TrimSpace(m[1])
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := s[:n]
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return cut + "..."
}
