// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package collection

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mzhao/paper-curator/pkg/types"
)

const (
	maxSlugLen     = 50
	maxAuthors     = 10
	maxAbstractLen = 500
)

// categoryRules maps taxonomy categories to the keywords that trigger
// them. Title and abstract are searched case-insensitively.
var categoryRules = []struct {
	category string
	keywords []string
}{
	{"gaussian-splatting", []string{"gaussian splat", "3dgs", "3d gaussian"}},
	{"nerf", []string{"nerf", "neural radiance"}},
	{"slam", []string{"slam", "localization and mapping"}},
	{"medical-imaging", []string{"medical", "clinical", "surgical", "endoscop", "ultrasound", "ct scan", "mri"}},
	{"depth-estimation", []string{"depth estimation", "monocular depth", "depth map"}},
	{"pose-estimation", []string{"pose estimation", "camera pose", "6dof", "6-dof"}},
	{"reconstruction", []string{"reconstruction", "3d recon", "surface recon"}},
	{"segmentation", []string{"segmentation", "semantic seg", "instance seg"}},
}

// ApproveSummary counts the outcomes of one approval run.
type ApproveSummary struct {
	Added      int `json:"added" yaml:"added"`
	Duplicates int `json:"duplicates" yaml:"duplicates"`
	Skipped    int `json:"skipped" yaml:"skipped"`
}

// Total returns the number of candidates considered.
func (s ApproveSummary) Total() int { return s.Added + s.Duplicates + s.Skipped }

// Approve converts approved candidates into collection records and merges
// them into the store. Candidates whose external ID is already present are
// counted as duplicates and left untouched. Progress lines go to out.
func (s *Store) Approve(candidates []types.Candidate, out io.Writer) ApproveSummary {
	var sum ApproveSummary
	for _, c := range candidates {
		if c.ArxivID == "" || c.Title == "" {
			sum.Skipped++
			continue
		}
		if s.HasArxivID(c.ArxivID) {
			sum.Duplicates++
			fmt.Fprintf(out, "  duplicate: %s (%s)\n", c.Title, c.ArxivID)
			continue
		}

		rec := RecordFromCandidate(c)
		s.doc.Papers = append(s.doc.Papers, rec)
		sum.Added++
		fmt.Fprintf(out, "  added: %s\n", rec.ID)
	}
	return sum
}

// RecordFromCandidate builds a collection record from an approved
// candidate: slug ID, inferred categories and type, bounded author list
// and abstract.
func RecordFromCandidate(c types.Candidate) *types.PaperRecord {
	year := yearOf(c.Published)

	authors := c.Authors
	if len(authors) > maxAuthors {
		authors = authors[:maxAuthors]
	}

	abstract := truncateRunes(c.Abstract, maxAbstractLen)

	links := make(map[string]string, len(c.Links))
	for name, url := range c.Links {
		links[name] = url
	}

	return &types.PaperRecord{
		ID:             MakePaperID(c.Title, year),
		Title:          c.Title,
		Authors:        authors,
		Year:           year,
		Venue:          "arXiv",
		ArxivID:        stripVersion(c.ArxivID),
		Abstract:       abstract,
		Links:          links,
		Categories:     Categorize(c.Title, c.Abstract),
		Type:           inferType(c.Title),
		HasCode:        c.HasCode,
		RelevanceScore: c.RelevanceScore,
		ScoreBreakdown: c.ScoreBreakdown,
		AISummaries:    c.AISummaries,
		DateAdded:      today(),
	}
}

// MakePaperID derives a stable slug identifier from title and year:
// lowercased title with only letters, digits, spaces and hyphens kept,
// spaces collapsed to hyphens, truncated, with the year appended.
func MakePaperID(title string, year int) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-':
			b.WriteRune(r)
		}
	}
	slug := strings.Join(strings.Fields(b.String()), "-")
	if len(slug) > maxSlugLen {
		slug = strings.Trim(slug[:maxSlugLen], "-")
	}
	if slug == "" {
		slug = "untitled"
	}
	return fmt.Sprintf("%s-%d", slug, year)
}

// Categorize assigns taxonomy categories by keyword match over title and
// abstract. Papers matching no rule get the catch-all category.
func Categorize(title, abstract string) []string {
	text := strings.ToLower(title + " " + abstract)
	var cats []string
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				cats = append(cats, rule.category)
				break
			}
		}
	}
	if len(cats) == 0 {
		cats = []string{"uncategorized"}
	}
	return cats
}

func inferType(title string) string {
	lower := strings.ToLower(title)
	switch {
	case strings.Contains(lower, "survey") || strings.Contains(lower, "review"):
		return "Survey"
	case strings.Contains(lower, "benchmark") || strings.Contains(lower, "dataset"):
		return "Foundation"
	default:
		return "Research"
	}
}

var versionSuffix = regexp.MustCompile(`v\d+$`)

// stripVersion removes a trailing arXiv version marker (2401.12345v2 ->
// 2401.12345) so records dedupe across revisions.
func stripVersion(arxivID string) string {
	return versionSuffix.ReplaceAllString(arxivID, "")
}

// truncateRunes bounds s to at most max bytes without splitting a rune.
func truncateRunes(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func yearOf(published string) int {
	if t, err := time.Parse("2006-01-02", published); err == nil {
		return t.Year()
	}
	return 0
}
