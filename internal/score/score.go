// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package score computes multi-factor relevance scores for candidate papers
// and selects the top-ranked shortlist. Scoring is a pure function over the
// candidate and static keyword/venue tables; missing fields degrade to a
// zero contribution for text-dependent components, never an error.
package score

import (
	"math"
	"strings"

	"github.com/mzhao/paper-curator/pkg/types"
)

// Component weights. They sum to 1.0, so with each component pre-capped at
// 10 the total never exceeds 10.
const (
	WeightFieldMatch        = 0.40
	WeightVenueQuality      = 0.25
	WeightCitationPotential = 0.15
	WeightCodeAvailability  = 0.10
	WeightPracticality      = 0.10
)

// maxFieldMatches bounds the evidence list recorded per candidate.
const maxFieldMatches = 10

// fieldKeywords maps research-field phrases to importance. Matching is
// case-insensitive substring search over title+abstract; overlapping hits
// all count.
var fieldKeywords = map[string]float64{
	// Core research topics.
	"3d gaussian":        10,
	"gaussian splatting": 10,
	"medical image":      9,
	"medical imaging":    9,
	"cardiac":            9,
	"heart":              8,
	"self-supervised":    8,

	// Medium priority.
	"3d reconstruction": 7,
	"volumetric":        7,
	"neural radiance":   7,
	"nerf":              7,
	"segmentation":      6,
	"registration":      6,

	// Lower priority but relevant.
	"deep learning":   5,
	"computer vision": 5,
	"image analysis":  5,
}

// fieldSaturation is the matched-weight sum that earns a full 10/10: the
// sum of the three highest keyword weights. A handful of top-weight hits
// saturates the component; normalizing against the whole table would leave
// even strongly on-topic papers near zero.
var fieldSaturation = func() float64 {
	top := [3]float64{}
	for _, w := range fieldKeywords {
		if w > top[0] {
			top[0], top[1], top[2] = w, top[0], top[1]
		} else if w > top[1] {
			top[1], top[2] = w, top[1]
		} else if w > top[2] {
			top[2] = w
		}
	}
	return top[0] + top[1] + top[2]
}()

// topVenues maps venue names to quality scores. Lookup scans the free-text
// comment and journal-reference fields; the first venue found wins, and an
// unlisted or absent venue still earns the arXiv baseline.
var topVenues = []struct {
	Name  string
	Score float64
}{
	// Computer vision and ML.
	{"CVPR", 10}, {"ICCV", 10}, {"ECCV", 10},
	{"NEURIPS", 10}, {"ICML", 10}, {"ICLR", 10},
	// Medical imaging.
	{"MICCAI", 10}, {"IPMI", 9}, {"ISBI", 8}, {"TMI", 10},
	// Graphics.
	{"SIGGRAPH", 10}, {"TOG", 10},
	// General.
	{"NATURE", 10}, {"SCIENCE", 10}, {"PAMI", 10},
}

// venueBaseline applies when no listed venue is mentioned.
const venueBaseline = 5.0

// noveltyTerms in title or abstract hint at citation draw.
var noveltyTerms = []string{"novel", "new", "first", "state-of-the-art", "sota", "breakthrough"}

// practicalityKeywords each add 0.5 to the practicality baseline.
var practicalityKeywords = []string{
	"open source", "code available", "implementation",
	"practical", "real-world", "clinical", "application",
	"dataset", "benchmark",
}

// Score computes the weighted relevance score for a candidate. The returned
// total is in [0,10] and the breakdown records each sub-score with its
// weight and evidence. Score has no side effects; the caller decides whether
// to persist the breakdown on the candidate.
func Score(p types.Candidate) (float64, types.ScoreBreakdown) {
	fieldScore, matches := fieldMatchScore(p)
	venueScore, venue := venueQualityScore(p)
	citationScore := citationPotentialScore(p)
	codeScore := codeAvailabilityScore(p)
	practicalScore := practicalityScore(p)

	total := fieldScore*WeightFieldMatch +
		venueScore*WeightVenueQuality +
		citationScore*WeightCitationPotential +
		codeScore*WeightCodeAvailability +
		practicalScore*WeightPracticality

	breakdown := types.ScoreBreakdown{
		TotalScore: round2(total),
		FieldMatch: types.FieldMatchScore{
			Score:   round2(fieldScore),
			Weight:  WeightFieldMatch,
			Matches: matches,
		},
		VenueQuality: types.VenueScore{
			Score:  round2(venueScore),
			Weight: WeightVenueQuality,
			Venue:  venue,
		},
		CitationPotential: types.ComponentScore{
			Score:  round2(citationScore),
			Weight: WeightCitationPotential,
		},
		CodeAvailability: types.CodeScore{
			Score:   round2(codeScore),
			Weight:  WeightCodeAvailability,
			HasCode: p.HasCode,
		},
		Practicality: types.ComponentScore{
			Score:  round2(practicalScore),
			Weight: WeightPracticality,
		},
	}

	return total, breakdown
}

// fieldMatchScore scans title+abstract for weighted field keywords and
// normalizes the matched weight sum to [0,10].
func fieldMatchScore(p types.Candidate) (float64, []string) {
	text := strings.ToLower(p.Title) + " " + strings.ToLower(p.Abstract)

	var sum float64
	var matches []string
	for keyword, importance := range fieldKeywords {
		if strings.Contains(text, keyword) {
			sum += importance
			matches = append(matches, keyword)
		}
	}

	// Evidence list is bounded; order it for determinism.
	sortMatchesByWeight(matches)
	if len(matches) > maxFieldMatches {
		matches = matches[:maxFieldMatches]
	}

	return math.Min(sum/fieldSaturation*10, 10), matches
}

// sortMatchesByWeight orders matched keywords by descending importance,
// ties alphabetical.
func sortMatchesByWeight(matches []string) {
	for i := 1; i < len(matches); i++ {
		for j := i; j > 0 && less(matches[j], matches[j-1]); j-- {
			matches[j], matches[j-1] = matches[j-1], matches[j]
		}
	}
}

func less(a, b string) bool {
	wa, wb := fieldKeywords[a], fieldKeywords[b]
	if wa != wb {
		return wa > wb
	}
	return a < b
}

// venueQualityScore looks for a listed venue inside the journal reference
// and comment fields. First textual match wins; no aggregation across
// multiple mentions.
func venueQualityScore(p types.Candidate) (float64, string) {
	journalRef := strings.ToUpper(p.JournalRef)
	comment := strings.ToUpper(p.Comment)

	for _, v := range topVenues {
		if strings.Contains(journalRef, v.Name) || strings.Contains(comment, v.Name) {
			return v.Score, v.Name
		}
	}

	return venueBaseline, ""
}

// citationPotentialScore is a heuristic proxy, not a citation prediction
// model: a 5.0 baseline plus fixed bonuses for novelty language, survey
// framing, large author counts, and benchmark language, capped at 10.
func citationPotentialScore(p types.Candidate) float64 {
	score := 5.0

	title := strings.ToLower(p.Title)
	abstract := strings.ToLower(p.Abstract)

	for _, term := range noveltyTerms {
		if strings.Contains(title, term) || strings.Contains(abstract, term) {
			score += 1.0
		}
	}

	if strings.Contains(title, "survey") || strings.Contains(title, "review") {
		score += 2.0
	}

	if len(p.Authors) >= 5 {
		score += 1.0
	}

	if strings.Contains(abstract, "benchmark") || strings.Contains(abstract, "evaluation") {
		score += 1.0
	}

	return math.Min(score, 10.0)
}

// codeAvailabilityScore is tiered: explicit code flag, code-adjacent
// comment, or baseline.
func codeAvailabilityScore(p types.Candidate) float64 {
	if p.HasCode {
		return 10.0
	}
	comment := strings.ToLower(p.Comment)
	if strings.Contains(comment, "github") || strings.Contains(comment, "code") {
		return 8.0
	}
	return 3.0
}

// practicalityScore adds 0.5 per distinct practicality keyword found in the
// abstract and comment, on a 5.0 baseline, capped at 10.
func practicalityScore(p types.Candidate) float64 {
	text := strings.ToLower(p.Abstract) + " " + strings.ToLower(p.Comment)

	score := 5.0
	for _, keyword := range practicalityKeywords {
		if strings.Contains(text, keyword) {
			score += 0.5
		}
	}

	return math.Min(score, 10.0)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
