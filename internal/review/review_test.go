// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package review

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/mzhao/paper-curator/pkg/types"
)

func shortlist() []types.Candidate {
	return []types.Candidate{
		{
			ArxivID:        "2401.11111v1",
			Title:          "Fast Gaussian Splatting",
			Authors:        []string{"A. One", "B. Two"},
			Published:      "2024-01-15",
			HasCode:        true,
			RelevanceScore: 8.75,
			Links:          map[string]string{"paper": "https://arxiv.org/abs/2401.11111"},
			ScoreBreakdown: &types.ScoreBreakdown{
				TotalScore:        8.75,
				FieldMatch:        types.FieldMatchScore{Score: 9.3},
				VenueQuality:      types.VenueScore{Score: 5.0},
				CitationPotential: types.ComponentScore{Score: 7.0},
				CodeAvailability:  types.CodeScore{Score: 10.0},
				Practicality:      types.ComponentScore{Score: 6.5},
			},
			AISummaries: &types.SummarySet{
				TLDR:             types.SummaryResult{Text: "Renders fast."},
				KeyContributions: types.ContributionsResult{Items: []string{"Speed", "Quality"}},
			},
		},
		{
			ArxivID:   "2401.22222v1",
			Title:     "Slow But Careful NeRF",
			Published: "2024-01-14",
			Abstract:  "A long abstract about radiance fields.",
		},
	}
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	Render(&buf, shortlist(), time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC))
	out := buf.String()

	for _, want := range []string{
		"# Paper review 2026-08-28",
		"- [ ] approve `2401.11111v1`",
		"- [ ] approve `2401.22222v1`",
		"**Score: 8.75/10**",
		"field 9.3",
		"code 10.0",
		"> Renders fast.",
		"> - Speed",
		"code available",
		"> A long abstract about radiance fields.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered document missing %q:\n%s", want, out)
		}
	}
}

func TestParseApproved(t *testing.T) {
	var buf bytes.Buffer
	Render(&buf, shortlist(), time.Now())
	body := buf.String()

	// Nothing checked yet.
	if ids := ParseApproved(body); len(ids) != 0 {
		t.Errorf("unchecked document approved %v", ids)
	}

	// Reviewer checks the first box.
	checked := strings.Replace(body, "- [ ] approve `2401.11111v1`", "- [x] approve `2401.11111v1`", 1)
	ids := ParseApproved(checked)
	if len(ids) != 1 || ids[0] != "2401.11111v1" {
		t.Errorf("approved = %v, want [2401.11111v1]", ids)
	}
}

func TestParseApprovedVariants(t *testing.T) {
	body := "- [X] approve `a`\n- [x] approve `b`\n- [x] approve `a`\n- [ ] approve `c`\n"
	ids := ParseApproved(body)
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Errorf("approved = %v, want [a b]", ids)
	}
}

func TestFileSink(t *testing.T) {
	dir := t.TempDir()
	sink := FileSink{Dir: dir}

	path, err := sink.Publish("Paper review 2026-08-28", "# body\n")
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if !strings.HasSuffix(path, "paper-review-2026-08-28.md") {
		t.Errorf("path = %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "# body\n" {
		t.Errorf("content = %q", data)
	}
}
