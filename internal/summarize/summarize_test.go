// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mzhao/paper-curator/pkg/types"
)

type scriptedProvider struct {
	responses []string
	errs      []error
	calls     int
}

func (s *scriptedProvider) Name() string { return "scripted" }

func (s *scriptedProvider) Generate(context.Context, string) (string, error) {
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if i < len(s.responses) {
		return s.responses[i], nil
	}
	return "", errors.New("no more scripted responses")
}

func candidate() types.Candidate {
	return types.Candidate{
		ArxivID:  "2401.00001v1",
		Title:    "Fast Splatting",
		Abstract: "We present a fast renderer. It runs at 90 FPS. Results beat prior work on three benchmarks.",
	}
}

func init() {
	retryDelay = time.Millisecond
}

func TestSummarizeAllKindsSucceed(t *testing.T) {
	prov := &scriptedProvider{responses: []string{
		"A fast renderer at 90 FPS.",
		"The paper presents a fast renderer. It runs at 90 FPS. It beats prior work.",
		"- Real-time rendering\n- New pruning scheme\n- State-of-the-art quality",
	}}
	s := &Summarizer{Provider: prov}

	set := s.Summarize(context.Background(), candidate())
	if set.Succeeded() != 3 {
		t.Fatalf("Succeeded() = %d, want 3", set.Succeeded())
	}
	if set.Provider != "scripted" {
		t.Errorf("provider = %q", set.Provider)
	}
	if set.TLDR.Text != "A fast renderer at 90 FPS." {
		t.Errorf("tldr = %q", set.TLDR.Text)
	}
	want := []string{"Real-time rendering", "New pruning scheme", "State-of-the-art quality"}
	if len(set.KeyContributions.Items) != len(want) {
		t.Fatalf("contributions = %v", set.KeyContributions.Items)
	}
	for i, item := range set.KeyContributions.Items {
		if item != want[i] {
			t.Errorf("contribution[%d] = %q, want %q", i, item, want[i])
		}
	}
}

func TestSummarizePerKindFallback(t *testing.T) {
	// TLDR succeeds; short fails all attempts; contributions succeed.
	prov := &scriptedProvider{
		responses: []string{"A fast renderer.", "", "", "", "- One thing"},
		errs:      []error{nil, errors.New("x"), errors.New("x"), errors.New("x"), nil},
	}
	s := &Summarizer{Provider: prov, MaxRetries: 3}

	set := s.Summarize(context.Background(), candidate())
	if set.TLDR.FallbackUsed {
		t.Error("tldr should have succeeded")
	}
	if !set.Short.FallbackUsed {
		t.Error("short should have fallen back")
	}
	if set.KeyContributions.FallbackUsed {
		t.Error("contributions should have succeeded")
	}
	if set.Short.Text == "" {
		t.Error("fallback short is empty")
	}
	if set.Succeeded() != 2 {
		t.Errorf("Succeeded() = %d, want 2", set.Succeeded())
	}
}

func TestSummarizeNilProviderFallsBackEverything(t *testing.T) {
	s := &Summarizer{}
	set := s.Summarize(context.Background(), candidate())

	if set.Succeeded() != 0 {
		t.Fatalf("Succeeded() = %d, want 0", set.Succeeded())
	}
	if set.Provider != "fallback" {
		t.Errorf("provider = %q, want fallback", set.Provider)
	}
	if set.TLDR.Text != "We present a fast renderer." {
		t.Errorf("fallback tldr = %q", set.TLDR.Text)
	}
	if len(set.KeyContributions.Items) != 3 {
		t.Errorf("fallback contributions = %v", set.KeyContributions.Items)
	}
}

func TestGenerateRetriesLinearly(t *testing.T) {
	prov := &scriptedProvider{
		responses: []string{"", "", "finally"},
		errs:      []error{errors.New("429"), errors.New("429"), nil},
	}
	s := &Summarizer{Provider: prov, MaxRetries: 3}

	text, err := s.generate(context.Background(), "p")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if text != "finally" {
		t.Errorf("text = %q", text)
	}
	if prov.calls != 3 {
		t.Errorf("calls = %d, want 3", prov.calls)
	}
}

func TestGenerateEmptyResponseRetried(t *testing.T) {
	prov := &scriptedProvider{responses: []string{"   ", "real"}}
	s := &Summarizer{Provider: prov, MaxRetries: 3}

	text, err := s.generate(context.Background(), "p")
	if err != nil {
		t.Fatal(err)
	}
	if text != "real" {
		t.Errorf("text = %q", text)
	}
}

func TestSummarizeAllCountsAndDelay(t *testing.T) {
	prov := &scriptedProvider{responses: []string{
		"a", "b", "- c",
		"d", "e", "- f",
	}}
	s := &Summarizer{Provider: prov, RequestDelay: time.Millisecond}

	papers := []types.Candidate{candidate(), candidate()}
	var buf bytes.Buffer
	out, batch, err := s.SummarizeAll(context.Background(), papers, &buf)
	if err != nil {
		t.Fatalf("SummarizeAll: %v", err)
	}
	if batch.Papers != 2 || batch.Generated != 6 || batch.Fallbacks != 0 {
		t.Errorf("batch = %+v", batch)
	}
	if batch.HasFailures() {
		t.Error("HasFailures() = true")
	}
	for i := range out {
		if out[i].AISummaries == nil {
			t.Errorf("paper %d has no summaries", i)
		}
	}
	if papers[0].AISummaries != nil {
		t.Error("input slice was mutated")
	}
	if !strings.Contains(buf.String(), "3/3 kinds generated") {
		t.Errorf("progress output: %q", buf.String())
	}
}

func TestParseContributions(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"- a\n- b\n- c", 3},
		{"1. a\n2. b", 2},
		{"* a\n\n* b", 2},
		{"a\nb\nc\nd\ne\nf\ng", types.MaxContributionChunks},
		{"", 0},
	}
	for _, tt := range tests {
		if got := parseContributions(tt.in); len(got) != tt.want {
			t.Errorf("parseContributions(%q) = %v, want %d items", tt.in, got, tt.want)
		}
	}
}

func TestFirstSentence(t *testing.T) {
	tests := []struct{ in, want string }{
		{"One. Two.", "One."},
		{"Runs at 3.5 ms. More.", "Runs at 3.5 ms."},
		{"No terminator", "No terminator"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := firstSentence(tt.in); got != tt.want {
			t.Errorf("firstSentence(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
