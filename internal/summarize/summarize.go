// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package summarize generates the three per-paper summary kinds: a
// one-sentence TL;DR, a short prose summary, and a key-contributions list.
// Each kind fails independently; a failed kind gets a deterministic
// fallback derived from the abstract and is marked as such, so downstream
// stages can tell generated text from degraded text.
package summarize

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mzhao/paper-curator/internal/provider"
	"github.com/mzhao/paper-curator/pkg/types"
)

const (
	defaultMaxRetries   = 3
	defaultRequestDelay = 500 * time.Millisecond
)

// retryDelay is the linear backoff unit between generation attempts.
// Package-level var so tests can shrink it.
var retryDelay = 2 * time.Second

// Summarizer generates summaries through a provider. A nil Provider means
// every kind falls back immediately.
type Summarizer struct {
	Provider provider.Provider

	// MaxRetries is the attempt count per kind (default 3).
	MaxRetries int

	// RequestDelay is the pause between consecutive papers (default 500ms).
	RequestDelay time.Duration
}

// BatchSummary counts the outcomes of one summarize run.
type BatchSummary struct {
	Papers    int `json:"papers" yaml:"papers"`
	Generated int `json:"generated" yaml:"generated"`
	Fallbacks int `json:"fallbacks" yaml:"fallbacks"`
}

// Total returns the number of summary kinds attempted.
func (s BatchSummary) Total() int { return s.Generated + s.Fallbacks }

// HasFailures reports whether any kind fell back.
func (s BatchSummary) HasFailures() bool { return s.Fallbacks > 0 }

// SummarizeAll annotates every candidate with a summary set, pausing
// RequestDelay between papers. Progress lines go to w.
func (s *Summarizer) SummarizeAll(ctx context.Context, papers []types.Candidate, w io.Writer) ([]types.Candidate, BatchSummary, error) {
	delay := s.RequestDelay
	if delay == 0 {
		delay = defaultRequestDelay
	}

	out := make([]types.Candidate, len(papers))
	copy(out, papers)

	batch := BatchSummary{Papers: len(papers)}
	for i := range out {
		select {
		case <-ctx.Done():
			return out, batch, ctx.Err()
		default:
		}

		set := s.Summarize(ctx, out[i])
		out[i].AISummaries = &set

		ok := set.Succeeded()
		batch.Generated += ok
		batch.Fallbacks += set.Kinds() - ok
		fmt.Fprintf(w, "  %s: %d/%d kinds generated\n", out[i].ArxivID, ok, set.Kinds())

		if i < len(out)-1 {
			select {
			case <-ctx.Done():
				return out, batch, ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	fmt.Fprintf(w, "\npapers: %d, generated: %d, fallbacks: %d\n",
		batch.Papers, batch.Generated, batch.Fallbacks)
	return out, batch, nil
}

// Summarize generates all three kinds for one paper. It never fails:
// kinds that cannot be generated fall back.
func (s *Summarizer) Summarize(ctx context.Context, p types.Candidate) types.SummarySet {
	set := types.SummarySet{Provider: "fallback"}
	if s.Provider != nil {
		set.Provider = s.Provider.Name()
	}

	if text, err := s.generate(ctx, tldrPrompt(p)); err == nil {
		set.TLDR = types.SummaryResult{Text: strings.TrimSpace(text)}
	} else {
		set.TLDR = types.SummaryResult{Text: fallbackTLDR(p), FallbackUsed: true}
	}

	if text, err := s.generate(ctx, shortPrompt(p)); err == nil {
		set.Short = types.SummaryResult{Text: strings.TrimSpace(text)}
	} else {
		set.Short = types.SummaryResult{Text: fallbackShort(p), FallbackUsed: true}
	}

	if text, err := s.generate(ctx, contributionsPrompt(p)); err == nil {
		set.KeyContributions = types.ContributionsResult{Items: parseContributions(text)}
	} else {
		set.KeyContributions = types.ContributionsResult{Items: fallbackContributions(p), FallbackUsed: true}
	}

	if set.Succeeded() == 0 {
		set.Provider = "fallback"
	}
	return set
}

// generate calls the provider with linear backoff between attempts.
func (s *Summarizer) generate(ctx context.Context, prompt string) (string, error) {
	if s.Provider == nil {
		return "", fmt.Errorf("no provider configured")
	}

	maxRetries := s.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		text, err := s.Provider.Generate(ctx, prompt)
		if err == nil {
			if strings.TrimSpace(text) == "" {
				lastErr = fmt.Errorf("provider returned empty text")
				continue
			}
			return text, nil
		}
		lastErr = err

		if attempt < maxRetries {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(time.Duration(attempt) * retryDelay):
			}
		}
	}
	return "", lastErr
}

func tldrPrompt(p types.Candidate) string {
	return fmt.Sprintf(`Summarize this research paper in one sentence (maximum 30 words). State what it does and why it matters. No preamble.

Title: %s

Abstract: %s`, p.Title, p.Abstract)
}

func shortPrompt(p types.Candidate) string {
	return fmt.Sprintf(`Summarize this research paper in 3-4 sentences for a computer vision researcher. Cover the problem, the approach, and the main result. No preamble.

Title: %s

Abstract: %s`, p.Title, p.Abstract)
}

func contributionsPrompt(p types.Candidate) string {
	return fmt.Sprintf(`List the key technical contributions of this research paper. Return 3-5 bullet points, one contribution per line, starting each line with "- ". No preamble, no closing remarks.

Title: %s

Abstract: %s`, p.Title, p.Abstract)
}

// parseContributions splits the provider output into clean bullet items,
// bounded by the per-paper chunk cap.
func parseContributions(text string) []string {
	var items []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*• \t")
		for i := 1; i <= 9; i++ {
			line = strings.TrimPrefix(line, fmt.Sprintf("%d. ", i))
			line = strings.TrimPrefix(line, fmt.Sprintf("%d) ", i))
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		items = append(items, line)
		if len(items) == types.MaxContributionChunks {
			break
		}
	}
	return items
}

// fallbackTLDR is the first sentence of the abstract, or the title.
func fallbackTLDR(p types.Candidate) string {
	if s := firstSentence(p.Abstract); s != "" {
		return s
	}
	return p.Title
}

// fallbackShort is the leading part of the abstract.
func fallbackShort(p types.Candidate) string {
	const maxLen = 400
	abstract := strings.TrimSpace(p.Abstract)
	if abstract == "" {
		return p.Title
	}
	if len(abstract) <= maxLen {
		return abstract
	}
	cut := abstract[:maxLen]
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return cut + "..."
}

// fallbackContributions takes up to three abstract sentences.
func fallbackContributions(p types.Candidate) []string {
	var items []string
	rest := strings.TrimSpace(p.Abstract)
	for len(items) < 3 {
		s := firstSentence(rest)
		if s == "" {
			break
		}
		items = append(items, s)
		rest = strings.TrimSpace(rest[min(len(s), len(rest)):])
	}
	return items
}

func firstSentence(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	for i := 0; i < len(text); i++ {
		if text[i] != '.' && text[i] != '!' && text[i] != '?' {
			continue
		}
		if i+1 < len(text) && text[i+1] != ' ' && text[i+1] != '\n' {
			continue
		}
		return text[:i+1]
	}
	return text
}
