// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package qa answers natural-language questions over the indexed
// collection. Retrieval happens first; the generative provider only ever
// sees retrieved chunks, and sources come from chunk metadata rather than
// from anything the model wrote.
package qa

import (
	"context"
	"fmt"
	"strings"

	"github.com/mzhao/paper-curator/internal/provider"
	"github.com/mzhao/paper-curator/internal/vectorindex"
)

// NoResultsAnswer is returned verbatim when retrieval finds nothing. The
// provider is not called in that case.
const NoResultsAnswer = "No relevant papers found in the collection."

// Retriever is the slice of the index the engine needs.
type Retriever interface {
	Search(ctx context.Context, query string, k int, opts vectorindex.SearchOptions) ([]vectorindex.SearchResult, error)
}

// Source identifies one paper backing an answer.
type Source struct {
	PaperID    string  `json:"paper_id" yaml:"paper_id"`
	Title      string  `json:"title" yaml:"title"`
	Year       string  `json:"year,omitempty" yaml:"year,omitempty"`
	Similarity float64 `json:"similarity" yaml:"similarity"`
}

// Answer is the result of one question. Question echoes what was asked so
// serialized answers stand on their own.
type Answer struct {
	Question string   `json:"question" yaml:"question"`
	Text     string   `json:"answer" yaml:"answer"`
	Sources  []Source `json:"sources" yaml:"sources"`

	// Degraded is set when the provider failed or was absent and Text
	// holds the raw retrieved context instead of a generated answer.
	Degraded bool `json:"degraded,omitempty" yaml:"degraded,omitempty"`
}

// Engine wires retrieval to a generative provider. Provider may be nil;
// the engine then degrades to returning the retrieved context directly.
type Engine struct {
	Retriever   Retriever
	Provider    provider.Provider
	ContextSize int
}

const defaultContextSize = 3

// Ask retrieves the most relevant chunks for the question and has the
// provider answer from them.
func (e *Engine) Ask(ctx context.Context, question string) (Answer, error) {
	k := e.ContextSize
	if k <= 0 {
		k = defaultContextSize
	}

	results, err := e.Retriever.Search(ctx, question, k, vectorindex.SearchOptions{})
	if err != nil {
		return Answer{}, fmt.Errorf("retrieving context: %w", err)
	}
	if len(results) == 0 {
		return Answer{Question: question, Text: NoResultsAnswer}, nil
	}

	sources := sourcesFrom(results)
	contextText := buildContext(results)

	if e.Provider == nil {
		return Answer{Question: question, Text: contextText, Sources: sources, Degraded: true}, nil
	}

	answer, err := e.Provider.Generate(ctx, answerPrompt(question, contextText))
	if err != nil {
		return Answer{
			Question: question,
			Text:     fmt.Sprintf("I could not generate an answer (%v). Here is the retrieved context:\n\n%s", err, contextText),
			Sources:  sources,
			Degraded: true,
		}, nil
	}

	return Answer{Question: question, Text: answer, Sources: sources}, nil
}

// Compare asks the provider to contrast the papers behind two retrieval
// queries, typically two paper titles.
func (e *Engine) Compare(ctx context.Context, first, second string) (Answer, error) {
	k := e.ContextSize
	if k <= 0 {
		k = defaultContextSize
	}

	resultsA, err := e.Retriever.Search(ctx, first, k, vectorindex.SearchOptions{})
	if err != nil {
		return Answer{}, fmt.Errorf("retrieving context for %q: %w", first, err)
	}
	resultsB, err := e.Retriever.Search(ctx, second, k, vectorindex.SearchOptions{})
	if err != nil {
		return Answer{}, fmt.Errorf("retrieving context for %q: %w", second, err)
	}

	question := fmt.Sprintf("Compare %q and %q", first, second)

	combined := append(append([]vectorindex.SearchResult{}, resultsA...), resultsB...)
	if len(combined) == 0 {
		return Answer{Question: question, Text: NoResultsAnswer}, nil
	}

	sources := sourcesFrom(combined)
	contextText := buildContext(combined)

	if e.Provider == nil {
		return Answer{Question: question, Text: contextText, Sources: sources, Degraded: true}, nil
	}

	answer, err := e.Provider.Generate(ctx, comparePrompt(first, second, contextText))
	if err != nil {
		return Answer{
			Question: question,
			Text:     fmt.Sprintf("I could not generate a comparison (%v). Here is the retrieved context:\n\n%s", err, contextText),
			Sources:  sources,
			Degraded: true,
		}, nil
	}

	return Answer{Question: question, Text: answer, Sources: sources}, nil
}

// buildContext renders the retrieved chunks as numbered paper excerpts.
func buildContext(results []vectorindex.SearchResult) string {
	var b strings.Builder
	for i, r := range results {
		fmt.Fprintf(&b, "[Paper %d] %s", i+1, r.Meta.Title)
		if r.Meta.Year != "" && r.Meta.Year != "0" {
			fmt.Fprintf(&b, " (%s)", r.Meta.Year)
		}
		b.WriteString("\n")
		b.WriteString(r.Text)
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// sourcesFrom deduplicates results into per-paper sources, keeping each
// paper's best similarity.
func sourcesFrom(results []vectorindex.SearchResult) []Source {
	seen := make(map[string]int)
	var sources []Source
	for _, r := range results {
		if i, ok := seen[r.Meta.PaperID]; ok {
			if r.Similarity > sources[i].Similarity {
				sources[i].Similarity = r.Similarity
			}
			continue
		}
		seen[r.Meta.PaperID] = len(sources)
		sources = append(sources, Source{
			PaperID:    r.Meta.PaperID,
			Title:      r.Meta.Title,
			Year:       r.Meta.Year,
			Similarity: r.Similarity,
		})
	}
	return sources
}

func answerPrompt(question, contextText string) string {
	return fmt.Sprintf(`You are a research assistant answering questions about a curated collection of computer vision papers.

Answer the question using ONLY the paper excerpts below. If the excerpts do not contain the answer, say so. Cite papers by their bracketed number, e.g. [Paper 1].

Paper excerpts:
%s

Question: %s

Answer:`, contextText, question)
}

func comparePrompt(first, second, contextText string) string {
	return fmt.Sprintf(`You are a research assistant comparing papers from a curated collection of computer vision papers.

Using ONLY the paper excerpts below, compare and contrast the approaches related to %q and %q. Cover methodology, strengths, and limitations. Cite papers by their bracketed number, e.g. [Paper 1].

Paper excerpts:
%s

Comparison:`, first, second, contextText)
}
