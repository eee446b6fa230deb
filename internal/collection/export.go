// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package collection

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/mzhao/paper-curator/pkg/types"
)

// Export formats accepted by the export subcommand.
const (
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatBibTeX   = "bibtex"
	FormatMarkdown = "markdown"
)

// Export writes the collection's papers to w in the given format.
func (s *Store) Export(w io.Writer, format string) error {
	switch format {
	case FormatJSON:
		return exportJSON(w, s.doc.Papers)
	case FormatCSV:
		return exportCSV(w, s.doc.Papers)
	case FormatBibTeX:
		return exportBibTeX(w, s.doc.Papers)
	case FormatMarkdown:
		return exportMarkdown(w, s.doc)
	default:
		return fmt.Errorf("unknown export format %q (want json, csv, bibtex, or markdown)", format)
	}
}

func exportJSON(w io.Writer, papers []*types.PaperRecord) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(papers)
}

func exportCSV(w io.Writer, papers []*types.PaperRecord) error {
	cw := csv.NewWriter(w)
	header := []string{"id", "title", "authors", "year", "venue", "arxiv_id", "categories", "citation_count", "starred"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, p := range papers {
		citations := ""
		if p.CitationCount != nil {
			citations = strconv.Itoa(*p.CitationCount)
		}
		row := []string{
			p.ID,
			p.Title,
			strings.Join(p.Authors, "; "),
			strconv.Itoa(p.Year),
			p.Venue,
			p.ArxivID,
			strings.Join(p.Categories, "; "),
			citations,
			strconv.FormatBool(p.Starred),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func exportBibTeX(w io.Writer, papers []*types.PaperRecord) error {
	for _, p := range papers {
		fmt.Fprintf(w, "@article{%s,\n", bibKey(p))
		fmt.Fprintf(w, "  title = {%s},\n", p.Title)
		if len(p.Authors) > 0 {
			fmt.Fprintf(w, "  author = {%s},\n", strings.Join(p.Authors, " and "))
		}
		fmt.Fprintf(w, "  year = {%d},\n", p.Year)
		if p.Venue != "" {
			fmt.Fprintf(w, "  journal = {%s},\n", p.Venue)
		}
		if p.ArxivID != "" {
			fmt.Fprintf(w, "  eprint = {%s},\n", p.ArxivID)
			fmt.Fprintf(w, "  archivePrefix = {arXiv},\n")
		}
		if url := p.Links["paper"]; url != "" {
			fmt.Fprintf(w, "  url = {%s},\n", url)
		}
		fmt.Fprintf(w, "}\n\n")
	}
	return nil
}

// bibKey builds a citation key from the first author's surname and year,
// falling back to the paper ID.
func bibKey(p *types.PaperRecord) string {
	if len(p.Authors) == 0 {
		return p.ID
	}
	parts := strings.Fields(p.Authors[0])
	surname := strings.ToLower(parts[len(parts)-1])
	var b strings.Builder
	for _, r := range surname {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return p.ID
	}
	return fmt.Sprintf("%s%d", b.String(), p.Year)
}

func exportMarkdown(w io.Writer, doc *types.CollectionDoc) error {
	fmt.Fprintf(w, "# Paper Collection\n\n")
	fmt.Fprintf(w, "%d papers", len(doc.Papers))
	if doc.Metadata.LastUpdated != "" {
		fmt.Fprintf(w, ", last updated %s", doc.Metadata.LastUpdated)
	}
	fmt.Fprintf(w, "\n\n")

	names := make(map[string]string, len(doc.Categories))
	for _, c := range doc.Categories {
		names[c.ID] = c.Name
	}

	byCat := make(map[string][]*types.PaperRecord)
	for _, p := range doc.Papers {
		cats := p.Categories
		if len(cats) == 0 {
			cats = []string{"uncategorized"}
		}
		byCat[cats[0]] = append(byCat[cats[0]], p)
	}

	catIDs := make([]string, 0, len(byCat))
	for id := range byCat {
		catIDs = append(catIDs, id)
	}
	sort.Strings(catIDs)

	for _, id := range catIDs {
		name := names[id]
		if name == "" {
			name = id
		}
		fmt.Fprintf(w, "## %s\n\n", name)
		papers := byCat[id]
		sort.Slice(papers, func(i, j int) bool {
			if papers[i].Year != papers[j].Year {
				return papers[i].Year > papers[j].Year
			}
			return papers[i].Title < papers[j].Title
		})
		for _, p := range papers {
			star := ""
			if p.Starred {
				star = " ⭐"
			}
			fmt.Fprintf(w, "- **%s** (%d)%s", p.Title, p.Year, star)
			if url := p.Links["paper"]; url != "" {
				fmt.Fprintf(w, " [paper](%s)", url)
			}
			if p.CitationCount != nil {
				fmt.Fprintf(w, " (%d citations)", *p.CitationCount)
			}
			fmt.Fprintf(w, "\n")
			if p.AISummaries != nil && p.AISummaries.TLDR.Text != "" {
				fmt.Fprintf(w, "  - %s\n", p.AISummaries.TLDR.Text)
			}
		}
		fmt.Fprintf(w, "\n")
	}
	return nil
}
