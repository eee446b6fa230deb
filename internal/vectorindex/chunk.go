// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package vectorindex

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mzhao/paper-curator/pkg/types"
)

// ChunkPaper splits one collection record into its indexable chunks:
// title+abstract (when an abstract exists), up to five key contributions,
// and a metadata chunk that is always present so every paper is findable
// even with no abstract or summaries. The metadata chunk carries the
// record type and any reader notes, so annotations are searchable too.
func ChunkPaper(p *types.PaperRecord) []types.EmbeddingChunk {
	meta := func(chunkType types.ChunkType) types.ChunkMeta {
		return types.ChunkMeta{
			PaperID:    p.ID,
			Title:      p.Title,
			ChunkType:  string(chunkType),
			Year:       strconv.Itoa(p.Year),
			Venue:      p.Venue,
			Authors:    strings.Join(p.Authors, ", "),
			Categories: strings.Join(p.Categories, ", "),
		}
	}

	var chunks []types.EmbeddingChunk

	if body := abstractText(p); body != "" {
		chunks = append(chunks, types.EmbeddingChunk{
			ID:      p.ID + "_abstract",
			PaperID: p.ID,
			Type:    types.ChunkAbstract,
			Text:    fmt.Sprintf("Title: %s\n\nAbstract: %s", p.Title, body),
			Meta:    meta(types.ChunkAbstract),
		})
	}

	if p.AISummaries != nil {
		for i, contrib := range p.AISummaries.KeyContributions.Items {
			if i >= types.MaxContributionChunks {
				break
			}
			chunkType := types.ContributionChunkType(i + 1)
			chunks = append(chunks, types.EmbeddingChunk{
				ID:      fmt.Sprintf("%s_contrib_%d", p.ID, i+1),
				PaperID: p.ID,
				Type:    chunkType,
				Text:    fmt.Sprintf("Key contribution of %s: %s", p.Title, contrib),
				Meta:    meta(chunkType),
			})
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", p.Title)
	if len(p.Authors) > 0 {
		fmt.Fprintf(&b, "Authors: %s\n", strings.Join(p.Authors, ", "))
	}
	if p.Year != 0 {
		fmt.Fprintf(&b, "Year: %d\n", p.Year)
	}
	if p.Venue != "" {
		fmt.Fprintf(&b, "Venue: %s\n", p.Venue)
	}
	if len(p.Categories) > 0 {
		fmt.Fprintf(&b, "Categories: %s\n", strings.Join(p.Categories, ", "))
	}
	recordType := p.Type
	if recordType == "" {
		recordType = "Research"
	}
	fmt.Fprintf(&b, "Type: %s\n", recordType)
	if p.Notes != "" {
		fmt.Fprintf(&b, "Notes: %s\n", p.Notes)
	}
	chunks = append(chunks, types.EmbeddingChunk{
		ID:      p.ID + "_metadata",
		PaperID: p.ID,
		Type:    types.ChunkMetadata,
		Text:    strings.TrimRight(b.String(), "\n"),
		Meta:    meta(types.ChunkMetadata),
	})

	return chunks
}

// abstractText returns the text for the abstract chunk. Records imported
// without an abstract still get one when an AI short summary exists.
func abstractText(p *types.PaperRecord) string {
	if p.Abstract != "" {
		return p.Abstract
	}
	if p.AISummaries != nil {
		if p.AISummaries.Short.Text != "" {
			return p.AISummaries.Short.Text
		}
		if p.AISummaries.TLDR.Text != "" {
			return p.AISummaries.TLDR.Text
		}
	}
	return ""
}
