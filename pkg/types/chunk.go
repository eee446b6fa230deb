// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// ChunkType tags an indexable unit of text derived from one paper.
type ChunkType string

const (
	// ChunkAbstract is the title+abstract chunk. At most one per paper;
	// it also serves as the similarity seed for FindSimilar.
	ChunkAbstract ChunkType = "abstract"

	// ChunkMetadata is the structured metadata chunk. Exactly one per
	// paper, always derivable from required fields.
	ChunkMetadata ChunkType = "metadata"
)

// MaxContributionChunks caps the number of contribution chunks per paper.
const MaxContributionChunks = 5

// ContributionChunkType returns the 1-indexed contribution chunk tag,
// e.g. "contribution_1".
func ContributionChunkType(i int) ChunkType {
	return ChunkType(fmt.Sprintf("contribution_%d", i))
}

// ChunkMeta is the metadata stored alongside each chunk and returned with
// search results. Sources in Q&A answers are derived from it, never from
// generated text.
type ChunkMeta struct {
	PaperID    string `json:"paper_id" yaml:"paper_id"`
	Title      string `json:"title" yaml:"title"`
	ChunkType  string `json:"chunk_type" yaml:"chunk_type"`
	Year       string `json:"year,omitempty" yaml:"year,omitempty"`
	Venue      string `json:"venue,omitempty" yaml:"venue,omitempty"`
	Authors    string `json:"authors,omitempty" yaml:"authors,omitempty"`
	Categories string `json:"categories,omitempty" yaml:"categories,omitempty"`
}

// EmbeddingChunk is a single indexable unit of text. IDs are deterministic
// ({paper_id}_{chunk_type}) so re-indexing the same paper overwrites its
// prior chunks instead of duplicating them.
type EmbeddingChunk struct {
	// ID is the deterministic chunk identifier.
	ID string `json:"id" yaml:"id"`

	// PaperID is the owning paper's collection ID.
	PaperID string `json:"paper_id" yaml:"paper_id"`

	// Type tags the chunk: abstract, contribution_i, or metadata.
	Type ChunkType `json:"chunk_type" yaml:"chunk_type"`

	// Text is the embedded content.
	Text string `json:"text" yaml:"text"`

	// Meta is carried into the store and returned with query results.
	Meta ChunkMeta `json:"metadata" yaml:"metadata"`
}
