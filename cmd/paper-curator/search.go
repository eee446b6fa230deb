// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mzhao/paper-curator/internal/secrets"
	"github.com/mzhao/paper-curator/internal/vectorindex"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Semantic search over the indexed collection",
	Long: `Search embeds the query and returns the most similar indexed chunks,
ranked by cosine similarity. Filter to a chunk type with --type.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().Int("top", 5, "number of results")
	searchCmd.Flags().String("type", "", "restrict to a chunk type: abstract, metadata, contribution_N")
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	k, _ := cmd.Flags().GetInt("top")
	chunkType, _ := cmd.Flags().GetString("type")

	idx, err := openIndex()
	if err != nil {
		return err
	}
	defer idx.Close()

	results, err := idx.Search(context.Background(), query, k, vectorindex.SearchOptions{ChunkType: chunkType})
	if err != nil {
		return err
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	printResults(results)
	return nil
}

// openIndex opens the vector index with the configured embedder.
func openIndex() (*vectorindex.Index, error) {
	cfg := indexConfig()
	embedder, err := vectorindex.NewEmbedder(cfg, loadedSecrets.Get(secrets.KeyOpenAI))
	if err != nil {
		return nil, err
	}
	return vectorindex.Open(cfg.DBPath, embedder)
}

func printResults(results []vectorindex.SearchResult) {
	if len(results) == 0 {
		fmt.Println("No results found.")
		return
	}

	bold := color.New(color.Bold)
	dim := color.New(color.Faint)
	for i, r := range results {
		fmt.Fprintf(os.Stdout, "%d. ", i+1)
		bold.Fprint(os.Stdout, r.Meta.Title)
		fmt.Fprintf(os.Stdout, "  (%.3f)\n", r.Similarity)
		dim.Fprintf(os.Stdout, "   %s | %s", r.Meta.PaperID, r.Meta.ChunkType)
		if r.Meta.Year != "" && r.Meta.Year != "0" {
			dim.Fprintf(os.Stdout, " | %s", r.Meta.Year)
		}
		fmt.Fprintln(os.Stdout)

		text := r.Text
		if len(text) > 200 {
			text = text[:200] + "..."
		}
		fmt.Fprintf(os.Stdout, "   %s\n\n", strings.ReplaceAll(text, "\n", " "))
	}
}
