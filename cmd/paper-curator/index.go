// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/mzhao/paper-curator/internal/collection"
	"github.com/mzhao/paper-curator/internal/secrets"
	"github.com/mzhao/paper-curator/internal/vectorindex"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Embed the collection into the vector index",
	Long: `Index chunks every collection paper (abstract, key contributions,
metadata), embeds the chunks, and stores them in the SQLite vector
database. Re-running is idempotent: a paper's chunks are replaced, not
duplicated. Use --clear to rebuild from scratch, which is required after
changing the embedding model.`,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().Bool("clear", false, "drop all stored chunks before indexing")
	indexCmd.Flags().Bool("stats", false, "print index statistics and exit")

	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg := indexConfig()

	embedder, err := vectorindex.NewEmbedder(cfg, loadedSecrets.Get(secrets.KeyOpenAI))
	if err != nil {
		return err
	}

	idx, err := vectorindex.Open(cfg.DBPath, embedder)
	if err != nil {
		return err
	}
	defer idx.Close()

	if statsOnly, _ := cmd.Flags().GetBool("stats"); statsOnly {
		info, err := idx.StatsInfo(context.Background())
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "chunks: %d\npapers: %d\nmodel:  %s\n", info.Chunks, info.Papers, info.Model)
		return nil
	}

	store, err := collection.Open(collectionPath())
	if err != nil {
		return err
	}
	papers := store.Papers()
	if len(papers) == 0 {
		fmt.Fprintln(os.Stdout, "collection is empty, nothing to index")
		return nil
	}

	clear, _ := cmd.Flags().GetBool("clear")
	bar := progressbar.NewOptions(len(papers),
		progressbar.OptionSetDescription("indexing"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	sum, err := idx.IndexPapers(context.Background(), papers, vectorindex.IndexOptions{
		ClearExisting: clear,
		Progress:      func(done, total int) { _ = bar.Set(done) },
		OnError: func(paperID string, err error) {
			fmt.Fprintf(os.Stderr, "\nfailed %s: %v\n", paperID, err)
		},
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "indexed %d/%d papers (%d chunks, %d errors)\n",
		sum.Indexed, sum.TotalPapers, sum.Chunks, sum.Errors)
	if sum.HasFailures() {
		return fmt.Errorf("%d paper(s) failed indexing", sum.Errors)
	}
	return nil
}
