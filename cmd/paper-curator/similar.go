// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mzhao/paper-curator/internal/vectorindex"
)

var similarCmd = &cobra.Command{
	Use:   "similar [paper-id]",
	Short: "Find papers similar to a collection paper",
	Long: `Similar ranks other collection papers by closeness to the given
paper's stored abstract embedding. A paper that has no abstract chunk in
the index yields an empty result, not an error.`,
	Args: cobra.ExactArgs(1),
	RunE: runSimilar,
}

func init() {
	similarCmd.Flags().Int("top", 5, "number of similar papers")
	similarCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(similarCmd)
}

// similarFinder is the index surface the similar command needs.
type similarFinder interface {
	FindSimilar(ctx context.Context, paperID string, k int) ([]vectorindex.SearchResult, error)
}

func runSimilar(cmd *cobra.Command, args []string) error {
	k, _ := cmd.Flags().GetInt("top")

	idx, err := openIndex()
	if err != nil {
		return err
	}
	defer idx.Close()

	results, err := findSimilarOrEmpty(context.Background(), idx, args[0], k, os.Stderr)
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

// findSimilarOrEmpty wraps FindSimilar, treating a missing abstract chunk
// as zero neighbors: the reason is reported on w and the command still
// succeeds.
func findSimilarOrEmpty(ctx context.Context, idx similarFinder, paperID string, k int, w io.Writer) ([]vectorindex.SearchResult, error) {
	results, err := idx.FindSimilar(ctx, paperID, k)
	if errors.Is(err, vectorindex.ErrNoAbstractChunk) {
		fmt.Fprintf(w, "%s has no abstract in the index; re-run `paper-curator index` after adding one\n", paperID)
		return []vectorindex.SearchResult{}, nil
	}
	return results, err
}
