// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/mzhao/paper-curator/internal/fetch"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch new candidate papers from arXiv",
	Long: `Fetch pulls recent submissions from the configured arXiv categories,
filters them to the lookback window, and writes candidates.json into the
pending directory for the filter stage.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringSlice("categories", nil, "arXiv categories to pull (default from config)")
	fetchCmd.Flags().Int("max-results", 0, "maximum number of candidates (default from config)")
	fetchCmd.Flags().Int("lookback-days", 0, "submission window in days (default from config)")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg := fetchConfig()
	if cats, _ := cmd.Flags().GetStringSlice("categories"); len(cats) > 0 {
		cfg.Categories = cats
	}
	if n, _ := cmd.Flags().GetInt("max-results"); n > 0 {
		cfg.MaxResults = n
	}
	if d, _ := cmd.Flags().GetInt("lookback-days"); d > 0 {
		cfg.LookbackDays = d
	}

	fetcher := &fetch.ArxivFetcher{Client: &http.Client{Timeout: cfg.Timeout}}
	papers, err := fetcher.Fetch(context.Background(), cfg)
	if err != nil {
		return err
	}

	if err := writePending(cfg.PendingDir, candidatesFile, papers); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "fetched %d candidates from %v\n", len(papers), cfg.Categories)
	return nil
}
