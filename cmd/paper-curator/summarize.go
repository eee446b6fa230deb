// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mzhao/paper-curator/internal/provider"
	"github.com/mzhao/paper-curator/internal/summarize"
	"github.com/mzhao/paper-curator/pkg/types"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Generate AI summaries for the filtered shortlist",
	Long: `Summarize generates a TL;DR, a short summary, and a key-contributions
list for every shortlisted candidate and writes summarized.json into the
pending directory. Kinds that cannot be generated fall back to text
derived from the abstract and are marked as degraded.`,
	RunE: runSummarize,
}

func init() {
	summarizeCmd.Flags().String("provider", "", "AI provider: auto, gemini, zhipu, openai, claude, ollama")
	summarizeCmd.Flags().String("model", "", "model identifier (default per provider)")

	rootCmd.AddCommand(summarizeCmd)
}

func runSummarize(cmd *cobra.Command, args []string) error {
	pendingDir := viper.GetString("fetch.pending_dir")

	cfg := types.SummaryConfig{
		AIConfig: types.AIConfig{
			Provider: viper.GetString("summary.provider"),
			Model:    viper.GetString("summary.model"),
			BaseURL:  viper.GetString("summary.base_url"),
		},
		RequestDelay: viper.GetDuration("summary.request_delay"),
	}
	if p, _ := cmd.Flags().GetString("provider"); p != "" {
		cfg.Provider = p
	}
	if m, _ := cmd.Flags().GetString("model"); m != "" {
		cfg.Model = m
	}

	papers, err := readPending(pendingDir, filteredFile)
	if err != nil {
		return err
	}

	prov, err := provider.Select(cfg.AIConfig, aiKeys())
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v; using abstract-derived fallbacks\n", err)
		prov = nil
	} else {
		fmt.Fprintf(os.Stdout, "summarizing %d papers with %s\n", len(papers), prov.Name())
	}

	s := &summarize.Summarizer{
		Provider:     prov,
		RequestDelay: cfg.RequestDelay,
		MaxRetries:   cfg.MaxRetries,
	}
	out, batch, err := s.SummarizeAll(context.Background(), papers, os.Stdout)
	if err != nil {
		return err
	}

	if err := writePending(pendingDir, summarizedFile, out); err != nil {
		return err
	}
	if batch.HasFailures() {
		fmt.Fprintf(os.Stderr, "%d summary kind(s) fell back to abstract text\n", batch.Fallbacks)
	}
	return nil
}
