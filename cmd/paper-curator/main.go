// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paper-curator CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mzhao/paper-curator/internal/provider"
	"github.com/mzhao/paper-curator/internal/secrets"
	"github.com/mzhao/paper-curator/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup. Lookups
// fall back to the matching environment variable.
var loadedSecrets secrets.Store

// aiKeys gathers every provider credential from secrets and environment.
func aiKeys() provider.Keys {
	return provider.Keys{
		Gemini:    loadedSecrets.Get(secrets.KeyGemini),
		Zhipu:     loadedSecrets.Get(secrets.KeyZhipu),
		OpenAI:    loadedSecrets.Get(secrets.KeyOpenAI),
		Anthropic: loadedSecrets.Get(secrets.KeyAnthropic),
	}
}

// rootCmd is the base command for the paper-curator CLI.
var rootCmd = &cobra.Command{
	Use:   "paper-curator",
	Short: "Curate, summarize, and search research papers",
	Long: `paper-curator runs a daily research-paper pipeline: fetch new arXiv
candidates, score and rank them against your research profile, generate
AI summaries, and publish a review shortlist. Approved papers enter a
curated collection that can be citation-tracked, embedded into a local
vector index, and queried with semantic search and Q&A.

Each pipeline stage is a subcommand: fetch, filter, summarize, review,
approve, citations, index, search, similar, ask, and collection.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env first so the secrets directory wins on conflicts.
		_ = godotenv.Load()

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", s.Names())
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./paper-curator.yaml or ~/.config/paper-curator/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("paper-curator")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "paper-curator"))
		}
	}

	viper.SetDefault("fetch.categories", []string{"cs.CV", "cs.LG", "cs.AI", "eess.IV"})
	viper.SetDefault("fetch.max_results", 50)
	viper.SetDefault("fetch.lookback_days", 1)
	viper.SetDefault("fetch.pending_dir", "data/pending")
	viper.SetDefault("filter.top_n", 10)
	viper.SetDefault("summary.provider", "auto")
	viper.SetDefault("summary.request_delay", "500ms")
	viper.SetDefault("index.db_path", "data/vectordb/papers.db")
	viper.SetDefault("index.embedding_provider", "ollama")
	viper.SetDefault("qa.provider", "auto")
	viper.SetDefault("qa.context_size", 3)
	viper.SetDefault("citations.request_delay", "1s")
	viper.SetDefault("citations.recheck_days", 7)
	viper.SetDefault("collection.path", "data/papers/papers.yaml")
	viper.SetDefault("review.dir", "data/review")

	viper.SetEnvPrefix("PAPER_CURATOR")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

const defaultUserAgent = "paper-curator/0.1"

// fetchConfig assembles the fetch stage configuration from viper.
func fetchConfig() types.FetchConfig {
	return types.FetchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   30 * time.Second,
			UserAgent: defaultUserAgent,
		},
		Categories:   viper.GetStringSlice("fetch.categories"),
		MaxResults:   viper.GetInt("fetch.max_results"),
		LookbackDays: viper.GetInt("fetch.lookback_days"),
		PendingDir:   viper.GetString("fetch.pending_dir"),
	}
}

func indexConfig() types.IndexConfig {
	return types.IndexConfig{
		DBPath:            viper.GetString("index.db_path"),
		EmbeddingProvider: viper.GetString("index.embedding_provider"),
		EmbeddingModel:    viper.GetString("index.embedding_model"),
		EmbeddingBaseURL:  viper.GetString("index.embedding_base_url"),
	}
}

func collectionPath() string {
	return viper.GetString("collection.path")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
