// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mzhao/paper-curator/internal/citations"
	"github.com/mzhao/paper-curator/internal/collection"
	"github.com/mzhao/paper-curator/internal/secrets"
	"github.com/mzhao/paper-curator/pkg/types"
)

var citationsCmd = &cobra.Command{
	Use:   "citations",
	Short: "Refresh citation counts from Semantic Scholar",
	Long: `Citations looks up every collection paper on the Semantic Scholar
Graph API and records current citation counts. Papers checked within the
recheck window are skipped unless --force is set. Each run appends a
dated snapshot to the collection's citation history.`,
	RunE: runCitations,
}

func init() {
	citationsCmd.Flags().Bool("force", false, "recheck papers regardless of when they were last checked")

	rootCmd.AddCommand(citationsCmd)
}

func runCitations(cmd *cobra.Command, args []string) error {
	store, err := collection.Open(collectionPath())
	if err != nil {
		return err
	}

	cfg := types.CitationsConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   30 * time.Second,
			UserAgent: defaultUserAgent,
		},
		APIKey:       loadedSecrets.Get(secrets.KeySemanticScholar),
		RequestDelay: viper.GetDuration("citations.request_delay"),
		RecheckDays:  viper.GetInt("citations.recheck_days"),
	}

	force, _ := cmd.Flags().GetBool("force")
	tracker := citations.NewTracker(cfg)
	sum, err := tracker.UpdateAll(context.Background(), store.Doc(), force, os.Stdout)
	if err != nil {
		return err
	}

	if err := store.Save(); err != nil {
		return err
	}
	if sum.HasFailures() {
		return fmt.Errorf("%d citation lookup(s) failed", sum.Failed)
	}
	return nil
}
