// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mzhao/paper-curator/internal/collection"
	"github.com/mzhao/paper-curator/internal/review"
	"github.com/mzhao/paper-curator/pkg/types"
)

var approveCmd = &cobra.Command{
	Use:   "approve [arxiv-ids...]",
	Short: "Merge approved candidates into the collection",
	Long: `Approve converts shortlisted candidates into collection records.
Papers to approve come from the checked boxes of a review document
(--review-file), or from arXiv IDs given as arguments. Without either,
every summarized candidate is approved. Already-present papers are
counted as duplicates and left untouched.`,
	RunE: runApprove,
}

func init() {
	approveCmd.Flags().String("review-file", "", "review document to read checked approvals from")

	rootCmd.AddCommand(approveCmd)
}

func runApprove(cmd *cobra.Command, args []string) error {
	pendingDir := viper.GetString("fetch.pending_dir")

	papers, err := readPending(pendingDir, summarizedFile)
	if err != nil {
		papers, err = readPending(pendingDir, filteredFile)
		if err != nil {
			return err
		}
	}

	approvedIDs := args
	if reviewFile, _ := cmd.Flags().GetString("review-file"); reviewFile != "" {
		body, err := os.ReadFile(reviewFile)
		if err != nil {
			return fmt.Errorf("reading review document: %w", err)
		}
		approvedIDs = append(approvedIDs, review.ParseApproved(string(body))...)
	}

	selected := papers
	if len(approvedIDs) > 0 {
		wanted := make(map[string]bool, len(approvedIDs))
		for _, id := range approvedIDs {
			wanted[id] = true
		}
		selected = nil
		for _, p := range papers {
			if wanted[p.ArxivID] {
				selected = append(selected, p)
			}
		}
		if len(selected) == 0 {
			return fmt.Errorf("none of the approved IDs match the pending shortlist")
		}
	}

	store, err := openOrInitCollection()
	if err != nil {
		return err
	}

	sum := store.Approve(selected, os.Stdout)
	if err := store.Save(); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "\nadded: %d, duplicates: %d, skipped: %d\n",
		sum.Added, sum.Duplicates, sum.Skipped)
	return nil
}

// openOrInitCollection opens the collection, creating an empty one with
// the default taxonomy on first use.
func openOrInitCollection() (*collection.Store, error) {
	path := collectionPath()
	store, err := collection.Open(path)
	if err == nil {
		return store, nil
	}
	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		return collection.Init(path, defaultCategories())
	}
	return nil, err
}

func defaultCategories() []types.Category {
	return []types.Category{
		{ID: "gaussian-splatting", Name: "Gaussian Splatting"},
		{ID: "nerf", Name: "Neural Radiance Fields"},
		{ID: "slam", Name: "SLAM"},
		{ID: "medical-imaging", Name: "Medical Imaging"},
		{ID: "depth-estimation", Name: "Depth Estimation"},
		{ID: "pose-estimation", Name: "Pose Estimation"},
		{ID: "reconstruction", Name: "3D Reconstruction"},
		{ID: "segmentation", Name: "Segmentation"},
		{ID: "uncategorized", Name: "Uncategorized"},
	}
}
