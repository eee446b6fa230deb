// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mzhao/paper-curator/internal/review"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Publish the shortlist as a review checklist",
	Long: `Review renders the summarized shortlist as a Markdown checklist and
writes it into the review directory. Check a paper's box in the document,
then run approve to merge the checked papers into the collection.`,
	RunE: runReview,
}

func init() {
	reviewCmd.Flags().String("dir", "", "review document directory (default from config)")
	reviewCmd.Flags().Bool("stdout", false, "print the document instead of writing a file")

	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, args []string) error {
	pendingDir := viper.GetString("fetch.pending_dir")

	papers, err := readPending(pendingDir, summarizedFile)
	if err != nil {
		// The summarize stage is optional; fall back to the filter output.
		papers, err = readPending(pendingDir, filteredFile)
		if err != nil {
			return err
		}
	}

	now := time.Now()
	var body bytes.Buffer
	review.Render(&body, papers, now)

	if stdout, _ := cmd.Flags().GetBool("stdout"); stdout {
		fmt.Fprint(os.Stdout, body.String())
		return nil
	}

	dir := viper.GetString("review.dir")
	if d, _ := cmd.Flags().GetString("dir"); d != "" {
		dir = d
	}
	sink := review.FileSink{Dir: dir}
	location, err := sink.Publish(review.Title(now), body.String())
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "review document written to %s\n", location)
	return nil
}
