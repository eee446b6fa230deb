// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mzhao/paper-curator/internal/score"
)

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Score and rank fetched candidates",
	Long: `Filter scores every fetched candidate on field match, venue quality,
citation potential, code availability, and practicality, then selects the
top-N shortlist and writes filtered.json into the pending directory.`,
	RunE: runFilter,
}

func init() {
	filterCmd.Flags().Int("top", 0, "shortlist size (default from config)")
	filterCmd.Flags().Bool("all", false, "print every scored candidate, not just the shortlist")

	rootCmd.AddCommand(filterCmd)
}

func runFilter(cmd *cobra.Command, args []string) error {
	pendingDir := viper.GetString("fetch.pending_dir")
	topN := viper.GetInt("filter.top_n")
	if n, _ := cmd.Flags().GetInt("top"); n > 0 {
		topN = n
	}

	papers, err := readPending(pendingDir, candidatesFile)
	if err != nil {
		return err
	}

	selected := score.RankAndSelect(papers, topN)
	if err := writePending(pendingDir, filteredFile, selected); err != nil {
		return err
	}

	showAll, _ := cmd.Flags().GetBool("all")
	display := selected
	if showAll {
		display = score.RankAndSelect(papers, len(papers))
	}

	bold := color.New(color.Bold)
	scoreColor := func(s float64) *color.Color {
		switch {
		case s >= 7.0:
			return color.New(color.FgGreen)
		case s >= 5.0:
			return color.New(color.FgYellow)
		default:
			return color.New(color.FgRed)
		}
	}

	for i, p := range display {
		scoreColor(p.RelevanceScore).Fprintf(os.Stdout, "%5.2f", p.RelevanceScore)
		fmt.Fprintf(os.Stdout, "  #%-3d ", i+1)
		bold.Fprint(os.Stdout, p.Title)
		fmt.Fprintln(os.Stdout)
		if b := p.ScoreBreakdown; b != nil && len(b.FieldMatch.Matches) > 0 {
			fmt.Fprintf(os.Stdout, "             matched: %v\n", b.FieldMatch.Matches)
		}
	}
	fmt.Fprintf(os.Stdout, "\nselected %d of %d candidates\n", len(selected), len(papers))
	return nil
}
