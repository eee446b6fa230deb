// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/mzhao/paper-curator/internal/collection"
)

var collectionCmd = &cobra.Command{
	Use:   "collection",
	Short: "Inspect and maintain the paper collection",
	Long: `Collection manages the curated paper document: validate its
structure, print statistics, star papers, add notes and categories, and
export to JSON, CSV, BibTeX, or Markdown.`,
}

var collectionInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an empty collection with the default taxonomy",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := collection.Init(collectionPath(), defaultCategories()); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "created %s\n", collectionPath())
		return nil
	},
}

var collectionValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the collection for structural problems",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := collection.Open(collectionPath())
		if err != nil {
			return err
		}
		issues := store.Validate()
		if len(issues) == 0 {
			fmt.Fprintln(os.Stdout, "collection is valid")
			return nil
		}
		for _, issue := range issues {
			fmt.Fprintf(os.Stdout, "%-18s %-20s %s\n", issue.Kind, issue.PaperID, issue.Message)
		}
		return fmt.Errorf("%d issue(s) found", len(issues))
	},
}

var collectionStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print collection statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := collection.Open(collectionPath())
		if err != nil {
			return err
		}
		st := store.Stats()
		fmt.Fprintf(os.Stdout, "papers:         %d\n", st.TotalPapers)
		fmt.Fprintf(os.Stdout, "starred:        %d\n", st.Starred)
		fmt.Fprintf(os.Stdout, "with code:      %d\n", st.WithCode)
		fmt.Fprintf(os.Stdout, "with citations: %d\n", st.WithCitations)
		fmt.Fprintf(os.Stdout, "with summaries: %d\n", st.WithSummaries)

		fmt.Fprintln(os.Stdout, "\nby category:")
		for _, cat := range sortedKeys(st.ByCategory) {
			fmt.Fprintf(os.Stdout, "  %-24s %d\n", cat, st.ByCategory[cat])
		}

		years := make([]int, 0, len(st.ByYear))
		for y := range st.ByYear {
			years = append(years, y)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(years)))
		fmt.Fprintln(os.Stdout, "\nby year:")
		for _, y := range years {
			fmt.Fprintf(os.Stdout, "  %d  %d\n", y, st.ByYear[y])
		}
		return nil
	},
}

var collectionStarCmd = &cobra.Command{
	Use:   "star [paper-ids...]",
	Short: "Star papers (or unstar with --remove)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := collection.Open(collectionPath())
		if err != nil {
			return err
		}
		remove, _ := cmd.Flags().GetBool("remove")
		n := store.BatchStar(args, !remove)
		if err := store.Save(); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "updated %d of %d papers\n", n, len(args))
		return nil
	},
}

var collectionNoteCmd = &cobra.Command{
	Use:   "note [note-text] [paper-ids...]",
	Short: "Append a note to papers",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := collection.Open(collectionPath())
		if err != nil {
			return err
		}
		n := store.BatchAddNote(args[1:], args[0])
		if err := store.Save(); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "noted %d of %d papers\n", n, len(args)-1)
		return nil
	},
}

var collectionCategoryCmd = &cobra.Command{
	Use:   "category [category-id] [paper-ids...]",
	Short: "Add a taxonomy category to papers",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := collection.Open(collectionPath())
		if err != nil {
			return err
		}
		n := store.BatchAddCategory(args[1:], args[0])
		if err := store.Save(); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "updated %d of %d papers\n", n, len(args)-1)
		return nil
	},
}

var collectionExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the collection to json, csv, bibtex, or markdown",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := collection.Open(collectionPath())
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("format")
		out, _ := cmd.Flags().GetString("out")

		w := os.Stdout
		if out != "" {
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("creating export file: %w", err)
			}
			defer f.Close()
			w = f
		}
		return store.Export(w, format)
	},
}

func init() {
	collectionStarCmd.Flags().Bool("remove", false, "remove the star instead of adding it")
	collectionExportCmd.Flags().String("format", collection.FormatJSON, "export format: json, csv, bibtex, markdown")
	collectionExportCmd.Flags().String("out", "", "output file (default stdout)")

	collectionCmd.AddCommand(collectionInitCmd)
	collectionCmd.AddCommand(collectionValidateCmd)
	collectionCmd.AddCommand(collectionStatsCmd)
	collectionCmd.AddCommand(collectionStarCmd)
	collectionCmd.AddCommand(collectionNoteCmd)
	collectionCmd.AddCommand(collectionCategoryCmd)
	collectionCmd.AddCommand(collectionExportCmd)

	rootCmd.AddCommand(collectionCmd)
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
