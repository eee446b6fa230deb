// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mzhao/paper-curator/internal/provider"
	"github.com/mzhao/paper-curator/internal/qa"
	"github.com/mzhao/paper-curator/pkg/types"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question over the indexed collection",
	Long: `Ask retrieves the chunks most relevant to the question and has the
configured AI provider answer from them. Sources always come from the
retrieval metadata. With --compare, the two arguments are treated as
topics to compare instead of a single question. With --interactive and
no question, questions are read from stdin until EOF or "exit".`,
	Args: cobra.ArbitraryArgs,
	RunE: runAsk,
}

func init() {
	askCmd.Flags().String("provider", "", "AI provider: auto, gemini, zhipu, openai, claude, ollama")
	askCmd.Flags().String("model", "", "model identifier (default per provider)")
	askCmd.Flags().Int("context", 0, "number of retrieved chunks (default from config)")
	askCmd.Flags().Bool("compare", false, "compare two topics: ask --compare \"topic a\" \"topic b\"")
	askCmd.Flags().BoolP("interactive", "i", false, "read questions from stdin in a loop")

	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	compare, _ := cmd.Flags().GetBool("compare")
	interactive, _ := cmd.Flags().GetBool("interactive")
	if compare && len(args) != 2 {
		return fmt.Errorf("--compare needs exactly two arguments")
	}
	if !interactive && len(args) == 0 {
		return fmt.Errorf("a question is required unless --interactive is set")
	}

	cfg := types.QAConfig{
		AIConfig: types.AIConfig{
			Provider: viper.GetString("qa.provider"),
			Model:    viper.GetString("qa.model"),
			BaseURL:  viper.GetString("qa.base_url"),
		},
		ContextSize: viper.GetInt("qa.context_size"),
	}
	if p, _ := cmd.Flags().GetString("provider"); p != "" {
		cfg.Provider = p
	}
	if m, _ := cmd.Flags().GetString("model"); m != "" {
		cfg.Model = m
	}
	if n, _ := cmd.Flags().GetInt("context"); n > 0 {
		cfg.ContextSize = n
	}

	idx, err := openIndex()
	if err != nil {
		return err
	}
	defer idx.Close()

	prov, err := provider.Select(cfg.AIConfig, aiKeys())
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v; returning retrieved context only\n", err)
		prov = nil
	}

	engine := &qa.Engine{Retriever: idx, Provider: prov, ContextSize: cfg.ContextSize}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if interactive && len(args) == 0 {
		return askLoop(ctx, engine)
	}

	var answer qa.Answer
	if compare {
		answer, err = engine.Compare(ctx, args[0], args[1])
	} else {
		answer, err = engine.Ask(ctx, strings.Join(args, " "))
	}
	if err != nil {
		return err
	}

	printAnswer(answer)
	return nil
}

// askLoop reads questions from stdin until EOF, "exit", "quit", or Ctrl-C.
func askLoop(ctx context.Context, engine *qa.Engine) error {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Fprint(os.Stdout, "\n? ")
		if !scanner.Scan() {
			fmt.Fprintln(os.Stdout)
			return scanner.Err()
		}
		question := strings.TrimSpace(scanner.Text())
		switch question {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		answer, err := engine.Ask(ctx, question)
		if err != nil {
			if ctx.Err() != nil {
				fmt.Fprintln(os.Stdout)
				return nil
			}
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		printAnswer(answer)
	}
}

func printAnswer(answer qa.Answer) {
	fmt.Fprintln(os.Stdout, answer.Text)
	if answer.Degraded {
		color.New(color.FgYellow).Fprintln(os.Stderr, "\n(degraded: no generated answer, showing retrieved context)")
	}
	if len(answer.Sources) > 0 {
		fmt.Fprintln(os.Stdout, "\nSources:")
		for _, s := range answer.Sources {
			fmt.Fprintf(os.Stdout, "  - %s", s.Title)
			if s.Year != "" && s.Year != "0" {
				fmt.Fprintf(os.Stdout, " (%s)", s.Year)
			}
			fmt.Fprintf(os.Stdout, " [%s, %.3f]\n", s.PaperID, s.Similarity)
		}
	}
}
