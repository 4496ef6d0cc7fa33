package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hyperjump/tanya/internal/cli"
)

func NewAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask --source <file|url> <question>",
		Short: "Answer one question about a document",
		Example: `  tanya ask --source report.pdf "What were the main findings?"
  tanya ask -s https://example.com/article -o json "Who wrote this?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runAsk,
	}
	cmd.Flags().StringP("source", "s", "", "document file or URL (required)")
	cmd.Flags().Bool("sources", false, "list the passages the answer was based on")
	_ = cmd.MarkFlagRequired("source")
	return cmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	question := buildQuestion(args)
	if question == "" {
		return errors.New("question must not be empty")
	}
	source, _ := cmd.Flags().GetString("source")
	showSources, _ := cmd.Flags().GetBool("sources")

	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx := cmd.Context()
	comps, err := initializeComponents(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer comps.Close()

	if _, err := comps.Load(ctx, source); err != nil {
		return err
	}
	answer, err := comps.Ask(ctx, question)
	if err != nil {
		return err
	}
	return cli.WriteAnswer(cmd.OutOrStdout(), answer, format, showSources)
}

// buildQuestion joins positional args so quoting the question is optional.
func buildQuestion(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
