package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/hyperjump/tanya/internal/tui"
)

func NewChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat interactively about a document",
		Long: `Open an interactive chat. Load a document with --source or with
/new <file|url> inside the chat; /clear forgets it and /quit exits.`,
		Args: cobra.NoArgs,
		RunE: runChat,
	}
	cmd.Flags().StringP("source", "s", "", "document file or URL to load first")
	return cmd
}

func runChat(cmd *cobra.Command, _ []string) error {
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

	source, _ := cmd.Flags().GetString("source")
	if source != "" {
		status, err := comps.Load(ctx, source)
		if err != nil {
			return err
		}
		source = status.Source
	}

	m := tui.New(ctx, comps, source)
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
