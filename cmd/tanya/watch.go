package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hyperjump/tanya/internal/cli"
	"github.com/hyperjump/tanya/internal/models"
	"github.com/hyperjump/tanya/internal/watcher"
)

func NewWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch --source <file>",
		Short: "Answer questions from stdin, reloading the document when it changes",
		Long: `Load a local document, then answer one question per line read from
stdin. Whenever the file changes on disk it is loaded again; if the new
version cannot be loaded the previous one keeps answering.`,
		Args: cobra.NoArgs,
		RunE: runWatch,
	}
	cmd.Flags().StringP("source", "s", "", "document file (required)")
	_ = cmd.MarkFlagRequired("source")
	return cmd
}

func runWatch(cmd *cobra.Command, _ []string) error {
	source, _ := cmd.Flags().GetString("source")
	if models.IsURL(source) {
		return errors.New("watch needs a local file, not a URL")
	}
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
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
	out := cmd.OutOrStdout()

	w, err := watcher.NewWatcher([]string{source}, func(path string) {
		reloadSource(ctx, comps, source, logger)
	},
		watcher.WithDebounce(cfg.Watch.Debounce()),
		watcher.WithLogger(logger),
		watcher.WithOnRemove(func(path string) {
			logger.Warn("watched file removed; keeping loaded document", zap.String("path", path))
		}),
	)
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		return err
	}
	defer w.Stop()

	fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s. Type a question and press Enter (Ctrl-D to quit).\n", source)
	return answerLines(ctx, cmd.InOrStdin(), func(question string) error {
		answer, err := comps.Ask(ctx, question)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
			return nil
		}
		return cli.WriteAnswer(out, answer, format, false)
	})
}

func reloadSource(ctx context.Context, comps *Components, source string, logger *zap.Logger) {
	status, err := comps.Load(ctx, source)
	if err != nil {
		logger.Warn("reload failed; keeping previous document", zap.String("source", source), zap.Error(err))
		return
	}
	logger.Info("document reloaded", zap.String("source", status.Source), zap.Int("segments", status.Segments))
}

// answerLines calls answer for every non-empty line of r until EOF or ctx ends.
func answerLines(ctx context.Context, r io.Reader, answer func(string) error) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- sc.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}
			if q := buildQuestion([]string{line}); q != "" {
				if err := answer(q); err != nil {
					return err
				}
			}
		}
	}
}
