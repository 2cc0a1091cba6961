package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/seongbear/document-edit-ai/internal/config"
	"github.com/seongbear/document-edit-ai/internal/domain/services"
	"github.com/seongbear/document-edit-ai/internal/service"
)

// previewLength bounds document text printed to the terminal
const previewLength = 500

// sessionOpener builds a ready session; the returned func releases it.
type sessionOpener func(ctx context.Context, verbose bool) (services.SessionService, func(), error)

type cli struct {
	open    sessionOpener
	verbose bool
}

func newRootCmd(open sessionOpener) *cobra.Command {
	c := &cli{open: open}

	root := &cobra.Command{
		Use:   "docedit",
		Short: "Edit Word documents in OneDrive with a language model",
		Long: `docedit lists the Word documents in your OneDrive, applies
natural-language edits to them and saves the result back.

Quick Start:
  docedit list                                # List documents, newest first
  docedit show <id>                           # Print a document's text
  docedit edit <id> "make it more formal"     # Preview an edit
  docedit edit <id> "fix the typos" --save    # Apply and upload an edit`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Log to stderr")

	root.AddCommand(
		newListCmd(c),
		newShowCmd(c),
		newInspectCmd(c),
		newEditCmd(c),
		newGrammarCmd(c),
		newSuggestCmd(c),
		newSummarizeCmd(c),
		newAnalyzeCmd(c),
		newHistoryCmd(c),
	)
	return root
}

// withSession opens a session for the duration of fn.
func (c *cli) withSession(cmd *cobra.Command, fn func(ctx context.Context, svc services.SessionService) error) error {
	svc, release, err := c.open(cmd.Context(), c.verbose)
	if err != nil {
		return err
	}
	defer release()
	return fn(cmd.Context(), svc)
}

// withDocument opens a session and loads the document with the given id.
func (c *cli) withDocument(cmd *cobra.Command, id string, fn func(ctx context.Context, svc services.SessionService) error) error {
	return c.withSession(cmd, func(ctx context.Context, svc services.SessionService) error {
		if err := svc.LoadDocumentByID(ctx, id); err != nil {
			return err
		}
		return fn(ctx, svc)
	})
}

// openSession wires the real components from the environment.
func openSession(ctx context.Context, verbose bool) (services.SessionService, func(), error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	var (
		out     io.Writer = io.Discard
		closers []func()
	)
	if verbose {
		out = os.Stderr
	}
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, "docedit", config.MaxLogFiles)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, func() { _ = logFile.Close() })
		out = io.MultiWriter(out, logFile)
	}
	logger := config.NewLogger(cfg, out, false)

	app, err := service.Setup(ctx, cfg, logger)
	if err != nil {
		for _, closeFn := range closers {
			closeFn()
		}
		return nil, nil, fmt.Errorf("setup: %w", err)
	}

	release := func() {
		app.Close()
		for _, closeFn := range closers {
			closeFn()
		}
	}
	return app.Session, release, nil
}
