package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/seongbear/document-edit-ai/internal/domain/models"
	"github.com/seongbear/document-edit-ai/internal/domain/services"
	"github.com/seongbear/document-edit-ai/internal/utils"
)

func newSuggestCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "suggest <id>",
		Short: "List improvement suggestions for a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withDocument(cmd, args[0], func(ctx context.Context, svc services.SessionService) error {
				suggestions, err := svc.Suggest(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(suggestions) == 0 {
					fmt.Fprintln(out, dimStyle.Render("No suggestions"))
					return nil
				}
				fmt.Fprintln(out, titleStyle.Render("Suggestions"))
				for i, s := range suggestions {
					fmt.Fprintf(out, "%d. %s\n", i+1, s)
				}
				return nil
			})
		},
	}
}

func newSummarizeCmd(c *cli) *cobra.Command {
	var length string

	cmd := &cobra.Command{
		Use:   "summarize <id>",
		Short: "Summarize a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withDocument(cmd, args[0], func(ctx context.Context, svc services.SessionService) error {
				summary, err := svc.Summarize(ctx, length)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), titleStyle.Render("Summary"))
				fmt.Fprintln(cmd.OutOrStdout(), summary)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&length, "length", models.SummaryMedium, "Summary length: short, medium or long")
	return cmd
}

func newAnalyzeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <id>",
		Short: "Analyze a document's type, tone and structure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withDocument(cmd, args[0], func(ctx context.Context, svc services.SessionService) error {
				analysis, err := svc.Analyze(ctx)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintln(out, titleStyle.Render("Analysis"))
				fmt.Fprintf(out, "%s %d\n", labelStyle.Render("Words:"), analysis.WordCount)
				fmt.Fprintf(out, "%s %s\n", labelStyle.Render("Type:"), analysis.DocumentType)
				fmt.Fprintf(out, "%s %s\n", labelStyle.Render("Tone:"), analysis.Tone)
				fmt.Fprintf(out, "%s %s\n", labelStyle.Render("Structure:"), analysis.StructureAnalysis)
				if len(analysis.KeyTopics) > 0 {
					fmt.Fprintf(out, "%s %s\n", labelStyle.Render("Topics:"), strings.Join(analysis.KeyTopics, ", "))
				}
				for _, s := range analysis.ImprovementSuggestions {
					fmt.Fprintln(out, "  - "+s)
				}
				return nil
			})
		},
	}
}

func newHistoryCmd(c *cli) *cobra.Command {
	var clearLog bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print the conversation log of the configured session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd, func(ctx context.Context, svc services.SessionService) error {
				if clearLog {
					if err := svc.ClearHistory(ctx); err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Conversation cleared"))
					return nil
				}

				turns, err := svc.Turns(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(utils.FormatConversationHistory(turns), "\n"))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&clearLog, "clear", false, "Clear the conversation log")
	return cmd
}
