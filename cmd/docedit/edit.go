package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/seongbear/document-edit-ai/internal/domain/models"
	"github.com/seongbear/document-edit-ai/internal/domain/services"
	"github.com/seongbear/document-edit-ai/internal/utils"
)

func newEditCmd(c *cli) *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "edit <id> <instruction>...",
		Short: "Apply a natural-language edit to a document",
		Long: `Loads the document, asks the model to apply the instruction and prints
the edited text. Nothing is uploaded unless --save is given.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			instruction := strings.Join(args[1:], " ")
			return c.withDocument(cmd, args[0], func(ctx context.Context, svc services.SessionService) error {
				result, err := svc.SubmitEdit(ctx, instruction)
				if err != nil {
					return err
				}
				return finishEdit(ctx, cmd.OutOrStdout(), svc, result, save)
			})
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "Upload the edited document")
	return cmd
}

func newGrammarCmd(c *cli) *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "grammar <id>",
		Short: "Fix grammar and style in a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withDocument(cmd, args[0], func(ctx context.Context, svc services.SessionService) error {
				result, err := svc.FixGrammar(ctx)
				if err != nil {
					return err
				}
				return finishEdit(ctx, cmd.OutOrStdout(), svc, result, save)
			})
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "Upload the corrected document")
	return cmd
}

// finishEdit prints an edit result and optionally saves it.
func finishEdit(ctx context.Context, out io.Writer, svc services.SessionService, result *models.EditResult, save bool) error {
	fmt.Fprintf(out, "%s %s\n", labelStyle.Render("Explanation:"), result.Explanation)
	if result.ChangesSummary != "" {
		fmt.Fprintf(out, "%s %s\n", labelStyle.Render("Changes:"), result.ChangesSummary)
	}
	fmt.Fprintln(out, textStyle.Render(utils.FormatForDisplay(result.EditedText, previewLength)))

	if !save {
		if svc.State().Dirty {
			fmt.Fprintln(out, dimStyle.Render("Not saved (use --save to upload)"))
		}
		return nil
	}

	saved, err := svc.Save(ctx)
	if err != nil {
		return err
	}
	if !saved.Saved {
		fmt.Fprintln(out, dimStyle.Render("No changes to save"))
		return nil
	}
	name := svc.State().CurrentDocument.Name
	fmt.Fprintln(out, successStyle.Render("Saved "+name))
	return nil
}
