package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/seongbear/document-edit-ai/internal/domain/models"
	"github.com/seongbear/document-edit-ai/internal/domain/services"
	"github.com/seongbear/document-edit-ai/internal/utils"
)

func newListCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List Word documents in the drive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd, func(ctx context.Context, svc services.SessionService) error {
				docs, err := svc.RefreshList(ctx)
				if err != nil {
					return err
				}
				printDocuments(cmd.OutOrStdout(), docs)
				return nil
			})
		},
	}
}

func printDocuments(out io.Writer, docs []models.DocumentRef) {
	if len(docs) == 0 {
		fmt.Fprintln(out, dimStyle.Render("No Word documents found"))
		return
	}

	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("Documents (%d)", len(docs))))
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSIZE\tMODIFIED\tID")
	for _, doc := range docs {
		modified := "unknown"
		if doc.HasLastModified() {
			modified = utils.FormatTimestamp(doc.LastModified)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			utils.Truncate(doc.Name, 40), utils.FormatFileSize(doc.SizeBytes), modified, doc.ID)
	}
	_ = w.Flush()
}

func newShowCmd(c *cli) *cobra.Command {
	var full bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print the text of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withDocument(cmd, args[0], func(_ context.Context, svc services.SessionService) error {
				state := svc.State()
				out := cmd.OutOrStdout()

				fmt.Fprintln(out, titleStyle.Render(state.CurrentDocument.Name))
				text := *state.CurrentText
				if full {
					fmt.Fprintln(out, text)
				} else {
					fmt.Fprintln(out, textStyle.Render(utils.FormatForDisplay(text, previewLength)))
				}

				for i, table := range utils.ParseTableContent(strings.ReplaceAll(text, "\n\n", "\n")) {
					fmt.Fprintln(out, labelStyle.Render(fmt.Sprintf("Table %d", i+1)))
					printTable(out, table)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&full, "full", false, "Print the whole text instead of a preview")
	return cmd
}

func printTable(out io.Writer, rows [][]string) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, row := range rows {
		fmt.Fprintln(w, "  "+strings.Join(row, "\t"))
	}
	_ = w.Flush()
}

func newInspectCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <id>",
		Short: "Report the structure and health of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd, func(ctx context.Context, svc services.SessionService) error {
				inspection, err := svc.Inspect(ctx, args[0])
				if err != nil {
					return err
				}
				printInspection(cmd.OutOrStdout(), inspection)
				return nil
			})
		},
	}
}

func printInspection(out io.Writer, in *models.Inspection) {
	fmt.Fprintln(out, titleStyle.Render(in.Document.Name))
	fmt.Fprintf(out, "%s %s\n", labelStyle.Render("Size:"), utils.FormatFileSize(in.Document.SizeBytes))

	if in.Validation.Valid {
		fmt.Fprintln(out, successStyle.Render("Valid document"))
	} else {
		fmt.Fprintln(out, errorStyle.Render("Invalid document"))
	}
	for _, msg := range in.Validation.Errors {
		fmt.Fprintln(out, errorStyle.Render("  error: "+msg))
	}
	for _, msg := range in.Stats.Errors {
		fmt.Fprintln(out, errorStyle.Render("  error: "+msg))
	}
	for _, msg := range in.Stats.Warnings {
		fmt.Fprintln(out, warnStyle.Render("  warning: "+msg))
	}

	fmt.Fprintf(out, "%s %d  %s %d  %s %d  %s %d\n",
		labelStyle.Render("Paragraphs:"), in.Validation.ParagraphCount,
		labelStyle.Render("Tables:"), in.Validation.TableCount,
		labelStyle.Render("Words:"), in.Stats.Words,
		labelStyle.Render("Characters:"), in.Stats.Characters,
	)

	if in.Structure == nil {
		return
	}
	if len(in.Structure.Headings) > 0 {
		fmt.Fprintln(out, labelStyle.Render("Headings"))
		for _, h := range in.Structure.Headings {
			fmt.Fprintf(out, "  %s %s\n", dimStyle.Render("["+h.Level+"]"), utils.Truncate(h.Text, 60))
		}
	}
	for _, table := range in.Structure.Tables {
		fmt.Fprintf(out, "%s %d rows x %d cols\n",
			labelStyle.Render(fmt.Sprintf("Table %d:", table.Index+1)), table.Rows, table.Cols)
	}
}
