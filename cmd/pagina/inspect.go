package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tsawler/pagina"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <pdf>",
	Short: "Summarize what a conversion would find in a PDF",
	Long: `Inspect runs the analysis pipeline without writing any output and
prints what it found: pages, sections, detected tables by strategy, images
with their watermark and diagram flags, and any recorded warnings.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := configureConverter(pagina.Open(args[0]), "", false).Document()
		if err != nil {
			return fmt.Errorf("inspecting %s: %w", args[0], err)
		}

		fmt.Printf("Title:    %s\n", doc.Title)
		fmt.Printf("Pages:    %d\n", doc.PageCount)
		fmt.Printf("Sections: %d\n", len(doc.Sections))
		for i, sec := range doc.Sections {
			fmt.Printf("  %d. %s (%d blocks, %d tables, %d images)\n",
				i+1, sec.Title, len(sec.Body), len(sec.Tables), len(sec.Images))
		}

		fmt.Printf("Tables:   %d\n", len(doc.Tables))
		for _, t := range doc.Tables {
			fmt.Printf("  page %d: %s, %d cols x %d rows  %s\n",
				t.Page+1, t.Kind, t.Cols(), len(t.Rows), t.Title)
		}

		fmt.Printf("Images:   %d\n", len(doc.Images))
		for _, im := range doc.Images {
			flags := ""
			if im.Diagram {
				flags += " diagram"
			}
			if im.Watermark {
				flags += " watermark"
			}
			fmt.Printf("  page %d: %s %dx%d%s\n", im.Page+1, im.Format, im.Width, im.Height, flags)
		}

		if len(doc.Warnings) > 0 {
			fmt.Printf("Warnings: %d\n", len(doc.Warnings))
			for _, w := range doc.Warnings {
				fmt.Printf("  %s\n", w)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
