package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tsawler/pagina"
	"github.com/tsawler/pagina/web"
)

var splitCmd = &cobra.Command{
	Use:   "split <pdf|html>",
	Short: "Split a document into standalone per-section pages",
	Long: `Split breaks a converted document into one HTML file per top-level
section, each a standalone page named from the sanitized section title.

A PDF input is converted first; an .html input is split as-is.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outDir, _ := cmd.Flags().GetString("dir")
		title, _ := cmd.Flags().GetString("title")

		var (
			files []web.SectionFile
			err   error
		)
		if strings.EqualFold(filepath.Ext(args[0]), ".html") {
			blob, rerr := os.ReadFile(args[0])
			if rerr != nil {
				return rerr
			}
			files, err = web.SplitSections(blob)
		} else {
			files, _, err = configureConverter(pagina.Open(args[0]), title, false).Sections()
		}
		if err != nil {
			return fmt.Errorf("splitting %s: %w", args[0], err)
		}
		if len(files) == 0 {
			return fmt.Errorf("no sections found in %s", args[0])
		}

		if outDir == "" {
			outDir = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + "_sections"
		}
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return err
		}
		for _, f := range files {
			path := filepath.Join(outDir, f.Name)
			if err := os.WriteFile(path, f.HTML, 0o644); err != nil {
				return err
			}
			fmt.Fprintln(os.Stderr, "Wrote", path)
		}
		return nil
	},
}

func init() {
	splitCmd.Flags().StringP("dir", "d", "", "output directory (default: input name with _sections)")
	splitCmd.Flags().String("title", "", "override the document title before splitting")

	rootCmd.AddCommand(splitCmd)
}
