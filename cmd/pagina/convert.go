package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tsawler/pagina"
	"github.com/tsawler/pagina/store"
)

var convertCmd = &cobra.Command{
	Use:   "convert <pdf>",
	Short: "Convert a PDF into one structured HTML page",
	Long: `Convert reads a PDF, infers its structure, and writes a single
self-contained HTML file with a table of contents, detected tables, and
inline images.

By default the output lands next to the input with an .html extension.
With --store, the output is put into a directory-backed document store
under a generated id instead, and the id is printed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		title, _ := cmd.Flags().GetString("title")
		noImages, _ := cmd.Flags().GetBool("no-images")

		conv := configureConverter(pagina.Open(args[0]), title, noImages)

		if storeDir := viper.GetString("store"); storeDir != "" {
			page, _, err := conv.HTML()
			if err != nil {
				return fmt.Errorf("converting %s: %w", args[0], err)
			}

			st, err := store.NewFS(storeDir)
			if err != nil {
				return err
			}
			id, err := st.Put([]byte(page))
			if err != nil {
				return err
			}
			fmt.Println(id)
			return nil
		}

		if output == "" {
			output = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".html"
		}
		if _, err := conv.WriteFile(output); err != nil {
			return fmt.Errorf("converting %s: %w", args[0], err)
		}
		fmt.Fprintln(os.Stderr, "Wrote", output)
		return nil
	},
}

// configureConverter applies the shared conversion flags to a chain.
func configureConverter(conv *pagina.Converter, title string, noImages bool) *pagina.Converter {
	if vocabFile := viper.GetString("vocab"); vocabFile != "" {
		conv = conv.VocabularyFile(vocabFile)
	}
	if title != "" {
		conv = conv.Title(title)
	}
	if noImages {
		conv = conv.NoImages()
	}
	return conv.WithLogger(slog.Default())
}

func init() {
	convertCmd.Flags().StringP("output", "o", "", "output HTML path (default: input name with .html)")
	convertCmd.Flags().String("store", "", "store the output in this directory under a generated id")
	convertCmd.Flags().String("vocab", "", "YAML vocabulary overlay for the heuristics")
	convertCmd.Flags().String("title", "", "override the document title")
	convertCmd.Flags().Bool("no-images", false, "skip image extraction and embedding")

	viper.BindPFlag("store", convertCmd.Flags().Lookup("store"))
	viper.BindPFlag("vocab", convertCmd.Flags().Lookup("vocab"))

	rootCmd.AddCommand(convertCmd)
}
