package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "pagina",
	Short: "Reconstruct structured HTML from PDF documents",
	Long: `Pagina rebuilds document structure from PDFs that carry no semantic
markup. Headings, paragraphs, lists, tables, and figures are inferred from
glyph geometry, font metrics, and drawing primitives, and re-emitted as a
navigable, styled HTML page.

The pipeline includes:
  - Font-size and numbering-scheme heading classification
  - Two-column reading-order recovery
  - Table detection from keywords, ruled grids, and text alignment
  - Watermark filtering over the document's image population
  - Hyphenation repair and paragraph reflow`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})))
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./pagina.yaml or ~/.config/pagina/pagina.yaml)",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false, "log conversion warnings and debug detail to stderr",
	)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pagina")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pagina"))
		}
	}

	viper.SetEnvPrefix("PAGINA")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
