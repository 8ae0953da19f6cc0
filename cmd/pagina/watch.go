package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tsawler/pagina"
	"github.com/tsawler/pagina/store"
)

// settleDelay is how long a new PDF must sit unchanged before conversion
// starts, so partially written uploads are not read mid-copy.
const settleDelay = 500 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Convert PDFs as they appear in a directory",
	Long: `Watch monitors a directory and converts every PDF dropped into it.
Output goes into a directory-backed store (--store, default <dir>/converted),
one file per document under a generated id.

Watch runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]
		storeDir, _ := cmd.Flags().GetString("store")
		if storeDir == "" {
			storeDir = viper.GetString("store")
		}
		if storeDir == "" {
			storeDir = filepath.Join(dir, "converted")
		}
		st, err := store.NewFS(storeDir)
		if err != nil {
			return err
		}

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("starting watcher: %w", err)
		}
		defer watcher.Close()
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}

		fmt.Fprintln(os.Stderr, "Watching", dir, "-> store", storeDir)

		// pending holds paths that changed recently, keyed to the time
		// their conversion may start.
		pending := map[string]time.Time{}
		ticker := time.NewTicker(settleDelay)
		defer ticker.Stop()

		for {
			select {
			case <-cmd.Context().Done():
				return nil

			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
					continue
				}
				if !strings.EqualFold(filepath.Ext(event.Name), ".pdf") {
					continue
				}
				pending[event.Name] = time.Now().Add(settleDelay)

			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				slog.Warn("watch error", "err", err)

			case now := <-ticker.C:
				for path, due := range pending {
					if now.Before(due) {
						continue
					}
					delete(pending, path)
					convertToStore(path, st)
				}
			}
		}
	},
}

func convertToStore(path string, st *store.FS) {
	page, _, err := configureConverter(pagina.Open(path), "", false).HTML()
	if err != nil {
		slog.Error("conversion failed", "file", path, "err", err)
		return
	}
	id, err := st.Put([]byte(page))
	if err != nil {
		slog.Error("store failed", "file", path, "err", err)
		return
	}
	fmt.Printf("%s -> %s\n", path, id)
}

func init() {
	watchCmd.Flags().String("store", "", "store directory (default: <dir>/converted)")

	rootCmd.AddCommand(watchCmd)
}
