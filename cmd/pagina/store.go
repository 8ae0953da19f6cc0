package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tsawler/pagina/store"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the converted-document store",
}

func openStore(cmd *cobra.Command) (*store.FS, error) {
	dir, _ := cmd.Flags().GetString("dir")
	if dir == "" {
		dir = viper.GetString("store")
	}
	if dir == "" {
		return nil, fmt.Errorf("no store directory: pass --dir or set store in the config")
	}
	return store.NewFS(dir)
}

var storeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored documents, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		entries, err := st.List()
		if err != nil {
			return err
		}
		for _, e := range entries {
			fmt.Printf("%s  %8d  %s  %s\n", e.ID, e.Size, e.Modified.Format("2006-01-02 15:04"), e.Title)
		}
		return nil
	},
}

var storeGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Write a stored document to stdout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		blob, err := st.Get(args[0])
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(blob)
		return err
	},
}

var storeDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		return st.Delete(args[0])
	},
}

var storeRenameCmd = &cobra.Command{
	Use:   "rename <id> <new-id>",
	Short: "Re-key a stored document",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		return st.Rename(args[0], args[1])
	},
}

func init() {
	storeCmd.PersistentFlags().StringP("dir", "d", "", "store directory")

	storeCmd.AddCommand(storeListCmd, storeGetCmd, storeDeleteCmd, storeRenameCmd)
	rootCmd.AddCommand(storeCmd)
}
