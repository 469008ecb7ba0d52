package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/HaiFongPan/pubdrop/internal/navpath"
	"github.com/HaiFongPan/pubdrop/internal/output"
	"github.com/HaiFongPan/pubdrop/internal/remote"
)

var searchOutput string

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <storageId> <query> [path]",
	Short: "Search a storage below a folder",
	Long: `Search the entries of a storage whose name matches query. Only the
public files API backend supports searching.`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		var path string
		if len(args) > 2 {
			path = navpath.Clean(args[2])
		}

		format, err := output.ParseFormat(searchOutput)
		if err != nil {
			return err
		}

		client, err := newClient(cmd.Context(), GetConfig())
		if err != nil {
			return err
		}

		searcher, ok := client.(remote.Searcher)
		if !ok {
			return remote.ErrSearchUnsupported
		}

		entries, err := searcher.Search(cmd.Context(), args[0], path, args[1])
		if errors.Is(err, remote.ErrSearchUnsupported) {
			return fmt.Errorf("%w, use --backend api", err)
		}
		if err != nil {
			return err
		}
		return writeEntries(cmd.OutOrStdout(), entries, format)
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVarP(&searchOutput, "output", "o", "table", "output format: table, json or yaml")
}
