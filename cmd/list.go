package cmd

import (
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/HaiFongPan/pubdrop/internal/navpath"
	"github.com/HaiFongPan/pubdrop/internal/output"
	"github.com/HaiFongPan/pubdrop/internal/remote"
	"github.com/HaiFongPan/pubdrop/internal/utils"
)

var listOutput string

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list <storageId> [path]",
	Short: "List a folder of a storage",
	Long: `List the folders and files of a storage folder without starting the
interactive browser. Folders are listed first.

Examples:
  pubdrop list abc123              # root of the storage
  pubdrop list abc123 docs/2024    # a sub folder
  pubdrop list abc123 --output json`,
	Args: cobra.RangeArgs(1, 2),
	RunE: listFiles,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&listOutput, "output", "o", "table", "output format: table, json or yaml")
}

func listFiles(cmd *cobra.Command, args []string) error {
	storageID := args[0]
	var path string
	if len(args) > 1 {
		path = navpath.Clean(args[1])
	}

	format, err := output.ParseFormat(listOutput)
	if err != nil {
		return err
	}

	client, err := newClient(cmd.Context(), GetConfig())
	if err != nil {
		return err
	}

	logrus.Debugf("Listing %s in storage %s", path, storageID)
	entries, err := client.ListDirectory(cmd.Context(), storageID, path)
	if err != nil {
		return err
	}

	return writeEntries(cmd.OutOrStdout(), entries, format)
}

// entryList renders a listing as NAME, TYPE, SIZE, PATH rows
type entryList []remote.Entry

func (l entryList) Headers() []string {
	return []string{"Name", "Type", "Size", "Path"}
}

func (l entryList) Rows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, e := range l {
		size := "-"
		if e.IsFile {
			size = utils.FormatSize(e.Size)
		}
		rows = append(rows, []string{e.Name, utils.CategoryOf(e.Name, e.IsFile), size, e.Path})
	}
	return rows
}

func writeEntries(out io.Writer, entries []remote.Entry, format output.Format) error {
	if entries == nil {
		entries = []remote.Entry{}
	}
	if format == output.FormatTable {
		return output.Print(out, format, entryList(entries))
	}
	return output.Print(out, format, entries)
}
