package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/HaiFongPan/pubdrop/internal/utils"
)

var urlCopy bool

// urlCmd prints the download link of a file. The link is derived locally,
// nothing is requested from the storage.
var urlCmd = &cobra.Command{
	Use:   "url <storageId> <path>",
	Short: "Print the download link of a file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient(cmd.Context(), GetConfig())
		if err != nil {
			return err
		}

		link := client.DownloadURL(fileArgs(args))
		if urlCopy {
			if err := utils.CopyToClipboard(link); err != nil {
				return fmt.Errorf("failed to copy link: %w", err)
			}
		}
		fmt.Fprintln(cmd.OutOrStdout(), link)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(urlCmd)

	urlCmd.Flags().BoolVar(&urlCopy, "copy", false, "also copy the link to the clipboard")
}
