package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/HaiFongPan/pubdrop/internal/navpath"
	"github.com/HaiFongPan/pubdrop/internal/output"
	"github.com/HaiFongPan/pubdrop/internal/remote"
	"github.com/HaiFongPan/pubdrop/internal/utils"
)

var infoOutput string

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info <storageId> <path>",
	Short: "Show the size and download link of a file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := output.ParseFormat(infoOutput)
		if err != nil {
			return err
		}

		client, err := newClient(cmd.Context(), GetConfig())
		if err != nil {
			return err
		}

		storageID, path := fileArgs(args)
		meta, err := client.FileMetadata(cmd.Context(), storageID, path)
		if err != nil {
			return err
		}
		return writeInfo(cmd.OutOrStdout(), format, meta, client.DownloadURL(storageID, path))
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().StringVarP(&infoOutput, "output", "o", "table", "output format: table, json or yaml")
}

// fileArgs returns the storage id and the cleaned file path of a
// <storageId> <path> command
func fileArgs(args []string) (string, string) {
	return args[0], navpath.Clean(args[1])
}

// fileInfo is the machine readable form of the info command
type fileInfo struct {
	Name        string `json:"name" yaml:"name"`
	Path        string `json:"path" yaml:"path"`
	Size        int64  `json:"size" yaml:"size"`
	ContentType string `json:"content_type" yaml:"content_type"`
	DownloadURL string `json:"download_url" yaml:"download_url"`
}

func writeInfo(out io.Writer, format output.Format, meta remote.FileMetadata, downloadURL string) error {
	info := fileInfo{
		Name:        meta.Name,
		Path:        meta.Path,
		Size:        meta.Size,
		ContentType: utils.DetectContentType(meta.Name),
		DownloadURL: downloadURL,
	}
	if format != output.FormatTable {
		return output.Print(out, format, info)
	}

	return output.PrintPairs(out, [][2]string{
		{"Name", info.Name},
		{"Path", info.Path},
		{"Size", utils.FormatSize(info.Size)},
		{"Type", info.ContentType},
		{"URL", info.DownloadURL},
	})
}
