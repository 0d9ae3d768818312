package cmd

import (
	"fmt"

	"github.com/shubhamsharma-10/CloudDrive/internal/cli/api"
	"github.com/shubhamsharma-10/CloudDrive/internal/cli/output"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <file-id>",
	Short: "Show details for a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}

		f, err := fetchFile(args[0])
		if err != nil {
			return err
		}

		if flagJSON {
			output.JSON(f)
			return nil
		}

		output.FileDetail(f)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func fetchFile(id string) (api.File, error) {
	var resp api.Response[api.File]
	if err := apiClient.Get("/files/"+id, nil, &resp); err != nil {
		return api.File{}, fmt.Errorf("fetching file info: %w", err)
	}
	return resp.Data, nil
}
