package cmd

import (
	"fmt"
	"net/url"

	"github.com/shubhamsharma-10/CloudDrive/internal/cli/api"
	"github.com/shubhamsharma-10/CloudDrive/internal/cli/output"
	"github.com/spf13/cobra"
)

var flagSearch string

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List your files",
	Long: `List your files, newest first.

  clouddrive ls
  clouddrive ls --search report     Case-insensitive filename match`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}

		path := "/files"
		params := url.Values{}
		if flagSearch != "" {
			path = "/files/search"
			params.Set("q", flagSearch)
		}

		var resp api.Response[[]api.File]
		if err := apiClient.Get(path, params, &resp); err != nil {
			return fmt.Errorf("listing files: %w", err)
		}

		if flagJSON {
			output.JSON(resp.Data)
			return nil
		}

		output.FileTable(resp.Data)
		return nil
	},
}

func init() {
	lsCmd.Flags().StringVarP(&flagSearch, "search", "s", "", "Only list files whose name contains this text")
	rootCmd.AddCommand(lsCmd)
}
