package cmd

import (
	"fmt"
	"net/url"

	"github.com/shubhamsharma-10/CloudDrive/internal/cli/api"
	"github.com/shubhamsharma-10/CloudDrive/internal/cli/output"
	"github.com/spf13/cobra"
)

var flagSave bool

var sharedCmd = &cobra.Command{
	Use:   "shared <token>",
	Short: "Inspect or fetch a publicly shared file",
	Long: `Look up a shared link by its token. No login is needed.

  clouddrive shared <token>
  clouddrive shared <token> --save -o copy.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp api.Response[api.SharedFileResponse]
		if err := apiClient.Get("/files/shared/"+url.PathEscape(args[0]), nil, &resp); err != nil {
			return fmt.Errorf("fetching shared file: %w", err)
		}
		f := resp.Data.File

		if flagSave {
			return saveSignedURL(f.URL, f.Filename, ".")
		}

		if flagJSON {
			output.JSON(f)
			return nil
		}

		output.SharedFileDetail(f)
		return nil
	},
}

func init() {
	sharedCmd.Flags().BoolVar(&flagSave, "save", false, "Download the file instead of printing its details")
	sharedCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output file path when saving")
	rootCmd.AddCommand(sharedCmd)
}
