package cmd

import (
	"fmt"

	"github.com/shubhamsharma-10/CloudDrive/internal/cli/api"
	"github.com/shubhamsharma-10/CloudDrive/internal/cli/output"
	"github.com/spf13/cobra"
)

var shareCmd = &cobra.Command{
	Use:   "share <file-id>",
	Short: "Create a public link for a file",
	Long: `Make a file readable by anyone holding its link. Sharing again after
unshare issues a new link; the old one stops working.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}

		var resp api.Response[api.ShareResponse]
		if err := apiClient.Post("/files/"+args[0]+"/share", nil, &resp); err != nil {
			return fmt.Errorf("sharing: %w", err)
		}

		if flagJSON {
			output.JSON(resp.Data)
			return nil
		}

		printf("Shared %s\n", resp.Data.File.Filename)
		printf("Link:  %s\n", resp.Data.ShareURL)
		printf("Token: %s\n", resp.Data.SharedToken)
		return nil
	},
}

var unshareCmd = &cobra.Command{
	Use:   "unshare <file-id>",
	Short: "Revoke a file's public link",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}

		var resp api.Response[api.File]
		if err := apiClient.Post("/files/"+args[0]+"/unshare", nil, &resp); err != nil {
			return fmt.Errorf("revoking share: %w", err)
		}

		printf("Link revoked for %s\n", resp.Data.Filename)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(shareCmd)
	rootCmd.AddCommand(unshareCmd)
}
