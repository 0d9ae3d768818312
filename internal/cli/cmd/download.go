package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/shubhamsharma-10/CloudDrive/internal/cli/api"
	"github.com/shubhamsharma-10/CloudDrive/internal/cli/output"
	"github.com/spf13/cobra"
)

var flagOutput string

var downloadCmd = &cobra.Command{
	Use:   "download <file-id> [local-dir]",
	Short: "Download a file",
	Long: `Download a file through a short-lived signed URL.

  clouddrive download <file-id>                 Save to current directory
  clouddrive download <file-id> ./out           Save into a directory
  clouddrive download <file-id> -o copy.pdf     Save under a different name
  clouddrive download <file-id> --json          Only print the signed URL`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}

		var resp api.Response[api.DownloadURLResponse]
		if err := apiClient.Get("/files/"+args[0]+"/download", nil, &resp); err != nil {
			return fmt.Errorf("getting download URL: %w", err)
		}

		if flagJSON {
			output.JSON(resp.Data)
			return nil
		}

		destDir := "."
		if len(args) > 1 {
			destDir = args[1]
		}
		return saveSignedURL(resp.Data.URL, resp.Data.Filename, destDir)
	},
}

func init() {
	downloadCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output file path (overrides default naming)")
	rootCmd.AddCommand(downloadCmd)
}

func saveSignedURL(signedURL, filename, destDir string) error {
	dest := filepath.Join(destDir, filepath.Base(filename))
	if flagOutput != "" {
		dest = flagOutput
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	if err := apiClient.DownloadToFile(signedURL, dest); err != nil {
		return fmt.Errorf("downloading: %w", err)
	}

	printf("Downloaded %s -> %s\n", filename, dest)
	return nil
}
