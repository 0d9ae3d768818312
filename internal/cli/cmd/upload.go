package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/shubhamsharma-10/CloudDrive/internal/cli/api"
	"github.com/shubhamsharma-10/CloudDrive/internal/cli/output"
	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file>...",
	Short: "Upload one or more files",
	Long: `Upload local files. Directories are not supported.

  clouddrive upload report.pdf
  clouddrive upload *.png`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}

		var uploaded []api.File
		failed := 0
		for _, path := range args {
			file, err := uploadFile(path)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed: %s: %v\n", filepath.Base(path), err)
				failed++
				continue
			}
			uploaded = append(uploaded, file)
			if !flagJSON {
				printf("Uploaded %s (%s) id=%s\n", file.Filename, output.FormatSize(file.Size), file.ID)
			}
		}

		if flagJSON {
			output.JSON(uploaded)
		}
		if failed > 0 {
			return fmt.Errorf("%d file(s) failed to upload", failed)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}

func uploadFile(path string) (api.File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return api.File{}, err
	}
	if info.IsDir() {
		return api.File{}, fmt.Errorf("is a directory")
	}

	var resp api.Response[api.File]
	if err := apiClient.Upload("/files/upload", "file", path, &resp); err != nil {
		return api.File{}, err
	}
	return resp.Data, nil
}
