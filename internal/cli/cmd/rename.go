package cmd

import (
	"fmt"

	"github.com/shubhamsharma-10/CloudDrive/internal/cli/api"
	"github.com/shubhamsharma-10/CloudDrive/internal/cli/output"
	"github.com/spf13/cobra"
)

var renameCmd = &cobra.Command{
	Use:     "rename <file-id> <new-name>",
	Aliases: []string{"mv"},
	Short:   "Rename a file",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}

		body := map[string]string{"newFilename": args[1]}
		var resp api.Response[api.File]
		if err := apiClient.Put("/files/"+args[0]+"/rename", body, &resp); err != nil {
			return fmt.Errorf("renaming: %w", err)
		}

		if flagJSON {
			output.JSON(resp.Data)
			return nil
		}

		printf("Renamed to %s\n", resp.Data.Filename)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renameCmd)
}
