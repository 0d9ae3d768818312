package cmd

import (
	"fmt"
	"strings"

	"github.com/shubhamsharma-10/CloudDrive/internal/cli/api"
	"github.com/spf13/cobra"
)

var flagForce bool

var rmCmd = &cobra.Command{
	Use:   "rm <file-id>",
	Short: "Delete a file",
	Long: `Delete a file and its stored bytes. This cannot be undone.

  clouddrive rm 550e8400-e29b-41d4-a716-446655440000
  clouddrive rm <file-id> --force     Skip confirmation`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}

		f, err := fetchFile(args[0])
		if err != nil {
			return err
		}

		if !flagForce {
			answer, err := prompt(cmd.InOrStdin(), fmt.Sprintf("Delete %q? This cannot be undone. [y/N] ", f.Filename))
			if err != nil {
				return err
			}
			answer = strings.ToLower(answer)
			if answer != "y" && answer != "yes" {
				printf("Cancelled.\n")
				return nil
			}
		}

		if err := apiClient.Delete("/files/"+f.ID, &api.Response[any]{}); err != nil {
			return fmt.Errorf("deleting: %w", err)
		}

		printf("Deleted: %s\n", f.Filename)
		return nil
	},
}

func init() {
	rmCmd.Flags().BoolVarP(&flagForce, "force", "f", false, "Skip confirmation prompt")
	rootCmd.AddCommand(rmCmd)
}
