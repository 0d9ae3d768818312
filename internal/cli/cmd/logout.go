package cmd

import (
	"fmt"

	"github.com/shubhamsharma-10/CloudDrive/internal/cli/config"
	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove stored credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Clear(); err != nil {
			return fmt.Errorf("clearing config: %w", err)
		}
		printf("Logged out.\n")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
