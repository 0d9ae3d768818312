package cmd

import (
	"fmt"

	"github.com/shubhamsharma-10/CloudDrive/internal/cli/api"
	"github.com/shubhamsharma-10/CloudDrive/internal/cli/output"
	"github.com/spf13/cobra"
)

var (
	flagEmail    string
	flagName     string
	flagPassword string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and log in",
	Long: `Create a password account on the server. The password is read from
standard input when --password is not given.

  clouddrive register --email me@example.com --name "Jane Doe"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagEmail == "" || flagName == "" {
			return fmt.Errorf("--email and --name are required")
		}

		password := flagPassword
		if password == "" {
			var err error
			if password, err = prompt(cmd.InOrStdin(), "Password: "); err != nil {
				return fmt.Errorf("reading password: %w", err)
			}
		}

		body := map[string]string{
			"email":    flagEmail,
			"password": password,
			"name":     flagName,
		}
		var resp api.Response[api.AuthResponse]
		if err := apiClient.Post("/auth/register", body, &resp); err != nil {
			return fmt.Errorf("registering: %w", err)
		}

		if err := saveSession(resp.Data); err != nil {
			return err
		}

		if flagJSON {
			output.JSON(resp.Data.User)
			return nil
		}
		printf("Registered and logged in as %s (%s)\n", resp.Data.User.Name, resp.Data.User.Email)
		return nil
	},
}

func init() {
	registerCmd.Flags().StringVar(&flagEmail, "email", "", "Account email")
	registerCmd.Flags().StringVar(&flagName, "name", "", "Display name")
	registerCmd.Flags().StringVar(&flagPassword, "password", "", "Account password (prompted when omitted)")
	rootCmd.AddCommand(registerCmd)
}
